package sweep

// Span is the contiguous, half-open range of trial indices owned by one
// worker.
type Span struct {
	Worker int
	Start  int
	End    int
}

// Len returns the number of trials in the span.
func (s Span) Len() int { return s.End - s.Start }

// Partition splits trials into one contiguous span per worker. When trials
// does not divide evenly the first trials%workers workers take one extra
// trial each, so every trial is assigned exactly once. Workers beyond the
// trial count receive empty spans.
func Partition(trials, workers int) []Span {
	if trials <= 0 || workers <= 0 {
		return nil
	}
	base, extra := trials/workers, trials%workers
	spans := make([]Span, workers)
	start := 0
	for w := range spans {
		n := base
		if w < extra {
			n++
		}
		spans[w] = Span{Worker: w, Start: start, End: start + n}
		start += n
	}
	return spans
}
