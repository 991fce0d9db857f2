package forest

import "math/rand/v2"

// Trial runs one complete simulation: grow to density, ignite, spread until
// nothing burns. It returns the final burned percentage.
func Trial(w, h int, density float64, rng *rand.Rand) (float64, error) {
	f, err := New(w, h, rng)
	if err != nil {
		return 0, err
	}
	if err := f.Grow(density); err != nil {
		return 0, err
	}
	f.StartFire()
	f.RunToCompletion()
	return f.BurnedPercentage(), nil
}
