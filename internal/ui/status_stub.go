//go:build !ebiten

package ui

// Status is a no-op placeholder for headless builds.
type Status struct{}

// StatusHeight returns 0 in the headless build.
func StatusHeight(int) int { return 0 }

// NewStatus returns nil in the headless build.
func NewStatus(int) *Status { return nil }

// Update is a no-op in the headless build.
func (s *Status) Update(Report) {}

// Draw is a no-op in the headless build.
func (s *Status) Draw(any, int) {}
