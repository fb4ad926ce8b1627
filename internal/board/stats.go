package board

import (
	"fmt"
	"math"

	"github.com/kanbo/kanbo-go/internal/task"
)

// Stats are per-status counts derived from a snapshot. Pure data, no stored
// state: recompute from the current list on every render.
type Stats struct {
	Backlog    int
	InProgress int
	Done       int
}

// Collect counts tasks per real status. Placeholder cards and any other
// non-real status are ignored.
func Collect(tasks []task.Task) Stats {
	var s Stats
	for _, t := range tasks {
		switch t.Status {
		case task.StatusBacklog:
			s.Backlog++
		case task.StatusInProgress:
			s.InProgress++
		case task.StatusDone:
			s.Done++
		}
	}
	return s
}

// Total returns the number of counted tasks.
func (s Stats) Total() int {
	return s.Backlog + s.InProgress + s.Done
}

// Percent returns the completion percentage rounded to one decimal place.
// An empty board is 0, not NaN.
func (s Stats) Percent() float64 {
	total := s.Total()
	if total == 0 {
		return 0
	}
	pct := float64(s.Done) / float64(total) * 100
	return math.Round(pct*10) / 10
}

// PercentString formats Percent with exactly one decimal, e.g. "25.0".
func (s Stats) PercentString() string {
	return fmt.Sprintf("%.1f", s.Percent())
}
