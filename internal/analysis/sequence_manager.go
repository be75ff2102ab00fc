package analysis

import (
	"sync/atomic"
)

// SequenceManager issues strictly increasing version numbers for published
// views, so observers can discard anything older than what they have shown.
type SequenceManager struct {
	current int64
}

// NewSequenceManager creates a sequence whose first Next returns 1
func NewSequenceManager() *SequenceManager {
	return &SequenceManager{}
}

// Next returns a new, unique version atomically
func (s *SequenceManager) Next() int64 {
	return atomic.AddInt64(&s.current, 1)
}

// GetCurrent returns the last issued version without incrementing
func (s *SequenceManager) GetCurrent() int64 {
	return atomic.LoadInt64(&s.current)
}
