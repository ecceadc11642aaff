// Package generation tags asynchronous loads so that only the completion of
// the most recently issued load is applied.
package generation

import "sync/atomic"

// Tracker hands out monotonically increasing generations. The zero value is
// ready to use.
type Tracker struct {
	latest atomic.Uint64
}

// Next issues a new generation, superseding every earlier one.
func (t *Tracker) Next() uint64 {
	return t.latest.Add(1)
}

// IsCurrent reports whether gen is still the latest issued generation.
func (t *Tracker) IsCurrent(gen uint64) bool {
	return t.latest.Load() == gen
}

// Latest returns the most recently issued generation.
func (t *Tracker) Latest() uint64 {
	return t.latest.Load()
}
