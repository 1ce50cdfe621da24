package lineview

import "slices"

// WarningWatch buffers warnings between a watch directive and the then/else
// that consumes them. The zero value is sleeping.
type WarningWatch struct {
	watching bool
	buffered []string
}

// Watching reports whether warnings are currently being buffered.
func (w *WarningWatch) Watching() bool {
	return w.watching
}

// Start begins buffering. It reports false if the watch was already running.
func (w *WarningWatch) Start() bool {
	if w.watching {
		return false
	}
	w.watching = true
	w.buffered = nil
	return true
}

// Buffer records a warning. It reports false when sleeping.
func (w *WarningWatch) Buffer(text string) bool {
	if !w.watching {
		return false
	}
	w.buffered = append(w.buffered, text)
	return true
}

// Stop puts the watch to sleep and hands over the buffered warnings. ok is
// false if the watch was not running.
func (w *WarningWatch) Stop() (warnings []string, ok bool) {
	if !w.watching {
		return nil, false
	}
	warnings = slices.Clip(w.buffered)
	w.watching = false
	w.buffered = nil
	return warnings, true
}

// Buffered returns the number of warnings collected so far.
func (w *WarningWatch) Buffered() int {
	return len(w.buffered)
}
