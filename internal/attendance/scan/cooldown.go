package scan

import "time"

// CooldownGate suppresses reprocessing of the single most-recently-seen code.
// A code held in front of the camera decodes on many consecutive frames; the
// gate collapses those into one pipeline run per window.
//
// The slot holds only the last code.  Presenting A, then B, then A again
// inside the window processes A twice — that is the intended behavior, not a
// per-code history.
type CooldownGate struct {
	window   time.Duration
	lastCode string
	lastSeen time.Time
}

func NewCooldownGate(window time.Duration) *CooldownGate {
	if window <= 0 {
		window = 3 * time.Second
	}
	return &CooldownGate{window: window}
}

// ShouldProcess reports whether code should run through the pipeline now.
// Whenever it returns true it claims the slot for code, regardless of what
// downstream processing later decides — a failed validation still consumes
// the cooldown for that code.
func (g *CooldownGate) ShouldProcess(code string, now time.Time) bool {
	if code == g.lastCode && now.Sub(g.lastSeen) < g.window {
		return false
	}
	g.lastCode = code
	g.lastSeen = now
	return true
}
