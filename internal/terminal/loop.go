package terminal

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/DavidMogrovejo23cm/allpy/scanner/internal/attendance/display"
	"github.com/DavidMogrovejo23cm/allpy/scanner/internal/attendance/scan"
	"github.com/DavidMogrovejo23cm/allpy/scanner/internal/attendance/types"
)

// Loop is the single goroutine driving the terminal.  It owns the cooldown
// state (via the pipeline) and the currently displayed outcome; no other
// component mutates either.
type Loop struct {
	pipeline *scan.Pipeline
	adapter  *display.Adapter
	source   CodeSource
	renderer Renderer
	cues     CueOutput
	logger   *log.Logger

	displayFor time.Duration
	now        func() time.Time

	// CountScan, when set, receives every non-suppressed outcome kind.
	// Used to feed the metrics counter.
	CountScan func(kind types.OutcomeKind)
}

type Dependencies struct {
	Pipeline *scan.Pipeline
	Adapter  *display.Adapter
	Source   CodeSource
	Renderer Renderer
	Cues     CueOutput
	Logger   *log.Logger

	DisplayDuration time.Duration
	Now             func() time.Time // test hook; defaults to time.Now
}

func NewLoop(d Dependencies) *Loop {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	displayFor := d.DisplayDuration
	if displayFor <= 0 {
		displayFor = 5 * time.Second
	}
	return &Loop{
		pipeline:   d.Pipeline,
		adapter:    d.Adapter,
		source:     d.Source,
		renderer:   d.Renderer,
		cues:       d.Cues,
		logger:     d.Logger,
		displayFor: displayFor,
		now:        now,
	}
}

// Run processes codes until the source ends, a quit command arrives, or ctx
// is cancelled.  One tick = one code (or one expiry check) handled to
// completion; the remote calls inside the pipeline block the tick they
// occur in.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Printf("scanner loop started (quit: q, toggle sound: s)")

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	var shownAt time.Time
	showing := false

	for {
		select {
		case <-ctx.Done():
			l.logger.Printf("scanner loop interrupted")
			return ctx.Err()

		case code, ok := <-l.source.Codes():
			if !ok {
				if err := l.source.Err(); err != nil {
					l.logger.Printf("code source error: %v", err)
					return err
				}
				return nil
			}

			switch strings.ToLower(code) {
			case "q", "quit":
				l.logger.Printf("quit requested")
				return nil

			case "s", "sound":
				if l.cues.Toggle() {
					l.logger.Printf("sound enabled")
				} else {
					l.logger.Printf("sound disabled")
				}

			default:
				outcome := l.pipeline.Process(ctx, code)
				if outcome == nil {
					// Cooldown-suppressed; the displayed state stays as is.
					continue
				}
				if l.CountScan != nil {
					l.CountScan(outcome.Kind)
				}
				l.renderer.Show(l.adapter.Render(outcome))
				shownAt = l.now()
				showing = true
			}

		case <-ticker.C:
			if showing && l.now().Sub(shownAt) >= l.displayFor {
				l.renderer.Clear()
				showing = false
			}
		}
	}
}
