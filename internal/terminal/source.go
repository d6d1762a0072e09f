package terminal

import (
	"bufio"
	"io"
	"strings"
)

// CodeSource supplies decoded QR payloads to the control loop.  The decoding
// itself (camera, detector) lives behind this boundary and is all-or-nothing
// per frame: either a full payload arrives or nothing does.
type CodeSource interface {
	// Codes yields decoded payloads.  The channel closes when the source
	// is exhausted or fails.
	Codes() <-chan string

	// Err reports why the source stopped, if it stopped on its own.
	Err() error
}

// LineSource reads newline-delimited payloads from a reader — the shape a
// keyboard-wedge QR scanner presents, and what stdin gives in dev.
type LineSource struct {
	ch  chan string
	err error
}

func NewLineSource(r io.Reader) *LineSource {
	s := &LineSource{ch: make(chan string)}

	go func() {
		defer close(s.ch)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" {
				continue
			}
			s.ch <- line
		}
		s.err = sc.Err()
	}()

	return s
}

func (s *LineSource) Codes() <-chan string { return s.ch }
func (s *LineSource) Err() error           { return s.err }
