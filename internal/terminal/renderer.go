package terminal

import (
	"fmt"
	"io"

	"github.com/DavidMogrovejo23cm/allpy/scanner/internal/attendance/display"
)

// Renderer shows the current display outcome.  Show replaces whatever was
// shown before; Clear removes it once the display duration elapses.
type Renderer interface {
	Show(out display.DisplayOutcome)
	Clear()
}

var ansiColors = map[display.ColorTag]string{
	display.ColorOK:    "\033[32m", // green
	display.ColorWarn:  "\033[33m", // yellow
	display.ColorError: "\033[31m", // red
	display.ColorInfo:  "\033[35m", // magenta
}

const ansiReset = "\033[0m"

// ANSIRenderer writes colored outcome blocks to a terminal.
type ANSIRenderer struct {
	w io.Writer
}

func NewANSIRenderer(w io.Writer) *ANSIRenderer {
	return &ANSIRenderer{w: w}
}

func (r *ANSIRenderer) Show(out display.DisplayOutcome) {
	color := ansiColors[out.Color]
	for _, line := range out.Lines {
		fmt.Fprintf(r.w, "%s%s%s\n", color, line, ansiReset)
	}
}

// Clear is a no-op for scrolling terminal output; the block simply stops
// being the current one.  A framebuffer renderer would erase its overlay.
func (r *ANSIRenderer) Clear() {}
