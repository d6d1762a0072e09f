package terminal

import (
	"log"
	"os/exec"
	"path/filepath"

	"github.com/DavidMogrovejo23cm/allpy/scanner/internal/attendance/types"
)

// CueOutput is the audio side of the terminal.  Play is called by the scan
// pipeline exactly once per accepted scan; Toggle flips playback without
// touching pipeline logic.
type CueOutput interface {
	Play(cue types.Cue)
	Toggle() bool
	Enabled() bool
}

var cueFiles = map[types.Cue]string{
	types.CueSuccess: "success.wav",
	types.CueWarning: "warning.wav",
	types.CueError:   "error.wav",
}

// ExecPlayer shells out to whatever wav player the host has.  Playback is
// fire-and-forget so a slow audio stack never stalls a tick.
type ExecPlayer struct {
	bin     string
	dir     string
	enabled bool
	logger  *log.Logger
}

// NewExecPlayer looks for a usable player binary.  When none is found the
// player stays constructed but silent, mirroring how the kiosk keeps running
// when its mixer fails to initialize.
func NewExecPlayer(dir string, enabled bool, logger *log.Logger) *ExecPlayer {
	var bin string
	for _, candidate := range []string{"aplay", "paplay", "afplay"} {
		if path, err := exec.LookPath(candidate); err == nil {
			bin = path
			break
		}
	}
	if bin == "" {
		logger.Printf("no wav player found, sound disabled")
		enabled = false
	}
	return &ExecPlayer{bin: bin, dir: dir, enabled: enabled, logger: logger}
}

func (p *ExecPlayer) Play(cue types.Cue) {
	if !p.enabled || p.bin == "" {
		return
	}
	file, ok := cueFiles[cue]
	if !ok {
		return
	}

	cmd := exec.Command(p.bin, filepath.Join(p.dir, file))
	if err := cmd.Start(); err != nil {
		p.logger.Printf("cue %s playback error: %v", cue, err)
		return
	}
	go func() { _ = cmd.Wait() }()
}

func (p *ExecPlayer) Toggle() bool {
	p.enabled = !p.enabled
	return p.enabled
}

func (p *ExecPlayer) Enabled() bool { return p.enabled }
