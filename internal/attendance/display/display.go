package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/DavidMogrovejo23cm/allpy/scanner/internal/attendance/types"
)

// ColorTag classifies how a display outcome should be tinted.  OK and Warn
// distinguish entry from exit visually; they are not severity-ranked.
type ColorTag string

const (
	ColorOK    ColorTag = "ok"
	ColorWarn  ColorTag = "warn"
	ColorError ColorTag = "error"
	ColorInfo  ColorTag = "info"
)

// DisplayOutcome is what the terminal shows for one accepted scan.  It
// replaces whatever was shown before and expires after the configured
// display duration.
type DisplayOutcome struct {
	Lines []string
	Color ColorTag
	Sound types.Cue
}

// Adapter maps pipeline outcomes to display payloads.  It consumes outcomes
// only; nothing here feeds back into the scan flow.
type Adapter struct {
	zone *time.Location
}

func NewAdapter(zone *time.Location) *Adapter {
	if zone == nil {
		zone = time.UTC
	}
	return &Adapter{zone: zone}
}

func (a *Adapter) Render(o *types.Outcome) DisplayOutcome {
	out := DisplayOutcome{Sound: types.CueFor(o.Kind)}

	switch o.Kind {
	case types.OutcomeRecorded:
		r := o.Record
		out.Lines = append(out.Lines, fmt.Sprintf("%s REGISTRADA", r.Action))
		out.Lines = append(out.Lines, employeeLines(r.Employee, r.EmployeeID)...)
		if r.EventTime != "" {
			out.Lines = append(out.Lines, FormatLocalTime(r.EventTime, a.zone))
		}
		out.Lines = append(out.Lines, fmt.Sprintf("ID: %d", r.EmployeeID))
		if r.Action == types.ActionExit {
			out.Color = ColorWarn
		} else {
			out.Color = ColorOK
		}

	case types.OutcomeAlreadyComplete:
		out.Lines = []string{"YA COMPLETO HOY", o.Validation.Message}
		out.Color = ColorInfo

	case types.OutcomeRejected:
		out.Lines = []string{"QR INVALIDO", o.Validation.Message}
		out.Color = ColorError

	case types.OutcomeRecordFailed:
		out.Lines = []string{"ERROR AL REGISTRAR", o.Record.Message}
		out.Color = ColorError
	}

	return out
}

func employeeLines(emp *types.Employee, id int) []string {
	if emp == nil {
		return nil
	}
	name := emp.Name
	if name == "" {
		name = fmt.Sprintf("Empleado %d", id)
	}
	return []string{name, emp.Email, emp.Role}
}

// FormatLocalTime converts an ISO-8601 UTC instant to the display zone as
// "2006-01-02 15:04:05".  A literal Z suffix is normalized to an explicit
// offset first; a bare civil time is taken as UTC.  Malformed input comes
// back verbatim so a bad server timestamp never breaks the render.
func FormatLocalTime(raw string, zone *time.Location) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return raw
	}
	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, err = time.ParseInLocation("2006-01-02T15:04:05", s, time.UTC)
	}
	if err != nil {
		return raw
	}
	return t.In(zone).Format("2006-01-02 15:04:05")
}
