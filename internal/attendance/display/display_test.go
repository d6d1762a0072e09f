package display_test

import (
	"testing"
	"time"

	"github.com/DavidMogrovejo23cm/allpy/scanner/internal/attendance/display"
	"github.com/DavidMogrovejo23cm/allpy/scanner/internal/attendance/types"
)

// utcMinus5 stands in for the Ecuador display zone without depending on the
// host's zone database.
var utcMinus5 = time.FixedZone("UTC-5", -5*60*60)

func TestFormatLocalTime_UTCInstantConvertedToDisplayZone(t *testing.T) {
	got := display.FormatLocalTime("2024-01-15T13:00:00Z", utcMinus5)
	want := "2024-01-15 08:00:00"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFormatLocalTime_ExplicitOffsetAccepted(t *testing.T) {
	got := display.FormatLocalTime("2024-01-15T13:00:00+00:00", utcMinus5)
	if got != "2024-01-15 08:00:00" {
		t.Errorf("unexpected conversion: %q", got)
	}
}

func TestFormatLocalTime_BareCivilTimeTakenAsUTC(t *testing.T) {
	got := display.FormatLocalTime("2024-01-15T13:00:00", utcMinus5)
	if got != "2024-01-15 08:00:00" {
		t.Errorf("unexpected conversion: %q", got)
	}
}

func TestFormatLocalTime_MalformedInputVerbatim(t *testing.T) {
	for _, raw := range []string{"", "  ", "not-a-time", "2024-99-99T13:00:00Z"} {
		if got := display.FormatLocalTime(raw, utcMinus5); got != raw {
			t.Errorf("expected %q back verbatim, got %q", raw, got)
		}
	}
}

func TestRender_RecordedEntry(t *testing.T) {
	a := display.NewAdapter(utcMinus5)

	out := a.Render(&types.Outcome{
		Kind: types.OutcomeRecorded,
		Code: "EMP42",
		Validation: &types.ValidationResult{Valid: true, Action: types.ActionEntry},
		Record: &types.RecordResult{
			Succeeded:  true,
			Action:     types.ActionEntry,
			EmployeeID: 42,
			Employee: &types.Employee{
				ID: 42, Name: "Maria Lopez", Email: "maria.lopez@example.com", Role: "Operaciones",
			},
			EventTime: "2024-01-15T13:00:00Z",
		},
	})

	want := []string{
		"ENTRADA REGISTRADA",
		"Maria Lopez",
		"maria.lopez@example.com",
		"Operaciones",
		"2024-01-15 08:00:00",
		"ID: 42",
	}
	if len(out.Lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %v", len(want), len(out.Lines), out.Lines)
	}
	for i, w := range want {
		if out.Lines[i] != w {
			t.Errorf("line %d: expected %q, got %q", i, w, out.Lines[i])
		}
	}
	if out.Color != display.ColorOK {
		t.Errorf("expected color ok for entry, got %s", out.Color)
	}
	if out.Sound != types.CueSuccess {
		t.Errorf("expected success sound, got %s", out.Sound)
	}
}

func TestRender_RecordedExitUsesDistinctColor(t *testing.T) {
	a := display.NewAdapter(utcMinus5)

	out := a.Render(&types.Outcome{
		Kind:       types.OutcomeRecorded,
		Validation: &types.ValidationResult{Valid: true, Action: types.ActionExit},
		Record:     &types.RecordResult{Succeeded: true, Action: types.ActionExit, EmployeeID: 42},
	})

	if out.Lines[0] != "SALIDA REGISTRADA" {
		t.Errorf("unexpected first line: %q", out.Lines[0])
	}
	if out.Color != display.ColorWarn {
		t.Errorf("expected exit to use the warn-tier color, got %s", out.Color)
	}
	if out.Sound != types.CueSuccess {
		t.Errorf("a recorded exit is still a success cue, got %s", out.Sound)
	}
}

func TestRender_RecordedWithoutEmployeeOrTimestamp(t *testing.T) {
	a := display.NewAdapter(utcMinus5)

	out := a.Render(&types.Outcome{
		Kind:       types.OutcomeRecorded,
		Validation: &types.ValidationResult{Valid: true, Action: types.ActionEntry},
		Record:     &types.RecordResult{Succeeded: true, Action: types.ActionEntry, EmployeeID: 7},
	})

	want := []string{"ENTRADA REGISTRADA", "ID: 7"}
	if len(out.Lines) != len(want) {
		t.Fatalf("expected %d lines, got %v", len(want), out.Lines)
	}
}

func TestRender_MalformedTimestampShownVerbatim(t *testing.T) {
	a := display.NewAdapter(utcMinus5)

	out := a.Render(&types.Outcome{
		Kind:       types.OutcomeRecorded,
		Validation: &types.ValidationResult{Valid: true, Action: types.ActionEntry},
		Record: &types.RecordResult{
			Succeeded: true, Action: types.ActionEntry, EmployeeID: 7, EventTime: "garbage",
		},
	})

	found := false
	for _, line := range out.Lines {
		if line == "garbage" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected raw timestamp in lines, got %v", out.Lines)
	}
}

func TestRender_AlreadyComplete(t *testing.T) {
	a := display.NewAdapter(utcMinus5)

	out := a.Render(&types.Outcome{
		Kind: types.OutcomeAlreadyComplete,
		Validation: &types.ValidationResult{
			Valid: true, Action: types.ActionComplete, Message: "entrada y salida ya registradas hoy",
		},
	})

	if out.Lines[0] != "YA COMPLETO HOY" {
		t.Errorf("unexpected first line: %q", out.Lines[0])
	}
	if out.Lines[1] != "entrada y salida ya registradas hoy" {
		t.Errorf("expected validation message, got %q", out.Lines[1])
	}
	if out.Color != display.ColorInfo {
		t.Errorf("expected the already-done tone, got %s", out.Color)
	}
	if out.Sound != types.CueWarning {
		t.Errorf("expected warning sound, got %s", out.Sound)
	}
}

func TestRender_Rejected(t *testing.T) {
	a := display.NewAdapter(utcMinus5)

	out := a.Render(&types.Outcome{
		Kind:       types.OutcomeRejected,
		Validation: &types.ValidationResult{Valid: false, Action: types.ActionError, Message: "not found"},
	})

	if out.Lines[0] != "QR INVALIDO" || out.Lines[1] != "not found" {
		t.Errorf("unexpected lines: %v", out.Lines)
	}
	if out.Color != display.ColorError {
		t.Errorf("expected error color, got %s", out.Color)
	}
	if out.Sound != types.CueError {
		t.Errorf("expected error sound, got %s", out.Sound)
	}
}

func TestRender_RecordFailed(t *testing.T) {
	a := display.NewAdapter(utcMinus5)

	out := a.Render(&types.Outcome{
		Kind:       types.OutcomeRecordFailed,
		Validation: &types.ValidationResult{Valid: true, Action: types.ActionEntry},
		Record:     &types.RecordResult{Succeeded: false, Message: "record: status 500"},
	})

	if out.Lines[0] != "ERROR AL REGISTRAR" || out.Lines[1] != "record: status 500" {
		t.Errorf("unexpected lines: %v", out.Lines)
	}
	if out.Color != display.ColorError {
		t.Errorf("expected error color, got %s", out.Color)
	}
	if out.Sound != types.CueError {
		t.Errorf("expected error sound, got %s", out.Sound)
	}
}

func TestRender_EmployeeNameFallsBackToID(t *testing.T) {
	a := display.NewAdapter(utcMinus5)

	out := a.Render(&types.Outcome{
		Kind:       types.OutcomeRecorded,
		Validation: &types.ValidationResult{Valid: true, Action: types.ActionEntry},
		Record: &types.RecordResult{
			Succeeded: true, Action: types.ActionEntry, EmployeeID: 99,
			Employee: &types.Employee{ID: 99},
		},
	})

	if out.Lines[1] != "Empleado 99" {
		t.Errorf("expected name fallback, got %q", out.Lines[1])
	}
}
