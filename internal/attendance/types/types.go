package types

// Action is the clock event the server decided for a code: first scan of the
// day is an entry, second is an exit, anything after both is complete.  The
// string values are the ones the attendance API speaks on the wire.
type Action string

const (
	ActionEntry    Action = "ENTRADA"
	ActionExit     Action = "SALIDA"
	ActionComplete Action = "COMPLETADO"
	ActionUnknown  Action = "UNKNOWN"
	ActionError    Action = "ERROR"
)

// Employee is the subset of employee info the terminal displays.
type Employee struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ValidationResult is the parsed answer to "may this code be processed now".
// When Valid is false, Action is ActionError and Employee is nil.
type ValidationResult struct {
	Valid    bool
	Action   Action
	Message  string
	Employee *Employee
}

// RecordResult is the parsed answer to committing a scan.  EventTime carries
// the server-assigned timestamp as received (an ISO-8601 instant in UTC);
// conversion to the display zone happens at render time so a malformed value
// can still be shown verbatim.
type RecordResult struct {
	Succeeded  bool
	Action     Action
	Message    string
	EmployeeID int
	Employee   *Employee
	EventTime  string
}

// OutcomeKind classifies what a single accepted scan amounted to.
type OutcomeKind string

const (
	OutcomeRejected        OutcomeKind = "rejected"
	OutcomeAlreadyComplete OutcomeKind = "already_complete"
	OutcomeRecorded        OutcomeKind = "recorded"
	OutcomeRecordFailed    OutcomeKind = "record_failed"
)

// Outcome is the single typed result of a non-suppressed scan.  Validation is
// set for every outcome; Record only when a record call was attempted.
type Outcome struct {
	Kind       OutcomeKind
	Code       string
	Validation *ValidationResult
	Record     *RecordResult
}

// Cue is the audio feedback category for an outcome.
type Cue string

const (
	CueSuccess Cue = "success"
	CueWarning Cue = "warning"
	CueError   Cue = "error"
	CueNone    Cue = "none"
)

// CueFor maps an outcome kind to its audio cue: rejected and record-failed
// scans sound the error cue, already-complete warns, recorded succeeds.
func CueFor(kind OutcomeKind) Cue {
	switch kind {
	case OutcomeRecorded:
		return CueSuccess
	case OutcomeAlreadyComplete:
		return CueWarning
	case OutcomeRejected, OutcomeRecordFailed:
		return CueError
	default:
		return CueNone
	}
}
