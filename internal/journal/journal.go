package journal

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/DavidMogrovejo23cm/allpy/scanner/internal/attendance/types"
)

// Record is one journaled scan outcome.  The journal is a local audit trail
// only — the pipeline never reads it back, so losing it costs nothing but
// history.
type Record struct {
	ID         string
	Code       string
	Kind       types.OutcomeKind
	Action     types.Action
	EmployeeID int
	Message    string
	EventTime  string // server-assigned instant, verbatim
	CreatedAt  time.Time
}

// Store persists scan outcomes as an append-only log.
type Store interface {
	Append(ctx context.Context, rec Record) error
}

// NewRecord flattens an outcome into a journal record.
func NewRecord(o *types.Outcome, now time.Time) Record {
	rec := Record{
		ID:        uuid.NewString(),
		Code:      o.Code,
		Kind:      o.Kind,
		CreatedAt: now.UTC(),
	}

	if v := o.Validation; v != nil {
		rec.Action = v.Action
		rec.Message = v.Message
		if v.Employee != nil {
			rec.EmployeeID = v.Employee.ID
		}
	}
	if r := o.Record; r != nil {
		rec.Action = r.Action
		rec.Message = r.Message
		rec.EventTime = r.EventTime
		if r.EmployeeID != 0 {
			rec.EmployeeID = r.EmployeeID
		}
	}
	return rec
}
