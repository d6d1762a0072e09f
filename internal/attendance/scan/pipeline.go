package scan

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/DavidMogrovejo23cm/allpy/scanner/internal/attendance/client"
	"github.com/DavidMogrovejo23cm/allpy/scanner/internal/attendance/types"
	"github.com/DavidMogrovejo23cm/allpy/scanner/internal/journal"
)

// AttendanceAPI is the remote service as seen by the pipeline.  Validate is
// advisory; Record is the only call that mutates server state.
type AttendanceAPI interface {
	Validate(ctx context.Context, code string) (*types.ValidationResult, error)
	Record(ctx context.Context, code string) (*types.RecordResult, error)
}

// CuePlayer receives exactly one audio cue per non-suppressed scan.
type CuePlayer interface {
	Play(cue types.Cue)
}

// Pipeline turns a raw decoded code into at most one typed outcome: gate,
// validate, then either reject, report already-complete, or record.  Remote
// failures of any kind are absorbed here and surface as negative results;
// nothing propagates as a crash.
type Pipeline struct {
	gate    *CooldownGate
	api     AttendanceAPI
	cues    CuePlayer
	journal journal.Store
	logger  *log.Logger
	now     func() time.Time
}

type Options struct {
	Cooldown time.Duration
	Journal  journal.Store // optional
	Now      func() time.Time
}

func NewPipeline(api AttendanceAPI, cues CuePlayer, logger *log.Logger, opts Options) *Pipeline {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		gate:    NewCooldownGate(opts.Cooldown),
		api:     api,
		cues:    cues,
		journal: opts.Journal,
		logger:  logger,
		now:     now,
	}
}

// Process runs one scan through the pipeline.  A nil outcome means the
// cooldown gate suppressed the code and the caller must not alter what is
// currently displayed.
func (p *Pipeline) Process(ctx context.Context, code string) *types.Outcome {
	if !p.gate.ShouldProcess(code, p.now()) {
		return nil
	}

	p.logger.Printf("scan: %s", code)

	validation, err := p.api.Validate(ctx, code)
	if err != nil {
		p.logRemoteFailure("validate", err)
		validation = &types.ValidationResult{
			Valid:   false,
			Action:  types.ActionError,
			Message: err.Error(),
		}
	}

	if !validation.Valid {
		p.logger.Printf("scan rejected: %s", validation.Message)
		return p.finish(ctx, &types.Outcome{
			Kind:       types.OutcomeRejected,
			Code:       code,
			Validation: validation,
		})
	}

	if validation.Action == types.ActionComplete {
		// Entry and exit already recorded today; success without mutation.
		p.logger.Printf("scan already complete: %s", code)
		return p.finish(ctx, &types.Outcome{
			Kind:       types.OutcomeAlreadyComplete,
			Code:       code,
			Validation: validation,
		})
	}

	record, err := p.api.Record(ctx, code)
	if err != nil {
		p.logRemoteFailure("record", err)
		record = &types.RecordResult{Succeeded: false, Message: err.Error()}
		return p.finish(ctx, &types.Outcome{
			Kind:       types.OutcomeRecordFailed,
			Code:       code,
			Validation: validation,
			Record:     record,
		})
	}

	p.logger.Printf("scan recorded: %s employee=%d action=%s", code, record.EmployeeID, record.Action)
	return p.finish(ctx, &types.Outcome{
		Kind:       types.OutcomeRecorded,
		Code:       code,
		Validation: validation,
		Record:     record,
	})
}

// finish triggers the outcome's cue and journals it.  Journal errors are
// intentionally not returned — a failed audit write should not prevent the
// terminal from showing its result.
func (p *Pipeline) finish(ctx context.Context, o *types.Outcome) *types.Outcome {
	p.cues.Play(types.CueFor(o.Kind))

	if p.journal != nil {
		if err := p.journal.Append(ctx, journal.NewRecord(o, p.now())); err != nil {
			p.logger.Printf("journal append error: %v", err)
		}
	}
	return o
}

func (p *Pipeline) logRemoteFailure(op string, err error) {
	var (
		te *client.TransportError
		ae *client.ApplicationError
		me *client.MalformedResponseError
	)
	switch {
	case errors.As(err, &te):
		p.logger.Printf("%s transport failure: %v", op, err)
	case errors.As(err, &ae):
		p.logger.Printf("%s failed with status %d: %s", op, ae.Status, ae.Detail)
	case errors.As(err, &me):
		p.logger.Printf("%s returned malformed body: %v", op, err)
	default:
		p.logger.Printf("%s error: %v", op, err)
	}
}
