package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/DavidMogrovejo23cm/allpy/scanner/internal/attendance/types"
)

// maxErrorBody caps how much of a non-2xx response body is read while
// looking for a "detail" field.
const maxErrorBody = 4096

// TransportError means the request never produced a usable HTTP response:
// timeout, connection refused, DNS failure.
type TransportError struct {
	Op      string // "validate" | "record" | "health"
	Timeout bool
	Err     error
}

func (e *TransportError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("%s: timeout: no response from attendance service", e.Op)
	}
	return fmt.Sprintf("%s: could not reach attendance service: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ApplicationError is a non-2xx response from the service.  Detail carries
// the body's "detail" field when one could be parsed, otherwise a status
// description.
type ApplicationError struct {
	Op     string
	Status int
	Detail string
}

func (e *ApplicationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Detail)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.Status)
}

// MalformedResponseError is a 2xx response whose body could not be decoded.
type MalformedResponseError struct {
	Op  string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s: unreadable response from attendance service: %v", e.Op, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// Client talks to the remote attendance service.  Validate is advisory and
// never mutates server state; Record commits a scan.  Every call is bounded
// by the configured timeout.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	logger  *log.Logger

	// Observe, when set, receives the duration of each completed remote
	// call.  Used to feed the metrics histogram.
	Observe func(op string, d time.Duration)
}

func New(baseURL string, timeout time.Duration, logger *log.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		timeout: timeout,
		logger:  logger,
	}
}

// Wire shapes.  Parsed at the boundary and converted to the typed results
// immediately; nothing downstream sees raw JSON.
type validateResponse struct {
	Valid        bool            `json:"valid"`
	Message      string          `json:"message"`
	Accion       string          `json:"accion"`
	EmpleadoInfo *types.Employee `json:"empleado_info"`
}

type scanResponse struct {
	EmpleadoID   int             `json:"empleado_id"`
	EmpleadoInfo *types.Employee `json:"empleado_info"`
	EsEntrada    bool            `json:"es_entrada"`
	HoraEntrada  string          `json:"hora_entrada"`
	HoraSalida   string          `json:"hora_salida"`
}

type errorBody struct {
	Detail string `json:"detail"`
}

// Validate asks whether code may be processed now.
func (c *Client) Validate(ctx context.Context, code string) (*types.ValidationResult, error) {
	const op = "validate"

	var wire validateResponse
	if err := c.getJSON(ctx, op, fmt.Sprintf("%s/qr/%s/validate", c.baseURL, url.PathEscape(code)), &wire); err != nil {
		return nil, err
	}

	res := &types.ValidationResult{
		Valid:    wire.Valid,
		Action:   parseAction(wire.Accion),
		Message:  wire.Message,
		Employee: wire.EmpleadoInfo,
	}
	if !res.Valid {
		// Invariant: invalid results carry no employee and action ERROR.
		res.Action = types.ActionError
		res.Employee = nil
	}
	return res, nil
}

// Record commits a scan for code.  The server decides whether it lands as an
// entry or an exit.
func (c *Client) Record(ctx context.Context, code string) (*types.RecordResult, error) {
	const op = "record"

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/qr/%s/scan", c.baseURL, url.PathEscape(code)), nil)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	c.observe(op, time.Since(start))
	if err != nil {
		return nil, c.transportError(op, err)
	}
	defer resp.Body.Close()

	c.logger.Printf("record %s status=%d", code, resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		return nil, c.applicationError(op, resp)
	}

	var wire scanResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, &MalformedResponseError{Op: op, Err: err}
	}

	res := &types.RecordResult{
		Succeeded:  true,
		Message:    "scan registered",
		EmployeeID: wire.EmpleadoID,
		Employee:   wire.EmpleadoInfo,
	}
	if wire.EsEntrada {
		res.Action = types.ActionEntry
		res.EventTime = wire.HoraEntrada
	} else {
		res.Action = types.ActionExit
		res.EventTime = wire.HoraSalida
	}
	return res, nil
}

// Health probes the service before the scan loop starts.  GET /health is
// authoritative; /info is accepted as a fallback for older deployments.
func (c *Client) Health(ctx context.Context) error {
	var probe struct{}
	if err := c.getJSON(ctx, "health", c.baseURL+"/health", &probe); err == nil {
		return nil
	}
	return c.getJSON(ctx, "health", c.baseURL+"/info", &probe)
}

func (c *Client) getJSON(ctx context.Context, op, u string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	c.observe(op, time.Since(start))
	if err != nil {
		return c.transportError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.applicationError(op, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			// Empty 200 bodies are fine for the health probe.
			return nil
		}
		return &MalformedResponseError{Op: op, Err: err}
	}
	return nil
}

func (c *Client) transportError(op string, err error) error {
	te := &TransportError{Op: op, Err: err}
	var ue *url.Error
	if errors.As(err, &ue) && ue.Timeout() {
		te.Timeout = true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		te.Timeout = true
	}
	return te
}

func (c *Client) applicationError(op string, resp *http.Response) error {
	ae := &ApplicationError{Op: op, Status: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err == nil {
		var eb errorBody
		if json.Unmarshal(body, &eb) == nil && eb.Detail != "" {
			ae.Detail = eb.Detail
		}
	}
	if ae.Detail == "" {
		ae.Detail = fmt.Sprintf("status %d", resp.StatusCode)
	}
	return ae
}

func (c *Client) observe(op string, d time.Duration) {
	if c.Observe != nil {
		c.Observe(op, d)
	}
}

func parseAction(s string) types.Action {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ENTRADA":
		return types.ActionEntry
	case "SALIDA":
		return types.ActionExit
	case "COMPLETADO":
		return types.ActionComplete
	case "ERROR":
		return types.ActionError
	default:
		return types.ActionUnknown
	}
}
