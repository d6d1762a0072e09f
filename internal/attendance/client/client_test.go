package client_test

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DavidMogrovejo23cm/allpy/scanner/internal/attendance/client"
	"github.com/DavidMogrovejo23cm/allpy/scanner/internal/attendance/types"
	"github.com/DavidMogrovejo23cm/allpy/scanner/internal/stubserver"
)

func silentLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// newStubClient wires a client against the in-memory attendance stub with
// one registered employee.
func newStubClient(t *testing.T) *client.Client {
	t.Helper()

	srv := stubserver.New(silentLogger())
	srv.RegisterEmployee("EMP42", types.Employee{
		ID: 42, Name: "Maria Lopez", Email: "maria.lopez@example.com", Role: "Operaciones",
	})

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return client.New(ts.URL, 5*time.Second, silentLogger())
}

// ── Validate ─────────────────────────────────────────────────────────────────

func TestValidate_KnownCode(t *testing.T) {
	c := newStubClient(t)

	res, err := c.Validate(context.Background(), "EMP42")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !res.Valid {
		t.Error("expected valid=true")
	}
	if res.Action != types.ActionEntry {
		t.Errorf("expected action ENTRADA for a fresh code, got %s", res.Action)
	}
	if res.Employee == nil || res.Employee.ID != 42 {
		t.Errorf("expected employee 42, got %+v", res.Employee)
	}
}

func TestValidate_UnknownCode_InvalidWithErrorAction(t *testing.T) {
	c := newStubClient(t)

	res, err := c.Validate(context.Background(), "BOGUS")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if res.Valid {
		t.Error("expected valid=false")
	}
	if res.Action != types.ActionError {
		t.Errorf("invalid results must carry action ERROR, got %s", res.Action)
	}
	if res.Employee != nil {
		t.Errorf("invalid results must carry no employee, got %+v", res.Employee)
	}
	if res.Message == "" {
		t.Error("expected a human-readable message")
	}
}

func TestValidate_Timeout_TransportError(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	t.Cleanup(slow.Close)

	c := client.New(slow.URL, 50*time.Millisecond, silentLogger())

	_, err := c.Validate(context.Background(), "EMP42")
	var te *client.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if !te.Timeout {
		t.Error("expected timeout flag")
	}
	if !strings.Contains(err.Error(), "timeout") {
		t.Errorf("expected message to indicate timeout, got %q", err.Error())
	}
}

func TestValidate_ConnectionRefused_TransportError(t *testing.T) {
	// Grab an address that is guaranteed to have nothing listening.
	dead := httptest.NewServer(http.NotFoundHandler())
	url := dead.URL
	dead.Close()

	c := client.New(url, time.Second, silentLogger())

	_, err := c.Validate(context.Background(), "EMP42")
	var te *client.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestValidate_Non200_ApplicationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"base de datos caida"}`))
	}))
	t.Cleanup(srv.Close)

	c := client.New(srv.URL, time.Second, silentLogger())

	_, err := c.Validate(context.Background(), "EMP42")
	var ae *client.ApplicationError
	if !errors.As(err, &ae) {
		t.Fatalf("expected ApplicationError, got %v", err)
	}
	if ae.Status != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", ae.Status)
	}
	if ae.Detail != "base de datos caida" {
		t.Errorf("expected detail from body, got %q", ae.Detail)
	}
}

func TestValidate_UnparseableBody_MalformedResponseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("definitely not json"))
	}))
	t.Cleanup(srv.Close)

	c := client.New(srv.URL, time.Second, silentLogger())

	_, err := c.Validate(context.Background(), "EMP42")
	var me *client.MalformedResponseError
	if !errors.As(err, &me) {
		t.Fatalf("expected MalformedResponseError, got %v", err)
	}
}

// ── Record ───────────────────────────────────────────────────────────────────

func TestRecord_FirstScanIsEntry(t *testing.T) {
	c := newStubClient(t)

	res, err := c.Record(context.Background(), "EMP42")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if !res.Succeeded {
		t.Error("expected succeeded=true")
	}
	if res.Action != types.ActionEntry {
		t.Errorf("expected ENTRADA, got %s", res.Action)
	}
	if res.EmployeeID != 42 {
		t.Errorf("expected employee 42, got %d", res.EmployeeID)
	}
	if res.EventTime == "" {
		t.Error("expected a server-assigned event time")
	}
}

func TestRecord_SecondScanIsExit(t *testing.T) {
	c := newStubClient(t)
	ctx := context.Background()

	if _, err := c.Record(ctx, "EMP42"); err != nil {
		t.Fatalf("first record: %v", err)
	}

	res, err := c.Record(ctx, "EMP42")
	if err != nil {
		t.Fatalf("second record: %v", err)
	}
	if res.Action != types.ActionExit {
		t.Errorf("expected SALIDA on second scan, got %s", res.Action)
	}
	if res.EventTime == "" {
		t.Error("expected hora_salida to be set")
	}
}

func TestRecord_ThirdScanRejectedWithDetail(t *testing.T) {
	c := newStubClient(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := c.Record(ctx, "EMP42"); err != nil {
			t.Fatalf("record %d: %v", i+1, err)
		}
	}

	_, err := c.Record(ctx, "EMP42")
	var ae *client.ApplicationError
	if !errors.As(err, &ae) {
		t.Fatalf("expected ApplicationError, got %v", err)
	}
	if ae.Status != http.StatusConflict {
		t.Errorf("expected 409, got %d", ae.Status)
	}
	if !strings.Contains(ae.Detail, "ya registradas") {
		t.Errorf("expected body detail, got %q", ae.Detail)
	}
}

func TestRecord_Non200WithoutDetail_FallsBackToStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	c := client.New(srv.URL, time.Second, silentLogger())

	_, err := c.Record(context.Background(), "EMP42")
	var ae *client.ApplicationError
	if !errors.As(err, &ae) {
		t.Fatalf("expected ApplicationError, got %v", err)
	}
	if !strings.Contains(ae.Detail, "502") {
		t.Errorf("expected status fallback in detail, got %q", ae.Detail)
	}
}

// ── Health ───────────────────────────────────────────────────────────────────

func TestHealth_StubIsHealthy(t *testing.T) {
	c := newStubClient(t)

	if err := c.Health(context.Background()); err != nil {
		t.Errorf("Health: %v", err)
	}
}

func TestHealth_FallsBackToInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/info" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"name":"attendance"}`))
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)

	c := client.New(srv.URL, time.Second, silentLogger())

	if err := c.Health(context.Background()); err != nil {
		t.Errorf("expected /info fallback to succeed, got %v", err)
	}
}

func TestHealth_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	c := client.New(srv.URL, time.Second, silentLogger())

	if err := c.Health(context.Background()); err == nil {
		t.Error("expected health probe to fail")
	}
}
