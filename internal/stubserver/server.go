package stubserver

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/DavidMogrovejo23cm/allpy/scanner/internal/attendance/types"
)

// Server is a development stand-in for the remote attendance service.  It
// keeps a per-code scan count in memory: the first scan of a code lands as
// an entry, the second as an exit, and anything after that is complete.
//
// It exists for local bring-up of the terminal without the real backend and
// doubles as the fixture for client tests.
type Server struct {
	mu        sync.Mutex
	employees map[string]types.Employee
	scans     map[string]int

	logger *log.Logger
	now    func() time.Time
}

func New(logger *log.Logger) *Server {
	return &Server{
		employees: make(map[string]types.Employee),
		scans:     make(map[string]int),
		logger:    logger,
		now:       time.Now,
	}
}

// RegisterEmployee makes code validate against emp.
func (s *Server) RegisterEmployee(code string, emp types.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees[code] = emp
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/info", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/qr/{code}/validate", s.handleValidate).Methods(http.MethodGet)
	r.HandleFunc("/qr/{code}/scan", s.handleScan).Methods(http.MethodPost)
	r.Use(loggingMiddleware(s.logger))
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "attendance-stub"})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	s.mu.Lock()
	emp, known := s.employees[code]
	count := s.scans[code]
	s.mu.Unlock()

	if !known {
		writeJSON(w, http.StatusOK, map[string]any{
			"valid":   false,
			"message": "codigo QR no encontrado",
			"accion":  "ERROR",
		})
		return
	}

	var accion, message string
	switch {
	case count >= 2:
		accion = "COMPLETADO"
		message = "entrada y salida ya registradas hoy"
	case count == 1:
		accion = "SALIDA"
		message = "listo para registrar salida"
	default:
		accion = "ENTRADA"
		message = "listo para registrar entrada"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"valid":         true,
		"message":       message,
		"accion":        accion,
		"empleado_info": emp,
	})
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	s.mu.Lock()
	defer s.mu.Unlock()

	emp, known := s.employees[code]
	if !known {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "codigo QR no encontrado"})
		return
	}
	if s.scans[code] >= 2 {
		writeJSON(w, http.StatusConflict, map[string]string{"detail": "entrada y salida ya registradas hoy"})
		return
	}

	esEntrada := s.scans[code] == 0
	s.scans[code]++

	stamp := s.now().UTC().Format(time.RFC3339)
	resp := map[string]any{
		"empleado_id":   emp.ID,
		"empleado_info": emp,
		"es_entrada":    esEntrada,
	}
	if esEntrada {
		resp["hora_entrada"] = stamp
	} else {
		resp["hora_salida"] = stamp
	}

	writeJSON(w, http.StatusOK, resp)
}

func loggingMiddleware(logger *log.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now().UTC()
			next.ServeHTTP(w, r)
			logger.Printf("%s %s from=%s dur=%s", r.Method, r.URL.Path, r.RemoteAddr, time.Since(start))
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
