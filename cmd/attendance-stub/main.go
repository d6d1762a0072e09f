package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/DavidMogrovejo23cm/allpy/scanner/internal/attendance/types"
	"github.com/DavidMogrovejo23cm/allpy/scanner/internal/stubserver"
)

func main() {
	_ = godotenv.Load()

	addr := os.Getenv("STUB_HTTP_ADDR")
	if strings.TrimSpace(addr) == "" {
		addr = ":8000"
	}

	logger := log.New(os.Stdout, "attendance-stub ", log.LstdFlags|log.LUTC)

	srv := stubserver.New(logger)
	srv.RegisterEmployee("EMP42", types.Employee{
		ID: 42, Name: "Maria Lopez", Email: "maria.lopez@example.com", Role: "Operaciones",
	})
	srv.RegisterEmployee("EMP7", types.Employee{
		ID: 7, Name: "Carlos Vera", Email: "carlos.vera@example.com", Role: "Bodega",
	})

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Printf("listening on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
}
