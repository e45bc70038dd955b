// Package mockserver exposes the mock API sandbox over HTTP. Every
// documented route answers 200 with a randomized JSON body; nothing is
// validated, rate limited, or persisted.
package mockserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"apidash/internal/mockgen"
)

// Config holds the server settings.
type Config struct {
	Port int
}

// Server serves the mock API surface.
type Server struct {
	cfg Config
	gen *mockgen.Generator
	log *logrus.Logger
}

// New creates a Server around a payload generator.
func New(cfg Config, gen *mockgen.Generator, log *logrus.Logger) *Server {
	if gen == nil {
		gen = mockgen.New()
	}
	return &Server{cfg: cfg, gen: gen, log: log}
}

// Handler builds the routing table. Exposed so tests can drive the server
// through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/sim-info", s.handleSimInfo)
	mux.HandleFunc("/api/register", s.handleRegister)
	mux.HandleFunc("/api/billing", s.handleBilling)
	mux.HandleFunc("/api/generate-mock", s.handleGenerateMock)
	return s.withCORS(s.withLogging(mux))
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	if s.log != nil {
		s.log.Infof("mock service listening on %s", addr)
	}

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (s *Server) handleSimInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, r)
		return
	}
	writeJSON(w, http.StatusOK, s.gen.SimInfo())
}

type registerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, r)
		return
	}
	// Malformed bodies are treated as empty; omitted fields get synthesized.
	var req registerRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	writeJSON(w, http.StatusOK, s.gen.Register(req.Name, req.Email, req.Phone))
}

func (s *Server) handleBilling(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, r)
		return
	}
	writeJSON(w, http.StatusOK, s.gen.Billing())
}

type generateMockRequest struct {
	Description string `json:"description"`
}

func (s *Server) handleGenerateMock(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.gen.Generic())
	case http.MethodPost:
		var req generateMockRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		writeJSON(w, http.StatusOK, s.gen.Generate(req.Description))
	default:
		writeMethodNotAllowed(w, r)
	}
}

// withCORS permits cross-origin calls from any origin, matching the
// sandbox's browser-facing role.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		if s.log != nil {
			s.log.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start).String(),
			}).Debug("handled request")
		}
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]any{
		"error":  "method not allowed",
		"method": r.Method,
	})
}
