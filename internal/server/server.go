package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/klauspost/compress/gzhttp"

	"github.com/cwbudde/openclinfo/internal/clinfo"
	"github.com/cwbudde/openclinfo/internal/registry"
	"github.com/cwbudde/openclinfo/internal/store"
)

// Deps are the components the HTTP API exposes.
type Deps struct {
	Registry   *registry.Registry
	Enumerator *clinfo.Enumerator
	// Snapshots is optional; snapshot routes answer 404 without it.
	Snapshots store.Store
	// HistoryDir, when set, receives a history line for every stored snapshot.
	HistoryDir string
}

// Server represents the HTTP server
type Server struct {
	deps   Deps
	addr   string
	server *http.Server
}

// NewServer creates a new HTTP server
func NewServer(addr string, deps Deps) *Server {
	s := &Server{
		deps: deps,
		addr: addr,
	}
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/registry", s.handleRegistryList)
	mux.HandleFunc("/api/v1/registry/", s.handleRegistryCall)
	mux.HandleFunc("/api/v1/devices", s.handleDevices)
	mux.HandleFunc("/api/v1/snapshots", s.handleSnapshots)
	mux.HandleFunc("/api/v1/snapshots/", s.handleSnapshotWithID)

	return s.loggingMiddleware(s.corsMiddleware(gzhttp.GzipHandler(mux)))
}

// Start starts the HTTP server. After Shutdown it returns http.ErrServerClosed.
func (s *Server) Start() error {
	slog.Info("Starting HTTP server", "addr", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// handleRegistryList handles GET /api/v1/registry
func (s *Server) handleRegistryList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Registry.Paths())
}

// handleRegistryCall handles GET /api/v1/registry/<path>
func (s *Server) handleRegistryCall(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	path := "/" + strings.TrimPrefix(r.URL.Path, "/api/v1/registry/")

	out, err := s.deps.Registry.Call(path)
	switch {
	case errors.Is(err, registry.ErrNotFound):
		http.Error(w, "Registry path not found", http.StatusNotFound)
		return
	case err != nil:
		slog.Error("Registry call failed", "path", path, "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", s.deps.Registry.ContentType(path))
	w.Write([]byte(out))
}

// handleDevices handles GET /api/v1/devices?format=&strict=
func (s *Server) handleDevices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	format, err := clinfo.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res := s.deps.Enumerator.Enumerate()
	w.Header().Set("X-Enumeration-Outcome", string(res.Outcome))
	if digest, err := clinfo.Fingerprint(res.Document); err == nil {
		w.Header().Set("X-Document-Digest", digest)
	}
	if res.Outcome != clinfo.OutcomeComplete && r.URL.Query().Get("strict") == "true" {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"outcome": string(res.Outcome),
			"error":   res.Err.Error(),
		})
		return
	}

	writeDocument(w, res.Document, format)
}

// handleSnapshots handles /api/v1/snapshots
func (s *Server) handleSnapshots(w http.ResponseWriter, r *http.Request) {
	if s.deps.Snapshots == nil {
		http.Error(w, "Snapshot store not configured", http.StatusNotFound)
		return
	}
	switch r.Method {
	case http.MethodGet:
		infos, err := s.deps.Snapshots.List()
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to list snapshots: %v", err), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, infos)
	case http.MethodPost:
		s.handleCreateSnapshot(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleCreateSnapshot handles POST /api/v1/snapshots
func (s *Server) handleCreateSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot := store.NewSnapshot(s.deps.Enumerator.Enumerate())
	if err := s.deps.Snapshots.Save(snapshot); err != nil {
		http.Error(w, fmt.Sprintf("Failed to save snapshot: %v", err), http.StatusInternalServerError)
		return
	}
	if s.deps.HistoryDir != "" {
		if err := store.AppendHistory(s.deps.HistoryDir, store.NewHistoryEntry(snapshot)); err != nil {
			slog.Warn("Failed to append history", "id", snapshot.ID, "error", err)
		}
	}

	slog.Info("Snapshot created", "id", snapshot.ID, "outcome", snapshot.Outcome)
	writeJSON(w, http.StatusCreated, snapshot.ToInfo())
}

// handleSnapshotWithID handles /api/v1/snapshots/:id
func (s *Server) handleSnapshotWithID(w http.ResponseWriter, r *http.Request) {
	if s.deps.Snapshots == nil {
		http.Error(w, "Snapshot store not configured", http.StatusNotFound)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/snapshots/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "Snapshot ID required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		snapshot, err := s.deps.Snapshots.Load(id)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		if r.URL.Query().Get("format") != "" {
			format, err := clinfo.ParseFormat(r.URL.Query().Get("format"))
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			writeDocument(w, snapshot.Document, format)
			return
		}
		writeJSON(w, http.StatusOK, snapshot)
	case http.MethodDelete:
		if err := s.deps.Snapshots.Delete(id); err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func writeStoreError(w http.ResponseWriter, err error) {
	var verr *store.ValidationError
	switch {
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, "Snapshot not found", http.StatusNotFound)
	case errors.As(err, &verr):
		http.Error(w, verr.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeDocument(w http.ResponseWriter, doc clinfo.Document, format clinfo.Format) {
	data, err := clinfo.Encode(doc, format)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to encode document: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// corsMiddleware adds CORS headers
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("HTTP request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
