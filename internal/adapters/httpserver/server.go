// Package httpserver exposes the document service over HTTP and installs
// the per-request identity scope.
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.trai.ch/idmap/internal/core/domain"
	"go.trai.ch/idmap/internal/core/ports"
	"go.trai.ch/idmap/internal/engine/identity"
	"go.trai.ch/idmap/internal/engine/mapper"
	"go.trai.ch/zerr"
)

const shutdownTimeout = 5 * time.Second

// Server serves documents through the identity-mapped lookup path.
type Server struct {
	mapper   *mapper.Mapper
	store    ports.DocumentStore
	registry *identity.Registry
	log      ports.Logger
	tracer   ports.Tracer
	server   *http.Server
}

// NewServer creates a server listening on addr.
func NewServer(
	addr string,
	m *mapper.Mapper,
	store ports.DocumentStore,
	registry *identity.Registry,
	log ports.Logger,
	tracer ports.Tracer,
) *Server {
	s := &Server{
		mapper:   m,
		store:    store,
		registry: registry,
		log:      log,
		tracer:   tracer,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /documents/{collection}/{id}", s.handleGetDocument)
	mux.HandleFunc("PUT /documents/{collection}/{id}", s.handlePutDocument)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /admin/clear", s.handleClear)

	s.server = &http.Server{
		Addr:              addr,
		Handler:           ScopeMiddleware(registry, log)(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Serve runs the server until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return zerr.Wrap(err, "failed to listen")
	}
	s.log.Info(fmt.Sprintf("serving documents on %s", lis.Addr()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return zerr.Wrap(err, "http server failed")
	}
}

type documentResponse struct {
	Collection string         `json:"collection"`
	ID         string         `json:"id"`
	Body       map[string]any `json:"body"`
	LoadedAt   time.Time      `json:"loaded_at"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleGetDocument looks the document up twice on purpose. The second
// lookup must hit the request scope, so one request performs exactly one
// store load however many times a handler touches the same identity.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	collection := r.PathValue("collection")
	id := r.PathValue("id")

	ctx, span := s.tracer.Start(r.Context(), "http.get_document")
	defer span.End()
	span.SetAttribute("doc.collection", collection)

	doc, err := s.mapper.Find(ctx, collection, id)
	if err != nil {
		span.RecordError(err)
		s.writeError(w, err)
		return
	}

	again, err := s.mapper.Find(ctx, collection, id)
	if err != nil {
		span.RecordError(err)
		s.writeError(w, err)
		return
	}
	if again != doc {
		s.log.Warn(fmt.Sprintf("identity violated for %s/%s, distinct instances in one scope", collection, id))
	}

	s.writeJSON(w, http.StatusOK, documentResponse{
		Collection: doc.Collection,
		ID:         doc.ID,
		Body:       doc.Body,
		LoadedAt:   doc.LoadedAt,
	})
}

func (s *Server) handlePutDocument(w http.ResponseWriter, r *http.Request) {
	collection := r.PathValue("collection")
	id := r.PathValue("id")

	ctx, span := s.tracer.Start(r.Context(), "http.put_document")
	defer span.End()
	span.SetAttribute("doc.collection", collection)

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid document body"})
		return
	}

	doc := domain.NewDocument(collection, id)
	doc.Body = body

	if err := s.mapper.Save(ctx, doc); err != nil {
		span.RecordError(err)
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, documentResponse{
		Collection: doc.Collection,
		ID:         doc.ID,
		Body:       doc.Body,
		LoadedAt:   doc.LoadedAt,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if err := s.store.Ping(r.Context()); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	s.writeJSON(w, code, map[string]string{"status": status})
}

// handleClear wipes every live scope, the same hook the file watcher fires.
func (s *Server) handleClear(w http.ResponseWriter, _ *http.Request) {
	cleared := s.registry.ClearAll()
	s.log.Info(fmt.Sprintf("manual clear, cleared %d live scope(s)", cleared))
	s.writeJSON(w, http.StatusOK, map[string]int{"cleared": cleared})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error(zerr.Wrap(err, "failed to encode response"))
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrDocumentNotFound):
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "document not found"})
	case errors.Is(err, domain.ErrEmptyCollection), errors.Is(err, domain.ErrEmptyDocumentID):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrStoreUnavailable):
		s.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "document store unavailable"})
	default:
		s.log.Error(err)
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
