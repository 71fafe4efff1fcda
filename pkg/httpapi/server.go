package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/maeri-project/timeloop/pkg/core/archspec"
	"github.com/maeri-project/timeloop/pkg/core/legalize"
	"github.com/maeri-project/timeloop/pkg/core/workload"
	"github.com/maeri-project/timeloop/pkg/dump"
	"github.com/maeri-project/timeloop/pkg/errors"
	"github.com/maeri-project/timeloop/pkg/observability"
)

// Server wraps an initialized legalize.Legal and the workload/arch
// context its responses are shaped by.
type Server struct {
	legal *legalize.Legal
	ctx   *workload.Context
	arch  archspec.List
}

// New returns a Server over an already-Init'd Legal instance. Callers
// must call lg.Init before passing it here.
func New(lg *legalize.Legal, ctx *workload.Context, arch archspec.List) *Server {
	return &Server{legal: lg, ctx: ctx, arch: arch}
}

// Router builds the chi route tree: GET /catalog, GET /sizes,
// GET /construct, GET /sequential, GET /healthz.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/sizes", s.handleSizes)
	r.Get("/catalog", s.handleCatalog)
	r.Get("/construct", s.handleConstruct)
	r.Get("/sequential", s.handleSequential)

	return r
}

// observe wraps every request with pkg/observability.HTTPHooks events.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, sw.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// sizesResponse mirrors legalize.Legal.GlobalSizes.
type sizesResponse struct {
	SplittingCandidates uint64 `json:"splitting_candidates"`
	PackingCandidates   uint64 `json:"packing_candidates"`
}

func (s *Server) handleSizes(w http.ResponseWriter, r *http.Request) {
	splitting, packing, err := s.legal.GlobalSizes()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sizesResponse{SplittingCandidates: splitting, PackingCandidates: packing})
}

// catalogEntry describes one (level, dataspace) slot's cardinalities.
type catalogEntry struct {
	Level     int    `json:"level"`
	Dataspace string `json:"dataspace"`
	Splitting int    `json:"splitting_options"`
	Packing   int    `json:"packing_options"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	cat, err := s.legal.Catalogs()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var entries []catalogEntry
	for level, row := range cat.Slots {
		for dsIdx, slot := range row {
			entries = append(entries, catalogEntry{
				Level:     level,
				Dataspace: cat.DataspaceOrder[dsIdx],
				Splitting: len(slot.Splitting),
				Packing:   len(slot.Packing),
			})
		}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleConstruct(w http.ResponseWriter, r *http.Request) {
	splittingID, err := parseUint64Param(r, "splitting_id")
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid splitting_id"))
		return
	}
	packingID, err := parseUint64Param(r, "packing_id")
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid packing_id"))
		return
	}

	l, err := s.legal.Construct(r.Context(), splittingID, packingID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dump.Blocks(l, s.ctx, s.arch))
}

func (s *Server) handleSequential(w http.ResponseWriter, r *http.Request) {
	l, err := s.legal.Sequential()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dump.Blocks(l, s.ctx, s.arch))
}

func parseUint64Param(r *http.Request, name string) (uint64, error) {
	return strconv.ParseUint(r.URL.Query().Get(name), 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeIDOutOfRange, errors.ErrCodeInvalidConfig, errors.ErrCodeOptionInapplicable:
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": errors.UserMessage(err)})
}

// ListenAndServe starts an HTTP server bound to addr, shutting down
// cleanly when ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Router()}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
