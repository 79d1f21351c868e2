// Package server exposes the extraction pipeline over HTTP: one multipart
// upload endpoint that orchestrates validation, preprocessing, recognition
// and normalization for a single image per request.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/mux"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/cors"

	"github.com/wudi/ocrkit/config"
	"github.com/wudi/ocrkit/observability"
	"github.com/wudi/ocrkit/ocr"
)

// Server wires the pipeline components behind an http.Handler. Requests are
// served concurrently by net/http; the recognition stage is additionally
// bounded by a worker pool so simultaneous native engine calls stay capped.
type Server struct {
	cfg     config.Config
	engine  ocr.Engine
	log     observability.Logger
	pool    *ants.Pool
	handler http.Handler
	ready   atomic.Bool
}

// New builds a Server. engine may be nil to use the registered default.
func New(cfg config.Config, engine ocr.Engine, log observability.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if engine == nil {
		engine = ocr.DefaultEngine()
	}
	if log == nil {
		log = observability.NopLogger{}
	}
	pool, err := ants.NewPool(cfg.MaxConcurrent)
	if err != nil {
		return nil, err
	}
	s := &Server{cfg: cfg, engine: engine, log: log, pool: pool}

	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/ocr", s.handleExtract).Methods(http.MethodPost)

	// The endpoint must be reachable from browser origins other than its
	// own; same allowances the original deployment granted.
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	s.handler = c.Handler(r)
	return s, nil
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler { return s.handler }

// SetReady records the outcome of the engine startup probe; /healthz reports
// it.
func (s *Server) SetReady(ready bool) { s.ready.Store(ready) }

// Close releases the recognition worker pool.
func (s *Server) Close() {
	s.pool.Release()
}

// recognize submits the engine call to the bounded pool and waits for either
// the result or context expiry. A call that outlives the context keeps
// running in its pool worker until the engine returns; its result is
// discarded.
func (s *Server) recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	type outcome struct {
		res ocr.Result
		err error
	}
	done := make(chan outcome, 1)
	if err := s.pool.Submit(func() {
		res, err := s.engine.Recognize(ctx, in)
		done <- outcome{res: res, err: err}
	}); err != nil {
		return ocr.Result{}, ocr.Internal("submit recognition", err)
	}
	select {
	case o := <-done:
		return o.res, o.err
	case <-ctx.Done():
		err := ctx.Err()
		if errors.Is(err, context.DeadlineExceeded) {
			return ocr.Result{}, ocr.Timeout("recognize", err)
		}
		return ocr.Result{}, err
	}
}
