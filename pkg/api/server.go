package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/osmtools/condroute/pkg/graph"
	"github.com/osmtools/condroute/pkg/graphql"
	"github.com/osmtools/condroute/pkg/logging"
	"github.com/osmtools/condroute/pkg/metrics"
	"github.com/osmtools/condroute/pkg/route"
)

// Server is the HTTP API over the route engine.
type Server struct {
	engine         *route.Engine
	store          *graph.Store
	logger         logging.Logger
	registry       *metrics.Registry
	graphqlHandler *graphql.GraphQLHandler
	startTime      time.Time
	version        string
}

// NewServer creates an API server. A nil logger or registry falls back
// to working defaults.
func NewServer(engine *route.Engine, store *graph.Store, logger logging.Logger, registry *metrics.Registry) (*Server, error) {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	if registry == nil {
		registry = metrics.NewRegistry()
	}

	schema, err := graphql.GenerateSchema(engine)
	if err != nil {
		return nil, err
	}

	return &Server{
		engine:         engine,
		store:          store,
		logger:         logger.With(logging.String("component", "api")),
		registry:       registry,
		graphqlHandler: graphql.NewGraphQLHandler(schema),
		startTime:      time.Now(),
		version:        "1.0.0",
	}, nil
}

// Handler returns the fully wired HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/route", s.handleRoute)
	mux.HandleFunc("/api/v1/validate", s.handleValidate)
	mux.HandleFunc("/api/v1/affected", s.handleAffected)
	mux.Handle("/graphql", s.graphqlHandler)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", s.registry.Handler())

	var handler http.Handler = mux
	handler = s.metricsMiddleware(handler)
	handler = s.loggingMiddleware(handler)
	handler = s.requestIDMiddleware(handler)
	handler = s.panicRecoveryMiddleware(handler)
	return handler
}

// Serve runs the HTTP server until the context is cancelled, then
// shuts down gracefully within the given timeout.
func (s *Server) Serve(ctx context.Context, addr string, readTimeout, writeTimeout, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", logging.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encoding response", logging.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}
