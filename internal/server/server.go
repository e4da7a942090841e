// Package server exposes the shopping list over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hammamikhairi/ottoshop/internal/domain"
	"github.com/hammamikhairi/ottoshop/internal/logger"
)

// DefaultBind is the listen address used when none is configured.
const DefaultBind = "127.0.0.1:9080"

const shutdownTimeout = 5 * time.Second

// Service is what the server needs from the engine.
type Service interface {
	Aggregate(ctx context.Context, entries []domain.AggregateEntry) (*domain.ShoppingList, error)
	ListReferences(ctx context.Context) ([]domain.ReferenceItem, error)
	AddReference(ctx context.Context, req domain.AddRequest) (domain.ReferenceItem, error)
	RemoveReference(ctx context.Context, path string) error
	ClearReferences(ctx context.Context) error
}

// Option configures the server.
type Option func(*Server)

// WithBind sets the listen address.
func WithBind(bind string) Option {
	return func(s *Server) {
		if bind != "" {
			s.bind = bind
		}
	}
}

// Server is the HTTP transport.
type Server struct {
	svc    Service
	log    *logger.Logger
	bind   string
	router *gin.Engine

	listener net.Listener
	server   *http.Server
}

// New builds the routes. Nothing listens until Start.
func New(svc Service, log *logger.Logger, opts ...Option) *Server {
	s := &Server{
		svc:  svc,
		log:  log,
		bind: DefaultBind,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestID(), requestLogger(log))

	r.GET("/healthcheck", s.handleHealth)
	api := r.Group("/api/shopping_list")
	api.POST("", s.handleAggregate)
	api.GET("/items", s.handleItems)
	api.POST("/add", s.handleAdd)
	api.POST("/remove", s.handleRemove)
	api.POST("/clear", s.handleClear)

	s.router = r
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the bind address and serves until ctx is done or Stop
// is called.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.bind, err)
	}
	s.listener = listener
	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("http server: %v", err)
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.log.Info("listening on http://%s", listener.Addr())
	return nil
}

// Addr is the address the server listens on, once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.bind
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down, waiting briefly for in-flight requests.
func (s *Server) Stop() {
	if s.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		s.log.Warn("http shutdown: %v", err)
	}
}
