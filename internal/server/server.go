// internal/server/server.go
package server

import (
	"context"
	"errors"
	"net/http"

	"gigdial/internal/common/auth"
	"gigdial/internal/common/config"
	"gigdial/internal/common/logger"
	"gigdial/internal/common/observability"
	"gigdial/internal/common/validation"
	registeruser "gigdial/internal/workers/accounts/register-user"
	bookingintent "gigdial/internal/workers/booking/booking-intent"
	sendcontactmessage "gigdial/internal/workers/booking/send-contact-message"
	aggregategigrows "gigdial/internal/workers/catalog/aggregate-gig-rows"
	classifycategory "gigdial/internal/workers/catalog/classify-category"
	searchgigs "gigdial/internal/workers/catalog/search-gigs"
	getworkerprofile "gigdial/internal/workers/directory/get-worker-profile"
	listapprovedworkers "gigdial/internal/workers/directory/list-approved-workers"
	listcities "gigdial/internal/workers/locations/list-cities"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers are the task handlers exposed over HTTP. Routes whose handler is
// nil are not registered.
type Handlers struct {
	Rows     *aggregategigrows.Handler
	Classify *classifycategory.Handler
	Search   *searchgigs.Handler
	Workers  *listapprovedworkers.Handler
	Profile  *getworkerprofile.Handler
	Intents  *bookingintent.Handler
	Messages *sendcontactmessage.Handler
	Register *registeruser.Handler
	Cities   *listcities.Handler
}

// Check is a readiness probe for one dependency.
type Check func(ctx context.Context) error

type Options struct {
	Handlers      Handlers
	Schemas       *validation.Registry
	Resolver      *auth.Resolver
	Observability *observability.Observability
	Checks        map[string]Check
	Version       string
}

type Server struct {
	cfg    config.ServerConfig
	opts   Options
	mux    *http.ServeMux
	logger logger.Logger
	srv    *http.Server
}

func New(cfg config.ServerConfig, opts Options, log logger.Logger) *Server {
	if opts.Schemas == nil {
		opts.Schemas = validation.MustNewRegistry()
	}
	s := &Server{
		cfg:    cfg,
		opts:   opts,
		mux:    http.NewServeMux(),
		logger: log.WithFields(map[string]interface{}{"component": "http"}),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	h := s.opts.Handlers

	if h.Rows != nil {
		s.handle("GET /api/catalog/rows", s.handleRows)
	}
	if h.Classify != nil {
		s.handle("GET /api/catalog/classify", s.handleClassify)
	}
	if h.Search != nil {
		s.handle("GET /api/catalog/search", s.handleSearch)
	}
	if h.Workers != nil {
		s.handle("GET /api/directory/workers", s.handleListWorkers)
	}
	if h.Profile != nil {
		s.handle("GET /api/directory/workers/{id}", s.handleWorkerProfile)
	}
	if h.Intents != nil {
		s.handle("POST /api/booking/intents", s.handleCreateIntent)
		s.handle("POST /api/booking/intents/{id}/resume", s.handleResumeIntent)
		s.handle("POST /api/booking/intents/{id}/dismiss", s.handleDismissIntent)
	}
	if h.Messages != nil {
		s.handle("POST /api/messages", s.handleSendMessage)
	}
	if h.Register != nil {
		s.handle("POST /api/users", s.handleRegister)
	}
	if h.Cities != nil {
		s.handle("GET /api/cities", s.handleCities)
	}

	s.handle("GET /health", s.handleHealth)
	s.handle("GET /ready", s.handleReady)
	s.mux.Handle("GET /metrics", promhttp.Handler())
}

// Handler returns the fully wrapped root handler.
func (s *Server) Handler() http.Handler {
	return chain(s.mux,
		recoverer(s.logger),
		requestLogger(s.logger),
		auth.Middleware(s.opts.Resolver, s.logger),
	)
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:         s.cfg.Address,
		Handler:      s.Handler(),
		ReadTimeout:  config.GetDuration(s.cfg.ReadTimeout),
		WriteTimeout: config.GetDuration(s.cfg.WriteTimeout),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", map[string]interface{}{"address": s.cfg.Address})
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutdown signal received, draining http server", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(s.cfg.ShutdownTimeout))
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}
