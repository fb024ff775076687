// Package httpserver exposes the STAKR API over HTTP using chi.
package httpserver

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/stakr/internal/logging"
	"github.com/dmitrijs2005/stakr/internal/server/models"
	"github.com/dmitrijs2005/stakr/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// AuthService registers users and exchanges credentials for tokens.
type AuthService interface {
	Register(ctx context.Context, r services.Registration) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
}

// Authenticator resolves a bearer token to its user.
type Authenticator interface {
	Resolve(ctx context.Context, token string) (*models.User, error)
}

// Pinger reports database reachability. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

var _ Pinger = (*sql.DB)(nil)

// Options carries the non-service settings of the HTTP server.
type Options struct {
	Address        string
	AllowedOrigins []string
	ReadyTimeout   time.Duration
	Version        string
}

type Server struct {
	opts   Options
	logger logging.Logger
	users  AuthService
	authn  Authenticator
	db     Pinger
}

func NewServer(o Options, l logging.Logger, us AuthService, a Authenticator, db Pinger) *Server {
	if o.ReadyTimeout <= 0 {
		o.ReadyTimeout = 2 * time.Second
	}
	return &Server{
		opts:   o,
		logger: l.With("module", "http_server"),
		users:  us,
		authn:  a,
		db:     db,
	}
}

// Routes builds the router with all middleware attached.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	// Health
	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Get("/db-test", s.handleReady)

	// Examples
	r.Get("/version", s.handleVersion)
	r.Get("/items/{item_id}", s.handleItem)
	r.Post("/echo", s.handleEcho)

	// Auth
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/token", s.handleToken)
		r.With(s.requireUser).Get("/users/me", s.handleMe)
	})

	return r
}

// Run serves HTTP on the configured address until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve is Run over an existing listener.
func (s *Server) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Routes(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
