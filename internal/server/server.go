package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hongminglow/km-agri-be/internal/auth"
	"github.com/hongminglow/km-agri-be/internal/config"
	"github.com/hongminglow/km-agri-be/internal/http/handlers"
	"github.com/hongminglow/km-agri-be/internal/middleware"
	"github.com/hongminglow/km-agri-be/internal/notify"
	"github.com/hongminglow/km-agri-be/internal/session"
	"github.com/hongminglow/km-agri-be/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// Deps are the backends the routes run against.
type Deps struct {
	Store    storage.UserStore
	Sessions session.Manager
	Events   notify.Publisher
}

// NewRouter builds the routed handler without binding a listener.
func NewRouter(cfg config.Config, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimw.Recoverer)

	otps := auth.NewOTPIssuer(cfg.OTPTTL, nil)

	handlers.NewHealthHandler(time.Now()).Register(r)
	handlers.NewAuthHandler(deps.Store, deps.Sessions, otps, deps.Events, cfg.CookieSecure).Register(r)
	handlers.NewUserHandler(deps.Store).Register(r)
	handlers.NewCartHandler(deps.Store).Register(r)
	handlers.NewOrderHandler(deps.Store, deps.Events).Register(r)
	handlers.NewWishlistHandler(deps.Store).Register(r)

	return middleware.CORS(cfg.CORSOrigins, r)
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, deps Deps) *Server {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           NewRouter(cfg, deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
