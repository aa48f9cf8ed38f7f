// Package httpserver exposes the account service over HTTP/JSON.
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/mahaztechenterprise/lunar-auth-provider/internal/logging"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/server/auth"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/server/config"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/server/models"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/server/services"
)

// maxBodyBytes caps every request body.
const maxBodyBytes = 1 << 20

type AuthService interface {
	Login(ctx context.Context, username, password string) (*services.IssuedToken, error)
	Verify(ctx context.Context, authorizationHeader string) (auth.Claims, error)
	Refresh(ctx context.Context, refreshToken string) (*services.IssuedToken, error)
}

type UserService interface {
	Register(ctx context.Context, name, username, password string, attrs []models.Attribute) (*models.User, error)
	GetActiveUser(ctx context.Context, id string) (*models.UserDetails, error)
}

type AttributeService interface {
	WriteAttributes(ctx context.Context, rows []models.Attribute) (int64, error)
}

type Deps struct {
	Auth       AuthService
	Users      UserService
	Attributes AttributeService
	Logger     logging.Logger
}

type Server struct {
	httpServer      *http.Server
	logger          logging.Logger
	shutdownTimeout time.Duration
}

func New(cfg *config.Config, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = logging.Nop{}
	}
	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.EndpointAddrHTTP,
			Handler:           NewHandler(deps),
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger:          deps.Logger,
		shutdownTimeout: cfg.ShutdownTimeout,
	}
}

// NewHandler builds the routed handler wrapped in the request middleware.
func NewHandler(deps Deps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = logging.Nop{}
	}
	h := &handlers{deps: deps, log: deps.Logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		h.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("POST /user", h.register)
	mux.HandleFunc("GET /user/{user_id}", h.getUser)
	mux.HandleFunc("POST /user/attributes", h.writeAttributes)
	mux.HandleFunc("POST /login", h.login)
	mux.HandleFunc("POST /refresh", h.refresh)
	mux.HandleFunc("GET /verify", h.verify)

	return requestIDMiddleware(accessLogMiddleware(deps.Logger, limitBodyMiddleware(maxBodyBytes, mux)))
}

// Run serves until ctx is cancelled, then drains in-flight requests for at
// most the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "http server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
	defer cancel()

	s.logger.Info(ctx, "http server shutting down")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
