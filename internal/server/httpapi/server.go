// Package httpapi exposes the gateway over HTTP. It binds form-style
// authentication requests to the auth service and carries the session token
// in a protected cookie.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/server/config"
	"github.com/dmitrijs2005/authgate/internal/server/services"
)

type HTTPServer struct {
	address string
	auth    *services.AuthService
	logger  logging.Logger

	sessionValidity time.Duration
	signInWindow    time.Duration
	signUpWindow    time.Duration
	secureCookies   bool
	corsOrigins     []string

	router *gin.Engine
}

func NewHTTPServer(cfg *config.Config, l logging.Logger, auth *services.AuthService) *HTTPServer {
	if !cfg.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &HTTPServer{
		address:         cfg.EndpointAddrHTTP,
		auth:            auth,
		logger:          l.With("module", "http_server"),
		sessionValidity: cfg.SessionValidityDuration,
		signInWindow:    cfg.SignInWindow,
		signUpWindow:    cfg.SignUpWindow,
		// Secure cookies everywhere except local development.
		secureCookies: !cfg.DevMode,
		corsOrigins:   strings.Split(cfg.CORSAllowedOrigins, ","),
	}
	s.router = s.buildRouter()
	return s
}

// Router returns the configured engine; tests drive it through httptest.
func (s *HTTPServer) Router() *gin.Engine {
	return s.router
}

func (s *HTTPServer) buildRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestID())
	router.Use(s.accessLog())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = s.corsOrigins
	// The session cookie travels cross-origin, so credentials must be on.
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	router.GET("/health", handleHealth)

	api := router.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/signup", s.handleSignUp)
			authRoutes.POST("/signin", s.handleSignIn)
			authRoutes.POST("/signout", s.handleSignOut)
			authRoutes.GET("/me", s.RequireAuth(), s.handleMe)
		}
	}

	return router
}

// Run starts the HTTP server and shuts it down gracefully when ctx is
// cancelled.
func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "authgate",
	})
}
