// Package httpapi exposes the account session API over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avoronin/accountkeeper/internal/accounts"
	"github.com/avoronin/accountkeeper/internal/logging"
)

type HTTPServer struct {
	address   string
	accounts  *accounts.Service
	logger    logging.Logger
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewHTTPServer(a string, l logging.Logger, as *accounts.Service, secretKey string, tokenTTL time.Duration) (*HTTPServer, error) {
	return &HTTPServer{
		address:   a,
		logger:    l.With("module", "http_server"),
		accounts:  as,
		jwtSecret: []byte(secretKey),
		tokenTTL:  tokenTTL,
	}, nil
}

// router assembles the gin engine with all API routes.
func (s *HTTPServer) router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", s.health)

	api := r.Group("/api")
	api.POST("/session", s.createSession)

	authed := api.Group("")
	authed.Use(s.accessTokenMiddleware())
	authed.GET("/session", s.getSession)
	authed.DELETE("/session", s.deleteSession)

	return r
}

func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "Shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
