package httpServer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/KotFed0t/portfolio_tracker/config"
	"github.com/KotFed0t/portfolio_tracker/internal/transport/rest"
	"github.com/KotFed0t/portfolio_tracker/internal/transport/rest/middleware"
	"github.com/gin-gonic/gin"
)

type HTTPServer struct {
	server *http.Server
}

func New(cfg *config.Config, ctrl *rest.Controller) *HTTPServer {
	gin.SetMode(cfg.HTTP.GinMode)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.Logger())
	ctrl.RegisterRoutes(router, cfg.Auth.JWTSecret)

	return &HTTPServer{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
			Handler:      router,
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
		},
	}
}

func (s *HTTPServer) Start() {
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server stopped with error", slog.String("err", err.Error()))
			panic(err)
		}
	}()
	slog.Info("http server started!", slog.String("addr", s.server.Addr))
}

func (s *HTTPServer) Stop(ctx context.Context) {
	slog.Info("start stopping http server")
	if err := s.server.Shutdown(ctx); err != nil {
		slog.Error("http server shutdown error", slog.String("err", err.Error()))
	}
	slog.Info("http server stopped")
}
