package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"psdevbot/internal/middleware"
)

func (srv *HTTPServer) mapHandlers() error {
	srv.registerMiddlewares()
	srv.registerSystemRoutes()
	srv.registerDomainRoutes()
	return nil
}

func (srv *HTTPServer) registerMiddlewares() {
	mw := middleware.New(srv.l)
	srv.gin.Use(gin.Recovery())
	srv.gin.Use(mw.RequestID())
	srv.gin.Use(mw.AccessLog())
}

func (srv *HTTPServer) registerSystemRoutes() {
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (srv *HTTPServer) registerDomainRoutes() {
	srv.gin.POST("/github/callback", srv.webhookHandler.HandleGitHubWebhook)
	srv.l.Infof(context.Background(), "GitHub webhook route registered at POST /github/callback")
}
