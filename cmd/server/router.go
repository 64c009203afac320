package main

import (
	"context"
	"net/http"

	"orion-os/auth"
	"orion-os/internal/designsystem"
	"orion-os/internal/font"
	"orion-os/internal/middleware"
	"orion-os/internal/note"
	"orion-os/internal/profile"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type routerDeps struct {
	verifier       auth.Verifier
	resolver       middleware.ProfileResolver
	ping           func(ctx context.Context) error
	profiles       *profile.Handler
	designSystems  *designsystem.Handler
	notes          *note.Handler
	fonts          *font.Handler
	fontFiles      font.PathResolver
	fontURLPrefix  string
	uploadMaxBytes int64
	cors           cors.Config
}

func corsConfig(development bool, frontend string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
	}
	if development {
		// Allow all origins in development
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = []string{frontend}
	}
	return cfg
}

func newRouter(d routerDeps) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestTracingMiddleware(),
		middleware.AccessLog(),
		middleware.MetricsMiddleware(),
		cors.New(d.cors),
		middleware.ErrorHandler(),
	)

	// public routes
	router.GET("/healthz", func(c *gin.Context) {
		if d.ping != nil {
			if err := d.ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET(d.fontURLPrefix+"/:fileName", font.ServeFile(d.fontFiles))

	// authenticated routes
	profiles := &middleware.Profile{Resolver: d.resolver}
	api := router.Group("/",
		auth.AuthMiddleWare(d.verifier),
		profiles.ProfileMiddleware(),
	)
	d.profiles.RegisterRoutes(api)
	d.designSystems.RegisterRoutes(api)
	d.notes.RegisterRoutes(api)

	uploads := api.Group("/", middleware.RequestSizeLimiter(d.uploadMaxBytes))
	d.fonts.RegisterRoutes(uploads)

	return router
}
