package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/cancerguard-api/internal/handler"
	"github.com/jwalitptl/cancerguard-api/internal/handler/prometheus"
	"github.com/jwalitptl/cancerguard-api/internal/middleware"
)

type Config struct {
	CORSOrigins    []string
	TrustedProxies []string
	RateLimit      bool
	RateRPS        float64
	RateBurst      int
	MaxBodyBytes   int64
	MetricsPath    string
	Production     bool
}

type Router struct {
	engine  *gin.Engine
	auth    *middleware.AuthMiddleware
	metrics *prometheus.Handler
	config  Config
}

// NewRouter builds the engine and its global middleware. A nil metrics
// handler disables request metrics and the scrape endpoint.
func NewRouter(auth *middleware.AuthMiddleware, metrics *prometheus.Handler, config Config) *Router {
	engine := gin.New()
	if err := engine.SetTrustedProxies(config.TrustedProxies); err != nil {
		_ = engine.SetTrustedProxies(nil)
	}

	r := &Router{
		engine:  engine,
		auth:    auth,
		metrics: metrics,
		config:  config,
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(),
	)
	if metrics != nil {
		engine.Use(metrics.Middleware())
	}
	engine.Use(
		middleware.SecurityHeaders(securityConfig(config.Production)),
		cors.New(corsConfig(config.CORSOrigins)),
		middleware.ErrorHandler(),
	)

	if config.RateLimit {
		limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  rate.Limit(config.RateRPS),
			Burst: config.RateBurst,
		})
		engine.Use(limiter.RateLimit())
	}

	sizeLimit := middleware.DefaultSizeLimitConfig()
	if config.MaxBodyBytes > 0 {
		sizeLimit.MaxBodySize = config.MaxBodyBytes
	}
	engine.Use(middleware.SizeLimit(sizeLimit))

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, middleware.ErrorResponse{Message: "Not found"})
	})
	return r
}

func securityConfig(production bool) middleware.SecurityConfig {
	cfg := middleware.DefaultSecurityConfig()
	cfg.HSTS = production
	return cfg
}

// The web client sends the session cookie, so origins must be explicit.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Requested-With", middleware.HeaderXRequestID},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderXRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowOriginFunc = func(string) bool { return false }
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// Setup mounts root handlers (health probes) at / and API handlers
// under /api.
func (r *Router) Setup(root []handler.Routes, api []handler.Routes) {
	requireAuth := r.auth.Authenticate()

	base := r.engine.Group("")
	for _, h := range root {
		h.RegisterRoutes(base, requireAuth)
	}
	if r.metrics != nil && r.config.MetricsPath != "" {
		r.engine.GET(r.config.MetricsPath, r.metrics.Handler())
	}

	apiGroup := r.engine.Group("/api")
	for _, h := range api {
		h.RegisterRoutes(apiGroup, requireAuth)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
