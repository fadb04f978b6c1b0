package main

import (
	"context"
	"net/http"
	"time"

	"github.com/cmdshop/cmdshop/handlers"
	"github.com/cmdshop/cmdshop/internal/auth"
	"github.com/cmdshop/cmdshop/internal/cmds/handler"
	"github.com/cmdshop/cmdshop/internal/cmds/service"
	"github.com/cmdshop/cmdshop/internal/config"
	"github.com/cmdshop/cmdshop/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

var startTime = time.Now()

const readyTimeout = 2 * time.Second

type routerDeps struct {
	cfg         *config.Config
	svc         service.Service
	exporter    handler.Exporter
	verifier    middleware.Verifier
	revocations *auth.RedisRevocationList
	redis       *redis.Client
}

func newRouter(d routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), middleware.Recovery(), middleware.RequestMetrics(), cors())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", readiness(d))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterSwagger(r)

	api := r.Group("/")
	if d.verifier != nil {
		authMW := middleware.AuthMiddleware(d.verifier, d.revocations)
		handlers.NewAuthHandler(d.revocations).Register(r, authMW)
		if d.cfg.Auth.Required {
			api.Use(authMW)
		}
	}
	if d.cfg.RateLimit.Enabled {
		rl := d.cfg.RateLimit
		if d.redis != nil {
			api.Use(middleware.RedisRateLimitMiddleware(d.redis, rl.RPS, rl.Burst, rl.Window))
		} else {
			api.Use(middleware.RateLimitMiddleware(rl.RPS, rl.Burst))
		}
	}
	handler.RegisterCmdRoutes(api, d.svc, d.exporter)
	return r
}

// readiness reports 200 only when the store answers a ping and, when
// configured, Redis does too.
func readiness(d routerDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		defer cancel()

		ready := true
		deps := map[string]bool{}

		deps["store"] = d.svc.Ping(ctx) == nil
		ready = ready && deps["store"]

		if d.cfg.Redis.Enabled() {
			deps["redis"] = d.redis != nil && d.redis.Ping(ctx).Err() == nil
			ready = ready && deps["redis"]
		}
		deps["export"] = d.exporter != nil
		deps["auth"] = d.verifier != nil || !d.cfg.Auth.Required

		uptime := time.Since(startTime).Round(time.Second).String()
		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": uptime})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": uptime})
	}
}

// cors sets permissive headers for browser clients and answers preflights.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		h.Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
