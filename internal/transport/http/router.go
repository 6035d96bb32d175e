package http

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	CORSOrigins []string
	ReadyChecks []ReadyCheck
}

// NewRouter assembles middleware and registers the /v1 API plus health endpoints.
func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(h.log))

	corsCfg := cors.DefaultConfig()
	if len(cfg.CORSOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSOrigins
	}
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key"}
	corsCfg.ExposeHeaders = []string{"Location"}
	r.Use(cors.New(corsCfg))

	registerHealth(r, cfg.ReadyChecks)

	v1 := r.Group("/v1")
	{
		v1.GET("/services", h.ListServices)
		v1.GET("/staff", h.ListStaff)
		v1.GET("/staff/:id/slots", h.Slots)
		v1.GET("/staff/:id/conflicts", h.Conflicts)
		v1.GET("/staff/:id/appointments", h.StaffAppointments)
		v1.GET("/users/:id/appointments", h.UserAppointments)

		appts := v1.Group("/appointments")
		appts.POST("", h.Create)
		appts.GET("/:id", h.Get)
		appts.POST("/:id/confirm", h.Confirm)
		appts.POST("/:id/cancel", h.Cancel)
		appts.POST("/:id/complete", h.Complete)
	}

	return r
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "/healthz" || route == "/readyz" {
			return
		}
		level := slog.LevelDebug
		if c.Writer.Status() >= 500 {
			level = slog.LevelWarn
		}
		log.Log(c.Request.Context(), level, "http request",
			slog.String("method", c.Request.Method),
			slog.String("route", route),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("elapsed", time.Since(start)),
		)
	}
}
