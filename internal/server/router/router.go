package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mbodji/aviary/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(
	alertsHandler *handlers.AlertsHandler,
	notificationsHandler *handlers.NotificationsHandler,
	preferencesHandler *handlers.PreferencesHandler,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.POST("/alerts/run", alertsHandler.RunForOwner)
	r.POST("/alerts/global", alertsHandler.RunGlobal)

	r.GET("/notifications", notificationsHandler.List)
	r.GET("/notifications/unread-count", notificationsHandler.UnreadCount)
	r.POST("/notifications/:id/read", notificationsHandler.MarkRead)
	r.POST("/notifications/read-all", notificationsHandler.MarkAllRead)
	r.DELETE("/notifications/read", notificationsHandler.DeleteRead)
	r.DELETE("/notifications/:id", notificationsHandler.Delete)

	r.GET("/push", notificationsHandler.ListPush)
	r.POST("/push/:id/read", notificationsHandler.MarkPushRead)

	r.GET("/preferences", preferencesHandler.Get)
	r.PUT("/preferences", preferencesHandler.Save)
	r.POST("/preferences/reset", preferencesHandler.Reset)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
