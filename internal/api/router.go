package api

import (
	"seller-assistant/internal/common/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(h *Handler, log logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(AccessLog(log))
	SetupRoutes(router, h)
	return router
}

func SetupRoutes(router *gin.Engine, h *Handler) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/replies", h.GenerateReply)

		creds := v1.Group("/credentials")
		creds.PUT("", h.SaveCredential)
		creds.POST("", h.SaveCredential)
		creds.DELETE("", h.ClearCredential)
		creds.GET("/status", h.CredentialStatus)

		sales := v1.Group("/sales")
		sales.POST("/trigger", h.TriggerSale)
		sales.GET("/latest", h.LatestSale)
	}
}
