// Package http exposes the pricing engine over a JSON REST API.
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// NewRouter assembles the gin engine with all routes registered.
func NewRouter(
	campaigns *CampaignHandler,
	products *ProductHandler,
	events *EventsHandler,
	logger zerolog.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	{
		v1.POST("/campaigns", campaigns.Create)
		v1.GET("/campaigns", campaigns.List)
		v1.GET("/campaigns/:id", campaigns.Get)
		v1.PUT("/campaigns/:id", campaigns.Update)
		v1.DELETE("/campaigns/:id", campaigns.Delete)
		v1.POST("/campaigns/:id/apply", campaigns.Apply)
		v1.POST("/campaigns/:id/remove", campaigns.Remove)

		v1.POST("/products", products.Create)
		v1.PUT("/products/:id/discount", products.SetDiscount)
		v1.PUT("/products/:id/variants/:variantId/discount", products.SetVariantDiscount)
		v1.GET("/products/:id/price", products.Price)
		v1.GET("/products/:id/variants/:variantId/price", products.VariantPrice)
		v1.GET("/products/:id/price-history", products.PriceHistory)

		v1.GET("/events", events.List)
	}

	return router
}

// requestLogger logs each request with its status and latency.
func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request handled")
	}
}
