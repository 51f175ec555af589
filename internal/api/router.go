// Package api exposes the predictor over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Skufu/symptomdx/internal/artifact"
	"github.com/Skufu/symptomdx/internal/predictor"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Predictor is the service behind the disease endpoints.
type Predictor interface {
	Train(ctx context.Context) (*predictor.TrainResponse, error)
	Predict(ctx context.Context, symptoms []string) (*predictor.PredictResponse, error)
	Symptoms(ctx context.Context) ([]predictor.Symptom, error)
	Scores(ctx context.Context) (*artifact.ScoreReport, error)
	ImportRows(ctx context.Context) (int, error)
}

const maxBodyBytes = 1 << 20

// NewRouter builds the gin engine. db may be nil when the database is disabled.
func NewRouter(svc Predictor, db HealthChecker) *gin.Engine {
	router := gin.New()
	router.Use(
		requestLogger(),
		gin.Recovery(),
		limitBodySize(maxBodyBytes),
		cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
			MaxAge:       12 * time.Hour,
		}),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/readyz", func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "disabled"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "degraded",
				"db":     fmt.Sprintf("unhealthy: %v", err),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "ok"})
	})

	h := &handler{svc: svc}
	disease := router.Group("/api/disease")
	disease.GET("/train", h.train)
	disease.POST("/train", h.train)
	disease.POST("/predict", h.predict)
	disease.GET("/symptoms", h.symptoms)
	disease.GET("/scores", h.scores)
	disease.POST("/insertpd", h.importRows)

	return router
}
