package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Skufu/symptomdx/internal/apperr"
)

type handler struct {
	svc Predictor
}

type predictRequest struct {
	Symptoms *[]string `json:"symptoms"`
}

func (h *handler) train(c *gin.Context) {
	resp, err := h.svc.Train(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) predict(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperr.NewValidationError("invalid payload"))
		return
	}
	if req.Symptoms == nil {
		respondWithError(c, apperr.NewValidationError("provide 'symptoms' list in request body"))
		return
	}

	resp, err := h.svc.Predict(c.Request.Context(), *req.Symptoms)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) symptoms(c *gin.Context) {
	list, err := h.svc.Symptoms(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *handler) scores(c *gin.Context) {
	report, err := h.svc.Scores(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *handler) importRows(c *gin.Context) {
	n, err := h.svc.ImportRows(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inserted": n})
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindData, apperr.KindArtifactMissing, apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindTraining:
		return http.StatusUnprocessableEntity
	case apperr.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondWithError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := statusFor(kind)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(status, gin.H{
		"error": apperr.MessageOf(err),
		"code":  kind,
	})
}
