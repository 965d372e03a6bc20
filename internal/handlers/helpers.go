package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "networth/internal/errors"
	"networth/internal/logger"
	"networth/internal/models"
	"networth/internal/uuid"
)

// ErrorResponse documents the error payload shape for swagger.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// parseRecordID validates the record id path parameter.
func parseRecordID(c *gin.Context) (string, error) {
	id := c.Param("id")
	if !uuid.IsValid(id) {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid record id")
	}
	return id, nil
}

// parseDisplayCurrency reads the optional ?currency= query parameter,
// defaulting to USD.
func parseDisplayCurrency(c *gin.Context) (models.Currency, error) {
	raw := c.DefaultQuery("currency", string(models.CurrencyUSD))
	currency := models.Currency(raw)
	if !currency.Valid() {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Unsupported display currency: "+raw)
	}
	return currency, nil
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrInternalServer.Code,
			"message": apperrors.ErrInternalServer.Message,
		},
	})
}
