package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bootcamper/internal/domain"
	"bootcamper/internal/http/middleware"
)

func respondError(c *gin.Context, status int, message string, err error) {
	payload := gin.H{
		"success":    false,
		"error":      message,
		"request_id": middleware.GetRequestID(c),
	}
	if err != nil && err.Error() != message {
		payload["detail"] = err.Error()
	}
	c.JSON(status, payload)
}

// RespondDomainError maps domain errors to HTTP responses. Unknown errors
// become an opaque 500 so internals never leak.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err), domain.IsInvalidQuery(err):
		respondError(c, http.StatusBadRequest, err.Error(), nil)
	case domain.IsUnauthorized(err):
		respondError(c, http.StatusUnauthorized, err.Error(), nil)
	case domain.IsForbidden(err):
		respondError(c, http.StatusForbidden, err.Error(), nil)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, err.Error(), nil)
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, err.Error(), nil)
	case domain.IsUpstream(err):
		respondError(c, http.StatusBadGateway, err.Error(), nil)
	default:
		respondError(c, http.StatusInternalServerError, "server error", nil)
	}
}
