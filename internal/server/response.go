package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hammamikhairi/ottoshop/internal/domain"
)

// APIError is the body of every failed response.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorEnvelope wraps APIError as {"error": {...}}.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func respondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// respondServiceError maps a service error onto a status code: bad input
// is the caller's fault, everything else is ours.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrClientInput):
		respondError(c, http.StatusBadRequest, "invalid_input", err)
	case errors.Is(err, domain.ErrStorage):
		respondError(c, http.StatusInternalServerError, "storage_error", err)
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}

func respondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
