// internal/api/errors.go
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "investr-engine/internal/common/errors"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func statusFor(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case apperrors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	stdErr := apperrors.Normalize(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(statusFor(stdErr.Code), errorBody{Error: errorDetail{
		Code:    string(stdErr.Code),
		Message: stdErr.Message,
		Details: stdErr.Details,
	}})
}
