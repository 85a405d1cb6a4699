package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"course-enrollment/internal/domain"
	"course-enrollment/pkg/logger"
	"course-enrollment/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// errorStatus maps a domain error onto an HTTP status. The bool is false for
// errors the domain does not classify.
func errorStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, true
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, domain.ErrDuplicateEnrollment),
		errors.Is(err, domain.ErrCapacityExceeded),
		errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, true
	case errors.Is(err, domain.ErrServiceUnavailable):
		return http.StatusServiceUnavailable, true
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway, true
	case errors.Is(err, domain.ErrIdempotencyKeyReused):
		return http.StatusUnprocessableEntity, true
	}
	return http.StatusInternalServerError, false
}

// respondError logs err in full and writes the public part of it.
func respondError(c *gin.Context, err error) {
	status, known := errorStatus(err)

	message := "internal server error"
	var upstream *domain.UpstreamError
	switch {
	case errors.As(err, &upstream):
		message = upstream.PublicMessage()
	case known:
		message = err.Error()
	}

	fields := logrus.Fields{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
		"status": status,
	}
	if status >= http.StatusInternalServerError {
		logger.WithFields(fields).Errorf("request failed: %v", err)
	} else {
		logger.WithFields(fields).Warnf("request rejected: %v", err)
	}

	c.JSON(status, APIResponse{
		Success: false,
		Message: message,
	})
}

// bindAndValidate binds the JSON body into req and runs the struct
// validator. It writes the 400 response itself and reports false on failure.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid request format",
			Errors:  err.Error(),
		})
		return false
	}

	if err := validator.ValidateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Validation failed",
			Errors:  validator.FormatValidationError(err),
		})
		return false
	}
	return true
}

func pagination(c *gin.Context) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		limit = 10
	}

	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
