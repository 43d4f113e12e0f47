package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/erp/clerkfeed/internal/domain/shared"
	"github.com/erp/clerkfeed/internal/infrastructure/logger"
	"github.com/erp/clerkfeed/internal/interfaces/http/dto"
	"github.com/erp/clerkfeed/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
}

// HandleError converts an application error into the error envelope.
// Domain errors carry their own code and caller-safe message; anything else
// is logged and answered with a generic message.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	log := logger.L(c.Request.Context())
	_ = c.Error(err)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		status := dto.GetHTTPStatus(code)
		switch {
		case status >= http.StatusInternalServerError:
			log.Error("Request failed", zap.Error(err))
		case status == http.StatusForbidden:
			log.Warn("Request signature rejected", zap.String("client_ip", c.ClientIP()))
		}
		h.Error(c, status, code, domainErr.Message)
		return
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		log.Error("Request did not complete in time", zap.Error(err))
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeUnavailable, "The feed could not be generated in time")
		return
	}

	log.Error("Request failed", zap.Error(err))
	h.InternalError(c)
}
