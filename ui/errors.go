package ui

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"afmdash/domain/core"
	apperrors "afmdash/internal/errors"
)

// statusFor maps application error codes to HTTP statuses
func statusFor(err error) int {
	if stderrors.Is(err, core.ErrNotFound) {
		return http.StatusNotFound
	}
	if stderrors.Is(err, core.ErrUnknownFamily) || stderrors.Is(err, core.ErrInvalidFormat) {
		return http.StatusBadRequest
	}
	switch apperrors.GetCode(err) {
	case apperrors.CodeInvalidInput:
		return http.StatusBadRequest
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeNotConnected:
		return http.StatusConflict
	case apperrors.CodeDisabled:
		return http.StatusServiceUnavailable
	case apperrors.CodeExternalService, apperrors.CodeConnectionError:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("[HTTP] %s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{
		"error": err.Error(),
		"code":  apperrors.GetCode(err),
	})
}

func (s *Server) badRequest(c *gin.Context, msg string) {
	s.fail(c, apperrors.InvalidInput(msg))
}
