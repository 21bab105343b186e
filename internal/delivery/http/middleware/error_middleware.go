// Package middleware contains the echo middlewares of the HTTP delivery.
package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	deliverycontext "bmeh/internal/delivery/context"
	"bmeh/internal/delivery/http/response"
	domainerrors "bmeh/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ErrorMiddleware error handling middleware
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// HandleHTTPError renders errors returned by handlers as Echo's HTTPErrorHandler.
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, errorCode, message, details := m.classify(err, c)

	if c.Request().Method == http.MethodHead {
		m.write(c, c.NoContent(status))

		return
	}
	m.write(c, response.Error(c, status, errorCode, message, details))
}

func (m *ErrorMiddleware) classify(err error, c echo.Context) (status int, errorCode, message, details string) {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		if appErr.HTTPCode() >= http.StatusInternalServerError {
			m.logUnexpected(c, err)
		}

		return appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), appErr.Details()
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := fmt.Sprint(httpErr.Message)
		if httpErr.Code >= http.StatusInternalServerError {
			m.logUnexpected(c, err)
		}

		return httpErr.Code, "HTTP_ERROR", message, ""
	}

	m.logUnexpected(c, err)

	return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", ""
}

func (m *ErrorMiddleware) logUnexpected(c echo.Context, err error) {
	deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger).Error("Unhandled error",
		slog.Any("error", err),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	)
}

func (m *ErrorMiddleware) write(c echo.Context, err error) {
	if err != nil {
		m.logger.Error("Failed to write error response", slog.Any("error", err))
	}
}
