package middleware

import (
	"time"

	"meetsync/core/constants"
	"meetsync/core/logger"
	"meetsync/core/utils"

	"github.com/labstack/echo/v4"
)

// Middleware bundles the HTTP middleware used by module routers
type Middleware struct{}

func NewMiddleware() *Middleware {
	return &Middleware{}
}

// RequestID attaches a generated id to every request
func (m *Middleware) RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(constants.ContextRequestID, utils.GenerateID())
			return next(c)
		}
	}
}

// RequestLogger logs method, path, status and duration for every request
func (m *Middleware) RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			requestID, _ := c.Get(constants.ContextRequestID).(string)
			logger.Info("Request",
				"request_id", requestID,
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return err
		}
	}
}
