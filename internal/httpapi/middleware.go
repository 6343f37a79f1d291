package httpapi

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			err := next(c)
			if err != nil {
				// Пишем ответ сразу, чтобы в логе был итоговый статус
				c.Error(err)
			}

			fields := []zap.Field{
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
				zap.String("remote_ip", c.RealIP()),
			}
			if err != nil {
				logger.Warn("request", append(fields, zap.Error(err))...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		}
	}
}
