package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"file-storage-api/internal/infrastructure/metrics"
)

const maxLogBodySize = 1 << 12 // 4 KB

func RequestLogGin(logger *zap.Logger, mCounter *prometheus.CounterVec) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions ||
			c.Request.URL.Path == "/favicon.ico" ||
			strings.HasSuffix(c.Request.URL.Path, "/metrics") {
			c.Next()
			return
		}

		start := time.Now()

		var body string
		if c.Request.Body != nil {
			ct := c.GetHeader("Content-Type")
			switch {
			case strings.HasPrefix(ct, "multipart/form-data"):
				body = "<multipart/form-data omitted>"
			case c.Request.ContentLength < 0 || c.Request.ContentLength > maxLogBodySize:
				body = "<body not logged>"
			default:
				var buf bytes.Buffer
				_, _ = io.Copy(&buf, io.LimitReader(c.Request.Body, maxLogBodySize))
				body = buf.String()
				c.Request.Body.Close()
				c.Request.Body = io.NopCloser(bytes.NewReader(buf.Bytes()))
			}
		}

		c.Next()

		metrics.Inc(mCounter, metrics.AppRequests)

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("url", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("body", body),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		}
		if who := Caller(c); !who.IsZero() {
			fields = append(fields, zap.String("user_id", who.UserID()))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		logger.Info("HTTP request", fields...)
	}
}
