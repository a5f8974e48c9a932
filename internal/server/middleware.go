package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/Zachkp/portfolio/internal/store"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// requestLogger emits one structured log line per request.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			zap.Bool("htmx", isHTMX(c)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		switch {
		case c.Writer.Status() >= 500:
			logger.Error("request", fields...)
		case strings.HasPrefix(c.Request.URL.Path, "/static/"):
			logger.Debug("request", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}

// isHTMX reports whether the request was issued by htmx.
func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

var untrackedPrefixes = []string{"/static/", "/admin/", "/partials/", "/favicon", "/privacy", "/healthz"}

// visitorTracking records page views with a salted hash of the client IP.
// Requests carrying "DNT: 1" are not recorded.
func (s *Server) visitorTracking() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.Request.URL.Path
		if c.Request.Method != "GET" || isHTMX(c) || c.Writer.Status() >= 400 {
			return
		}
		for _, p := range untrackedPrefixes {
			if strings.HasPrefix(path, p) {
				return
			}
		}
		if c.GetHeader("DNT") == "1" {
			return
		}

		v := store.VisitorMetric{
			HashedIP:  s.admin.hashIP(c.ClientIP()),
			UserAgent: c.GetHeader("User-Agent"),
			Path:      path,
			Timestamp: time.Now(),
		}
		s.bg.Add(1)
		go func() {
			defer s.bg.Done()
			if err := s.store.RecordVisit(context.WithoutCancel(s.ctx), v); err != nil {
				s.logger.Warn("recording visitor", zap.Error(err))
			}
		}()
	}
}

// hashIPWithSalt truncates a salted SHA-256 of ip.
func hashIPWithSalt(ip, salt string) string {
	sum := sha256.Sum256([]byte(ip + salt))
	return hex.EncodeToString(sum[:])[:16]
}
