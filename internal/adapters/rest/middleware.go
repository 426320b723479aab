package rest

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	requestIDKey  = "X-Request-ID"
	adminEmailKey = "admin_email"
)

// RequestIDMiddleware adds a request ID to the context.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDKey)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(requestIDKey, requestID)
		c.Header(requestIDKey, requestID)
		c.Next()
	}
}

// CORSMiddleware lets the map UI and workshop scripts call the API.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Language, Authorization, X-Request-ID")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

// LoggingMiddleware writes one access log line per request.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := zerolog.InfoLevel
		switch {
		case status >= 500:
			level = zerolog.ErrorLevel
		case status >= 400:
			level = zerolog.WarnLevel
		}

		ev := log.WithLevel(level).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString(requestIDKey))
		if err := c.Errors.Last(); err != nil {
			ev = ev.Err(err.Err)
		}
		ev.Msg("API request")
	}
}

// TimeoutMiddleware bounds the time downstream store and verifier calls may take.
func TimeoutMiddleware(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// requireAdmin runs the authorization gate before any admin handler.
func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		email, err := s.svc.Auth.RequireAdmin(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			s.fail(c, err)
			return
		}
		c.Set(adminEmailKey, email)
		c.Next()
	}
}
