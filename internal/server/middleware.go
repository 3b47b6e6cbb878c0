package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/maskd-io/maskd/internal/events"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// loggingMiddleware logs API requests and broadcasts request events.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		s.totalRequests.Add(1)

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		// Create response writer wrapper to capture response data
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		s.logger.WithRequestID(requestID).Info("HTTP request started",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote_addr", r.RemoteAddr),
		)

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		s.logger.WithRequestID(requestID).Info("HTTP request completed",
			zap.Int("status_code", rw.statusCode),
			zap.Duration("duration", duration),
			zap.Int("response_size", rw.size),
		)

		s.hub.BroadcastEvent(events.Event{
			Type:      events.EventTypeRequestLog,
			Timestamp: time.Now(),
			RequestID: requestID,
			Data: events.RequestLogEvent{
				RequestID:    requestID,
				Method:       r.Method,
				Path:         r.URL.Path,
				StatusCode:   rw.statusCode,
				ClientIP:     clientIP(r),
				Duration:     duration,
				RequestSize:  r.ContentLength,
				ResponseSize: int64(rw.size),
			},
		})
	})
}

// rateLimitMiddleware rejects clients that exceed the per-IP budget.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !s.limiter.allow(ip) {
			s.logger.Warn("Rate limit exceeded", zap.String("client_ip", ip))
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the client IP from the request
func clientIP(r *http.Request) string {
	// Check X-Forwarded-For header
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}

	// Check X-Real-IP header
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// Fall back to RemoteAddr
	return r.RemoteAddr
}

// responseWriter wraps http.ResponseWriter to capture response data
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	size, err := rw.ResponseWriter.Write(b)
	rw.size += size
	return size, err
}

// generateRequestID generates a unique request ID
func generateRequestID() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

// getRequestID extracts request ID from context
func getRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return "unknown"
}
