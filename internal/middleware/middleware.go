package middleware

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Middleware represents a standard HTTP middleware following the next pattern.
type Middleware func(http.Handler) http.Handler

// ChainMiddleware applies middlewares in the order provided around a handler.
// The first middleware in the slice is the outermost wrapper.
func ChainMiddleware(handler http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}

// LoggingResponseWriter records the status and size of a response.
type LoggingResponseWriter struct {
	http.ResponseWriter
	StatusCode int
	Bytes      int
}

// NewLoggingResponseWriter creates a new LoggingResponseWriter.
func NewLoggingResponseWriter(w http.ResponseWriter) *LoggingResponseWriter {
	return &LoggingResponseWriter{
		ResponseWriter: w,
		StatusCode:     http.StatusOK,
	}
}

func (lw *LoggingResponseWriter) WriteHeader(code int) {
	lw.StatusCode = code
	lw.ResponseWriter.WriteHeader(code)
}

func (lw *LoggingResponseWriter) Write(data []byte) (int, error) {
	n, err := lw.ResponseWriter.Write(data)
	lw.Bytes += n
	return n, err
}

// Flush implements http.Flusher for streaming responses.
func (lw *LoggingResponseWriter) Flush() {
	if f, ok := lw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// LoggingMiddleware logs one line per request with its status and latency.
// Server errors are logged at error level.
func LoggingMiddleware(log *zap.Logger) Middleware {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lw := NewLoggingResponseWriter(w)
			next.ServeHTTP(lw, r)

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", lw.StatusCode),
				zap.Int("bytes", lw.Bytes),
				zap.Duration("elapsed", time.Since(start)),
			}
			if lw.StatusCode >= http.StatusInternalServerError {
				log.Error("request", fields...)
				return
			}
			log.Debug("request", fields...)
		})
	}
}

// RecoverMiddleware turns a handler panic into a 500 response.
func RecoverMiddleware(log *zap.Logger) Middleware {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					log.Error("handler panic",
						zap.String("path", r.URL.Path),
						zap.String("panic", fmt.Sprint(v)))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
