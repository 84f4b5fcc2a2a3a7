package testsite

import (
	"net/http"

	"loginsuite/internal/middleware"
	"loginsuite/internal/templates"
)

// RegisterRoutes creates and configures the HTTP mux with Go 1.22+ method routing.
func (s *Server) RegisterRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /login", s.handleLoginGET)
	mux.HandleFunc("POST /login", s.handleLoginPOST)
	mux.HandleFunc("GET /logout", s.handleLogout)
	mux.Handle("GET /courses", s.requireAuth(http.HandlerFunc(s.handleCourses)))

	mux.Handle("GET /static/", http.FileServer(http.FS(templates.StaticFS)))

	return mux
}

// WrapWithMiddleware applies standard middleware to the mux.
func (s *Server) WrapWithMiddleware(mux *http.ServeMux) http.Handler {
	return middleware.ChainMiddleware(mux,
		middleware.LoggingMiddleware(s.log),
		middleware.RecoverMiddleware(s.log),
		s.withAuth,
	)
}
