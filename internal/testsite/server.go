// Package testsite serves a small course portal with a login form. The
// browser tests run against it so they do not depend on a live application.
package testsite

import (
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"loginsuite/internal/auth"
	"loginsuite/internal/templates"
)

// Course is one row on the courses page.
type Course struct {
	Title    string
	Progress int
}

// DefaultCourses is what every user is enrolled in.
var DefaultCourses = []Course{
	{Title: "Introduction to Go", Progress: 80},
	{Title: "Browser Automation Basics", Progress: 35},
	{Title: "Writing Maintainable Tests", Progress: 0},
}

// Server is the demo site.
type Server struct {
	store     *auth.Store
	templates *template.Template
	log       *zap.Logger
	courses   []Course
}

var pageFiles = []string{"partials.html", "index.html", "login.html", "courses.html", "logout.html"}

// NewServer creates a site that accepts the given accounts.
func NewServer(log *zap.Logger, accounts ...auth.Account) (*Server, error) {
	tmpl, err := templates.Parse(pageFiles...)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		store:     auth.NewStore(accounts...),
		templates: tmpl,
		log:       log.Named("site"),
		courses:   DefaultCourses,
	}, nil
}

// Store exposes the session store.
func (s *Server) Store() *auth.Store {
	return s.store
}

// Handler returns the routes wrapped in the standard middleware.
func (s *Server) Handler() http.Handler {
	return s.WrapWithMiddleware(s.RegisterRoutes())
}

type pageData struct {
	Email    string
	Initial  string
	Username string
	Error    string
	Courses  []Course
}

func dataFor(r *http.Request) pageData {
	ac := auth.GetAuthContext(r)
	if !ac.IsAuthenticated {
		return pageData{}
	}
	return pageData{Email: ac.Session.Email, Initial: ac.Session.Initial()}
}

// renderHTML sets the HTML content type header and executes the template.
func (s *Server) renderHTML(w http.ResponseWriter, status int, tmplName string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, tmplName, data); err != nil {
		s.log.Error("template error", zap.String("template", tmplName), zap.Error(err))
	}
}
