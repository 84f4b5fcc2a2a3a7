package testsite

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"loginsuite/internal/auth"
)

// LoginError is the inline message shown for rejected credentials.
const LoginError = "Invalid email or password."

// withAuth attaches authentication state to the request context for downstream handlers.
func (s *Server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := s.store.FromRequest(r)
		ctx := auth.SetAuthContext(r.Context(), auth.AuthContext{Session: session, IsAuthenticated: ok})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAuth redirects anonymous users to the login page.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.GetAuthContext(r).IsAuthenticated {
			next.ServeHTTP(w, r)
			return
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	})
}

func (s *Server) createAuthSession(w http.ResponseWriter, email string) {
	sess := s.store.Create(email)
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * 7,
	})
}

func (s *Server) clearAuthSession(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.CookieName); err == nil {
		s.store.Delete(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderHTML(w, http.StatusOK, "index", dataFor(r))
}

func (s *Server) handleLoginGET(w http.ResponseWriter, r *http.Request) {
	if auth.GetAuthContext(r).IsAuthenticated {
		http.Redirect(w, r, "/courses", http.StatusSeeOther)
		return
	}
	s.renderHTML(w, http.StatusOK, "login", pageData{})
}

func (s *Server) handleLoginPOST(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	if !s.store.Authenticate(email, r.FormValue("password")) {
		s.log.Info("login rejected", zap.String("email", email))
		s.renderHTML(w, http.StatusUnauthorized, "login", pageData{Username: email, Error: LoginError})
		return
	}

	s.createAuthSession(w, email)
	s.log.Info("login accepted", zap.String("email", email))
	http.Redirect(w, r, "/courses", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearAuthSession(w, r)
	s.renderHTML(w, http.StatusOK, "logout", pageData{})
}

func (s *Server) handleCourses(w http.ResponseWriter, r *http.Request) {
	data := dataFor(r)
	data.Courses = s.courses
	s.renderHTML(w, http.StatusOK, "courses", data)
}
