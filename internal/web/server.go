package web

import (
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mx-styles/library-management-system/internal/middleware"
	"github.com/mx-styles/library-management-system/internal/models"
	"github.com/mx-styles/library-management-system/internal/services"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Server is the rendered front end. It shares the service layer with
// the JSON API and only differs in how results are presented: HTML
// pages, flash messages and redirects instead of JSON payloads.
type Server struct {
	users    *services.UserService
	catalog  *services.CatalogService
	lending  *services.LendingService
	sessions *SessionStore
	tpl      *template.Template
}

func NewServer(users *services.UserService, catalog *services.CatalogService, lending *services.LendingService, sessions *SessionStore) (*Server, error) {
	tpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Server{users: users, catalog: catalog, lending: lending, sessions: sessions, tpl: tpl}, nil
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.HTTPMetrics)

	r.Get("/", s.home)
	r.Get("/search", s.search)
	r.Get("/register", s.registerForm)
	r.Post("/register", s.register)
	r.Get("/login", s.loginForm)
	r.Post("/login", s.login)
	r.Post("/logout", s.logout)

	r.Group(func(r chi.Router) {
		r.Use(s.requireLogin)
		r.Post("/borrow/{book_id}", s.borrow)
		r.Post("/return/{borrow_id}", s.returnBook)
		r.Get("/borrowed", s.borrowed)
	})

	return r
}

type pageData struct {
	User     *models.User
	Flashes  []string
	Query    string
	Books    []models.Book
	Borrows  []models.BorrowRecordDetail
	FormErr  string
	Username string
	Email    string
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, page string, data pageData) {
	data.User = s.currentUser(r)
	data.Flashes = s.sessions.Flashes(w, r)
	if err := s.tpl.ExecuteTemplate(w, page, data); err != nil {
		slog.Error("render", "page", page, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (s *Server) currentUser(r *http.Request) *models.User {
	id, ok := s.sessions.UserID(r)
	if !ok {
		return nil
	}
	u, err := s.users.Get(r.Context(), id)
	if err != nil {
		return nil
	}
	return &u
}

// requireLogin bounces anonymous visitors to the login page.
func (s *Server) requireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.sessions.UserID(r); !ok {
			s.sessions.Flash(w, r, "Please log in first")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// flashText turns a domain error into the message shown to the visitor.
func flashText(err error) string {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return "Not found"
	case errors.Is(err, models.ErrUnavailable):
		return "This book is not available for borrowing"
	case errors.Is(err, models.ErrConflict):
		return "You already have a copy of this book borrowed"
	case errors.Is(err, models.ErrAlreadyReturned):
		return "This book has already been returned"
	default:
		slog.Error("web request failed", "err", err)
		return "Something went wrong, please try again"
	}
}
