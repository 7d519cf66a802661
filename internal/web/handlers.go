package web

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mx-styles/library-management-system/internal/models"
)

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	data := pageData{}
	if u := s.currentUser(r); u != nil {
		all, err := s.lending.ListForUser(r.Context(), u.ID)
		if err != nil {
			s.sessions.Flash(w, r, flashText(err))
		}
		for _, rec := range all {
			if !rec.IsReturned {
				data.Borrows = append(data.Borrows, rec)
			}
		}
	}
	s.render(w, r, "home.html", data)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	books, err := s.catalog.Search(r.Context(), query)
	if err != nil {
		s.sessions.Flash(w, r, flashText(err))
		books = nil
	}
	s.render(w, r, "search.html", pageData{Query: query, Books: books})
}

func (s *Server) borrow(w http.ResponseWriter, r *http.Request) {
	uid, _ := s.sessions.UserID(r)
	bookID := chi.URLParam(r, "book_id")
	if _, err := s.lending.Borrow(r.Context(), uid, bookID); err != nil {
		s.sessions.Flash(w, r, flashText(err))
	} else if book, err := s.catalog.Get(r.Context(), bookID); err == nil {
		s.sessions.Flash(w, r, "Successfully borrowed "+book.Title)
	}
	http.Redirect(w, r, "/search", http.StatusSeeOther)
}

func (s *Server) returnBook(w http.ResponseWriter, r *http.Request) {
	uid, _ := s.sessions.UserID(r)
	rec, err := s.lending.Return(r.Context(), uid, chi.URLParam(r, "borrow_id"))
	if err != nil {
		s.sessions.Flash(w, r, flashText(err))
	} else if book, err := s.catalog.Get(r.Context(), rec.BookID); err == nil {
		s.sessions.Flash(w, r, "Successfully returned "+book.Title)
	}
	http.Redirect(w, r, "/borrowed", http.StatusSeeOther)
}

func (s *Server) borrowed(w http.ResponseWriter, r *http.Request) {
	uid, _ := s.sessions.UserID(r)
	records, err := s.lending.ListForUser(r.Context(), uid)
	if err != nil {
		s.sessions.Flash(w, r, flashText(err))
	}
	s.render(w, r, "borrowed.html", pageData{Borrows: records})
}

func (s *Server) registerForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "register.html", pageData{})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	if _, err := s.users.Register(r.Context(), username, email, password); err != nil {
		s.render(w, r, "register.html", pageData{
			FormErr:  registerErrText(err),
			Username: username,
			Email:    email,
		})
		return
	}
	s.sessions.Flash(w, r, "Account created successfully! Please log in.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func registerErrText(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, models.ErrConflict) {
		return "Username or email already registered"
	}
	return err.Error()
}

func (s *Server) loginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "login.html", pageData{})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	u, err := s.users.Authenticate(r.Context(), username, password)
	if err != nil {
		s.render(w, r, "login.html", pageData{FormErr: "Invalid username or password", Username: username})
		return
	}
	if err := s.sessions.SignIn(w, r, u.ID); err != nil {
		s.render(w, r, "login.html", pageData{FormErr: "Could not start session", Username: username})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	_ = s.sessions.SignOut(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
