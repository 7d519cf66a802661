package web

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const sessionName = "library_session"

// SessionStore wraps the cookie store: signed-in user id plus flash
// messages, nothing else lives in the session.
type SessionStore struct {
	store *sessions.CookieStore
}

func NewSessionStore(secret string) *SessionStore {
	cs := sessions.NewCookieStore([]byte(secret))
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionStore{store: cs}
}

func (s *SessionStore) session(r *http.Request) *sessions.Session {
	sess, _ := s.store.Get(r, sessionName)
	return sess
}

func (s *SessionStore) UserID(r *http.Request) (string, bool) {
	sess := s.session(r)
	id, ok := sess.Values["user_id"].(string)
	return id, ok && id != ""
}

func (s *SessionStore) SignIn(w http.ResponseWriter, r *http.Request, userID string) error {
	sess := s.session(r)
	sess.Values["user_id"] = userID
	return sess.Save(r, w)
}

func (s *SessionStore) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess := s.session(r)
	delete(sess.Values, "user_id")
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

func (s *SessionStore) Flash(w http.ResponseWriter, r *http.Request, msg string) {
	sess := s.session(r)
	sess.AddFlash(msg)
	_ = sess.Save(r, w)
}

// Flashes drains pending flash messages.
func (s *SessionStore) Flashes(w http.ResponseWriter, r *http.Request) []string {
	sess := s.session(r)
	raw := sess.Flashes()
	_ = sess.Save(r, w)
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			out = append(out, msg)
		}
	}
	return out
}
