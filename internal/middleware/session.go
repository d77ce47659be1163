package middleware

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"
)

const sessionUserKey = "user_id"

type sessionRegenerator interface {
	Regenerate(ctx context.Context, session *sessions.Session) error
}

// SessionManager stores the signed-in user id in a gorilla session.
type SessionManager struct {
	store sessions.Store
	name  string
}

// NewSessionManager constructs a SessionManager for the named cookie.
func NewSessionManager(store sessions.Store, name string) *SessionManager {
	if name == "" {
		name = "dojo_session"
	}
	return &SessionManager{store: store, name: name}
}

// UserID returns the user bound to the request session, or "".
func (m *SessionManager) UserID(r *http.Request) string {
	if m == nil || m.store == nil {
		return ""
	}
	session, err := m.store.Get(r, m.name)
	if err != nil || session == nil {
		return ""
	}
	id, _ := session.Values[sessionUserKey].(string)
	return id
}

// SignIn binds userID to the session. Stores that can rotate ids get a fresh one so a
// pre-login session id is never promoted.
func (m *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, userID string) error {
	session, err := m.store.Get(r, m.name)
	if session == nil {
		return err
	}
	if regen, ok := m.store.(sessionRegenerator); ok {
		if err := regen.Regenerate(r.Context(), session); err != nil {
			return err
		}
	}
	session.Values[sessionUserKey] = userID
	return session.Save(r, w)
}

// SignOut clears the session and expires its cookie.
func (m *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	session, err := m.store.Get(r, m.name)
	if session == nil {
		return err
	}
	delete(session.Values, sessionUserKey)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
