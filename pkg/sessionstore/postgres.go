// Package sessionstore implements a gorilla/sessions Store that keeps session values in
// Postgres. The cookie only carries the signed session id.
package sessionstore

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/jmoiron/sqlx"
)

// PostgresStore persists sessions in the http_sessions table.
type PostgresStore struct {
	db      *sqlx.DB
	Codecs  []securecookie.Codec
	Options *sessions.Options
}

var _ sessions.Store = (*PostgresStore)(nil)

// New builds a store. keyPairs are passed to securecookie.CodecsFromPairs: an
// authentication key optionally followed by an encryption key.
func New(db *sqlx.DB, opts sessions.Options, keyPairs ...[]byte) *PostgresStore {
	if opts.Path == "" {
		opts.Path = "/"
	}
	codecs := securecookie.CodecsFromPairs(keyPairs...)
	for _, codec := range codecs {
		if sc, ok := codec.(*securecookie.SecureCookie); ok {
			sc.MaxAge(opts.MaxAge)
		}
	}
	return &PostgresStore{db: db, Codecs: codecs, Options: &opts}
}

// Get returns the session cached for the request or loads it.
func (s *PostgresStore) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New returns the session referenced by the request cookie, or a fresh one when the
// cookie is missing, tampered with, or points to an expired row.
func (s *PostgresStore) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := *s.Options
	session.Options = &opts
	session.IsNew = true

	cookie, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}
	if err := securecookie.DecodeMulti(name, cookie.Value, &session.ID, s.Codecs...); err != nil {
		session.ID = ""
		return session, nil
	}

	found, err := s.load(r.Context(), session)
	if err != nil {
		return session, err
	}
	if !found {
		session.ID = ""
		return session, nil
	}
	session.IsNew = false
	return session, nil
}

// Save writes the session row and the cookie. A negative MaxAge deletes both.
func (s *PostgresStore) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if err := s.delete(r.Context(), session.ID); err != nil {
				return err
			}
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if err := s.save(r.Context(), session); err != nil {
		return err
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.Codecs...)
	if err != nil {
		return fmt.Errorf("encode session cookie: %w", err)
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

// Destroy removes the session row and expires the cookie.
func (s *PostgresStore) Destroy(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	session.Options.MaxAge = -1
	return s.Save(r, w, session)
}

// Regenerate drops the current row and assigns a new id on the next Save.
func (s *PostgresStore) Regenerate(ctx context.Context, session *sessions.Session) error {
	if session.ID != "" {
		if err := s.delete(ctx, session.ID); err != nil {
			return err
		}
	}
	session.ID = ""
	session.IsNew = true
	return nil
}

// DeleteExpired purges rows past their expiry and reports how many were removed.
func (s *PostgresStore) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM http_sessions WHERE expires_at <= $1`, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return result.RowsAffected()
}

func (s *PostgresStore) load(ctx context.Context, session *sessions.Session) (bool, error) {
	const query = `SELECT data FROM http_sessions WHERE id = $1 AND expires_at > $2`
	var data []byte
	if err := s.db.GetContext(ctx, &data, query, session.ID, time.Now().UTC()); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("load session: %w", err)
	}
	if err := securecookie.DecodeMulti(session.Name(), string(data), &session.Values, s.Codecs...); err != nil {
		return false, nil
	}
	return true, nil
}

func (s *PostgresStore) save(ctx context.Context, session *sessions.Session) error {
	encoded, err := securecookie.EncodeMulti(session.Name(), session.Values, s.Codecs...)
	if err != nil {
		return fmt.Errorf("encode session values: %w", err)
	}
	now := time.Now().UTC()
	maxAge := session.Options.MaxAge
	if maxAge == 0 {
		maxAge = s.Options.MaxAge
	}
	expiresAt := now.Add(time.Duration(maxAge) * time.Second)

	const query = `INSERT INTO http_sessions (id, data, expires_at, created_at, updated_at) VALUES ($1, $2, $3, $4, $4)
ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, expires_at = EXCLUDED.expires_at, updated_at = EXCLUDED.updated_at`
	if _, err := s.db.ExecContext(ctx, query, session.ID, []byte(encoded), expiresAt, now); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *PostgresStore) delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM http_sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
