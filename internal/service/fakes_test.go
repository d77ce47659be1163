package service

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/dojo-api/internal/models"
	appErrors "github.com/noah-isme/dojo-api/pkg/errors"
)

type classStore struct {
	classes  map[string]*models.Class
	sessions *sessionStore
	created  int
}

func newClassStore(sessions *sessionStore, classes ...models.Class) *classStore {
	store := &classStore{classes: make(map[string]*models.Class), sessions: sessions}
	for i := range classes {
		c := classes[i]
		store.classes[c.ID] = &c
	}
	return store
}

func (s *classStore) List(ctx context.Context, filter models.ClassFilter) ([]models.Class, error) {
	out := make([]models.Class, 0, len(s.classes))
	for _, c := range s.classes {
		if filter.InstructorID != "" && c.InstructorID != filter.InstructorID {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *classStore) FindByID(ctx context.Context, id string) (*models.Class, error) {
	if c, ok := s.classes[id]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (s *classStore) Create(ctx context.Context, class *models.Class) error {
	class.ID = uuid.NewString()
	class.Version = 1
	class.CreatedAt = time.Now().UTC()
	class.UpdatedAt = class.CreatedAt
	clone := *class
	s.classes[class.ID] = &clone
	s.created++
	return nil
}

func (s *classStore) Update(ctx context.Context, class *models.Class, expectedVersion *int) error {
	current, ok := s.classes[class.ID]
	if !ok || (expectedVersion != nil && current.Version != *expectedVersion) {
		return sql.ErrNoRows
	}
	class.Version = current.Version + 1
	clone := *class
	s.classes[class.ID] = &clone
	return nil
}

func (s *classStore) Delete(ctx context.Context, id string) error {
	if _, ok := s.classes[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.classes, id)
	return nil
}

func (s *classStore) DeleteCascade(ctx context.Context, id string) error {
	if _, ok := s.classes[id]; !ok {
		return sql.ErrNoRows
	}
	if s.sessions != nil {
		for sid, session := range s.sessions.sessions {
			if session.ClassID == id {
				delete(s.sessions.sessions, sid)
			}
		}
	}
	delete(s.classes, id)
	return nil
}

func (s *classStore) CountSessions(ctx context.Context, classID string) (int, error) {
	if s.sessions == nil {
		return 0, nil
	}
	count := 0
	for _, session := range s.sessions.sessions {
		if session.ClassID == classID {
			count++
		}
	}
	return count, nil
}

type sessionStore struct {
	sessions   map[string]*models.ClassSession
	attendance map[string]int
	batches    int
}

func newSessionStore(sessions ...models.ClassSession) *sessionStore {
	store := &sessionStore{sessions: make(map[string]*models.ClassSession), attendance: make(map[string]int)}
	for i := range sessions {
		s := sessions[i]
		store.sessions[s.ID] = &s
	}
	return store
}

func (s *sessionStore) sorted(keep func(models.ClassSession) bool) []models.ClassSession {
	out := make([]models.ClassSession, 0, len(s.sessions))
	for _, session := range s.sessions {
		if keep(*session) {
			out = append(out, *session)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

func (s *sessionStore) List(ctx context.Context) ([]models.ClassSession, error) {
	return s.sorted(func(models.ClassSession) bool { return true }), nil
}

func (s *sessionStore) ListByClass(ctx context.Context, classID string) ([]models.ClassSession, error) {
	return s.sorted(func(cs models.ClassSession) bool { return cs.ClassID == classID }), nil
}

func (s *sessionStore) ListByDateRange(ctx context.Context, start, end string) ([]models.ClassSession, error) {
	return s.sorted(func(cs models.ClassSession) bool { return cs.Date >= start && cs.Date <= end }), nil
}

func (s *sessionStore) FindByID(ctx context.Context, id string) (*models.ClassSession, error) {
	if session, ok := s.sessions[id]; ok {
		clone := *session
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (s *sessionStore) Create(ctx context.Context, session *models.ClassSession) error {
	session.ID = uuid.NewString()
	session.Version = 1
	clone := *session
	s.sessions[session.ID] = &clone
	return nil
}

func (s *sessionStore) CreateBatch(ctx context.Context, sessions []models.ClassSession) error {
	s.batches++
	for i := range sessions {
		if err := s.Create(ctx, &sessions[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *sessionStore) Update(ctx context.Context, session *models.ClassSession, expectedVersion *int) error {
	current, ok := s.sessions[session.ID]
	if !ok || (expectedVersion != nil && current.Version != *expectedVersion) {
		return sql.ErrNoRows
	}
	session.Version = current.Version + 1
	clone := *session
	s.sessions[session.ID] = &clone
	return nil
}

func (s *sessionStore) Delete(ctx context.Context, id string) error {
	if _, ok := s.sessions[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.sessions, id)
	return nil
}

func (s *sessionStore) DeleteCascade(ctx context.Context, id string) error {
	delete(s.attendance, id)
	return s.Delete(ctx, id)
}

func (s *sessionStore) CountAttendance(ctx context.Context, sessionID string) (int, error) {
	return s.attendance[sessionID], nil
}

type memoryCache struct {
	values      map[string]interface{}
	invalidated []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: make(map[string]interface{})}
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	value, ok := m.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return copyJSON(value, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.values[key] = value
	return nil
}

func (m *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.invalidated = append(m.invalidated, pattern)
	prefix := pattern
	if n := len(prefix); n > 0 && prefix[n-1] == '*' {
		prefix = prefix[:n-1]
	}
	for key := range m.values {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(m.values, key)
		}
	}
	return nil
}
