package router

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/noah-isme/dojo-api/internal/models"
)

// memoryDB backs every repository used by the router scenarios. Relations are checked
// the way the Postgres constraints would.
type memoryDB struct {
	users      map[string]*models.User
	classes    map[string]*models.Class
	sessions   map[string]*models.ClassSession
	attendance map[string]*models.Attendance
	progress   map[string]*models.StudentProgress
	notes      map[string]*models.ProgressNote
	techniques map[string]*models.Technique
	events     map[string]*models.Event
	audit      []models.AuditLog
}

func newMemoryDB() *memoryDB {
	return &memoryDB{
		users:      map[string]*models.User{},
		classes:    map[string]*models.Class{},
		sessions:   map[string]*models.ClassSession{},
		attendance: map[string]*models.Attendance{},
		progress:   map[string]*models.StudentProgress{},
		notes:      map[string]*models.ProgressNote{},
		techniques: map[string]*models.Technique{},
		events:     map[string]*models.Event{},
	}
}

var (
	errUnique     = &pq.Error{Code: "23505"}
	errForeignKey = &pq.Error{Code: "23503"}
)

func stamp(id *string, version *int, created, updated *time.Time) {
	if *id == "" {
		*id = uuid.NewString()
	}
	now := time.Now().UTC()
	*version = 1
	*created = now
	*updated = now
}

func bump(current int, expected *int, version *int, updated *time.Time) error {
	if expected != nil && *expected != current {
		return sql.ErrNoRows
	}
	*version = current + 1
	*updated = time.Now().UTC()
	return nil
}

// users

type memUsers struct{ db *memoryDB }

func (r memUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := r.db.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (r memUsers) FindByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range r.db.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r memUsers) List(context.Context) ([]models.User, error) {
	out := []models.User{}
	for _, u := range r.db.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r memUsers) Create(ctx context.Context, user *models.User) error {
	if _, err := r.FindByUsername(ctx, user.Username); err == nil {
		return errUnique
	}
	stamp(&user.ID, &user.Version, &user.CreatedAt, &user.UpdatedAt)
	if user.JoinDate == "" {
		user.JoinDate = user.CreatedAt.Format("2006-01-02")
	}
	clone := *user
	r.db.users[user.ID] = &clone
	return nil
}

func (r memUsers) Update(_ context.Context, user *models.User, expectedVersion *int) error {
	current, ok := r.db.users[user.ID]
	if !ok {
		return sql.ErrNoRows
	}
	if err := bump(current.Version, expectedVersion, &user.Version, &user.UpdatedAt); err != nil {
		return err
	}
	clone := *user
	r.db.users[user.ID] = &clone
	return nil
}

func (r memUsers) SetStripeCustomerID(_ context.Context, id, customerID string) error {
	u, ok := r.db.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.StripeCustomerID = &customerID
	return nil
}

func (r memUsers) Delete(_ context.Context, id string) error {
	if _, ok := r.db.users[id]; !ok {
		return sql.ErrNoRows
	}
	for _, c := range r.db.classes {
		if c.InstructorID == id {
			return errForeignKey
		}
	}
	for _, a := range r.db.attendance {
		if a.StudentID == id {
			return errForeignKey
		}
	}
	delete(r.db.users, id)
	return nil
}

func (r memUsers) CreateAuditLog(_ context.Context, log *models.AuditLog) error {
	log.ID = uuid.NewString()
	log.CreatedAt = time.Now().UTC()
	r.db.audit = append(r.db.audit, *log)
	return nil
}

// classes

type memClasses struct{ db *memoryDB }

func (r memClasses) List(_ context.Context, filter models.ClassFilter) ([]models.Class, error) {
	out := []models.Class{}
	for _, c := range r.db.classes {
		if filter.InstructorID != "" && c.InstructorID != filter.InstructorID {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (r memClasses) FindByID(_ context.Context, id string) (*models.Class, error) {
	if c, ok := r.db.classes[id]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (r memClasses) Create(_ context.Context, class *models.Class) error {
	if _, ok := r.db.users[class.InstructorID]; !ok {
		return errForeignKey
	}
	stamp(&class.ID, &class.Version, &class.CreatedAt, &class.UpdatedAt)
	clone := *class
	r.db.classes[class.ID] = &clone
	return nil
}

func (r memClasses) Update(_ context.Context, class *models.Class, expectedVersion *int) error {
	current, ok := r.db.classes[class.ID]
	if !ok {
		return sql.ErrNoRows
	}
	if err := bump(current.Version, expectedVersion, &class.Version, &class.UpdatedAt); err != nil {
		return err
	}
	clone := *class
	r.db.classes[class.ID] = &clone
	return nil
}

func (r memClasses) Delete(ctx context.Context, id string) error {
	if _, ok := r.db.classes[id]; !ok {
		return sql.ErrNoRows
	}
	if n, _ := r.CountSessions(ctx, id); n > 0 {
		return errForeignKey
	}
	delete(r.db.classes, id)
	return nil
}

func (r memClasses) DeleteCascade(_ context.Context, id string) error {
	if _, ok := r.db.classes[id]; !ok {
		return sql.ErrNoRows
	}
	for sid, s := range r.db.sessions {
		if s.ClassID != id {
			continue
		}
		for aid, a := range r.db.attendance {
			if a.SessionID == sid {
				delete(r.db.attendance, aid)
			}
		}
		delete(r.db.sessions, sid)
	}
	delete(r.db.classes, id)
	return nil
}

func (r memClasses) CountSessions(_ context.Context, classID string) (int, error) {
	n := 0
	for _, s := range r.db.sessions {
		if s.ClassID == classID {
			n++
		}
	}
	return n, nil
}

// sessions

type memSessions struct{ db *memoryDB }

func (r memSessions) selectWhere(keep func(*models.ClassSession) bool) []models.ClassSession {
	out := []models.ClassSession{}
	for _, s := range r.db.sessions {
		if keep(s) {
			out = append(out, *s)
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

func (r memSessions) List(context.Context) ([]models.ClassSession, error) {
	return r.selectWhere(func(*models.ClassSession) bool { return true }), nil
}

func (r memSessions) ListByClass(_ context.Context, classID string) ([]models.ClassSession, error) {
	return r.selectWhere(func(s *models.ClassSession) bool { return s.ClassID == classID }), nil
}

func (r memSessions) ListByDateRange(_ context.Context, start, end string) ([]models.ClassSession, error) {
	return r.selectWhere(func(s *models.ClassSession) bool { return s.Date >= start && s.Date <= end }), nil
}

func (r memSessions) FindByID(_ context.Context, id string) (*models.ClassSession, error) {
	if s, ok := r.db.sessions[id]; ok {
		clone := *s
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (r memSessions) Create(_ context.Context, session *models.ClassSession) error {
	if _, ok := r.db.classes[session.ClassID]; !ok {
		return errForeignKey
	}
	stamp(&session.ID, &session.Version, &session.CreatedAt, &session.UpdatedAt)
	clone := *session
	r.db.sessions[session.ID] = &clone
	return nil
}

func (r memSessions) CreateBatch(ctx context.Context, sessions []models.ClassSession) error {
	for i := range sessions {
		if err := r.Create(ctx, &sessions[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r memSessions) Update(_ context.Context, session *models.ClassSession, expectedVersion *int) error {
	current, ok := r.db.sessions[session.ID]
	if !ok {
		return sql.ErrNoRows
	}
	if err := bump(current.Version, expectedVersion, &session.Version, &session.UpdatedAt); err != nil {
		return err
	}
	clone := *session
	r.db.sessions[session.ID] = &clone
	return nil
}

func (r memSessions) Delete(ctx context.Context, id string) error {
	if _, ok := r.db.sessions[id]; !ok {
		return sql.ErrNoRows
	}
	if n, _ := r.CountAttendance(ctx, id); n > 0 {
		return errForeignKey
	}
	delete(r.db.sessions, id)
	return nil
}

func (r memSessions) DeleteCascade(_ context.Context, id string) error {
	if _, ok := r.db.sessions[id]; !ok {
		return sql.ErrNoRows
	}
	for aid, a := range r.db.attendance {
		if a.SessionID == id {
			delete(r.db.attendance, aid)
		}
	}
	delete(r.db.sessions, id)
	return nil
}

func (r memSessions) CountAttendance(_ context.Context, sessionID string) (int, error) {
	n := 0
	for _, a := range r.db.attendance {
		if a.SessionID == sessionID {
			n++
		}
	}
	return n, nil
}

// attendance

type memAttendance struct{ db *memoryDB }

func (r memAttendance) ListBySession(_ context.Context, sessionID string) ([]models.Attendance, error) {
	out := []models.Attendance{}
	for _, a := range r.db.attendance {
		if a.SessionID == sessionID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r memAttendance) ListByStudent(_ context.Context, studentID string) ([]models.AttendanceHistoryEntry, error) {
	out := []models.AttendanceHistoryEntry{}
	for _, a := range r.db.attendance {
		if a.StudentID != studentID {
			continue
		}
		entry := models.AttendanceHistoryEntry{Attendance: *a}
		if s, ok := r.db.sessions[a.SessionID]; ok {
			entry.Date, entry.StartTime, entry.EndTime, entry.ClassID = s.Date, s.StartTime, s.EndTime, s.ClassID
			if c, ok := r.db.classes[s.ClassID]; ok {
				entry.ClassTitle = c.Title
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

func (r memAttendance) FindByID(_ context.Context, id string) (*models.Attendance, error) {
	if a, ok := r.db.attendance[id]; ok {
		clone := *a
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (r memAttendance) Create(_ context.Context, record *models.Attendance) error {
	for _, a := range r.db.attendance {
		if a.SessionID == record.SessionID && a.StudentID == record.StudentID {
			return errUnique
		}
	}
	stamp(&record.ID, &record.Version, &record.CreatedAt, &record.UpdatedAt)
	clone := *record
	r.db.attendance[record.ID] = &clone
	return nil
}

func (r memAttendance) Update(_ context.Context, record *models.Attendance, expectedVersion *int) error {
	current, ok := r.db.attendance[record.ID]
	if !ok {
		return sql.ErrNoRows
	}
	if err := bump(current.Version, expectedVersion, &record.Version, &record.UpdatedAt); err != nil {
		return err
	}
	clone := *record
	r.db.attendance[record.ID] = &clone
	return nil
}

func (r memAttendance) Delete(_ context.Context, id string) error {
	if _, ok := r.db.attendance[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.db.attendance, id)
	return nil
}

// progress

type memProgress struct{ db *memoryDB }

func (r memProgress) FindByStudent(_ context.Context, studentID string) (*models.StudentProgress, error) {
	for _, p := range r.db.progress {
		if p.StudentID == studentID {
			clone := *p
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r memProgress) FindByID(_ context.Context, id string) (*models.StudentProgress, error) {
	if p, ok := r.db.progress[id]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (r memProgress) Create(ctx context.Context, progress *models.StudentProgress) error {
	if _, err := r.FindByStudent(ctx, progress.StudentID); err == nil {
		return errUnique
	}
	stamp(&progress.ID, &progress.Version, &progress.CreatedAt, &progress.UpdatedAt)
	clone := *progress
	r.db.progress[progress.ID] = &clone
	return nil
}

func (r memProgress) Update(_ context.Context, progress *models.StudentProgress, expectedVersion *int) error {
	current, ok := r.db.progress[progress.ID]
	if !ok {
		return sql.ErrNoRows
	}
	if err := bump(current.Version, expectedVersion, &progress.Version, &progress.UpdatedAt); err != nil {
		return err
	}
	clone := *progress
	r.db.progress[progress.ID] = &clone
	return nil
}

// progress notes

type memNotes struct{ db *memoryDB }

func (r memNotes) ListByMember(_ context.Context, memberID string) ([]models.ProgressNote, error) {
	out := []models.ProgressNote{}
	for _, n := range r.db.notes {
		if n.MemberID == memberID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (r memNotes) FindByID(_ context.Context, id string) (*models.ProgressNote, error) {
	if n, ok := r.db.notes[id]; ok {
		clone := *n
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (r memNotes) Create(_ context.Context, note *models.ProgressNote) error {
	stamp(&note.ID, &note.Version, &note.CreatedAt, &note.UpdatedAt)
	clone := *note
	r.db.notes[note.ID] = &clone
	return nil
}

func (r memNotes) Update(_ context.Context, note *models.ProgressNote, expectedVersion *int) error {
	current, ok := r.db.notes[note.ID]
	if !ok {
		return sql.ErrNoRows
	}
	if err := bump(current.Version, expectedVersion, &note.Version, &note.UpdatedAt); err != nil {
		return err
	}
	clone := *note
	r.db.notes[note.ID] = &clone
	return nil
}

func (r memNotes) Delete(_ context.Context, id string) error {
	if _, ok := r.db.notes[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.db.notes, id)
	return nil
}

// techniques

type memTechniques struct{ db *memoryDB }

func (r memTechniques) List(_ context.Context, filter models.TechniqueFilter) ([]models.Technique, error) {
	out := []models.Technique{}
	for _, t := range r.db.techniques {
		if filter.Category != "" && t.Category != filter.Category {
			continue
		}
		if filter.BeltLevel != "" && (t.BeltLevel == nil || string(*t.BeltLevel) != filter.BeltLevel) {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memTechniques) FindByID(_ context.Context, id string) (*models.Technique, error) {
	if t, ok := r.db.techniques[id]; ok {
		clone := *t
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (r memTechniques) Create(_ context.Context, technique *models.Technique) error {
	stamp(&technique.ID, &technique.Version, &technique.CreatedAt, &technique.UpdatedAt)
	clone := *technique
	r.db.techniques[technique.ID] = &clone
	return nil
}

func (r memTechniques) Update(_ context.Context, technique *models.Technique, expectedVersion *int) error {
	current, ok := r.db.techniques[technique.ID]
	if !ok {
		return sql.ErrNoRows
	}
	if err := bump(current.Version, expectedVersion, &technique.Version, &technique.UpdatedAt); err != nil {
		return err
	}
	clone := *technique
	r.db.techniques[technique.ID] = &clone
	return nil
}

func (r memTechniques) Delete(_ context.Context, id string) error {
	if _, ok := r.db.techniques[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.db.techniques, id)
	return nil
}

// events

type memEvents struct{ db *memoryDB }

func (r memEvents) List(context.Context) ([]models.Event, error) {
	out := []models.Event{}
	for _, e := range r.db.events {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (r memEvents) FindByID(_ context.Context, id string) (*models.Event, error) {
	if e, ok := r.db.events[id]; ok {
		clone := *e
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (r memEvents) Create(_ context.Context, event *models.Event) error {
	stamp(&event.ID, &event.Version, &event.CreatedAt, &event.UpdatedAt)
	clone := *event
	r.db.events[event.ID] = &clone
	return nil
}

func (r memEvents) Update(_ context.Context, event *models.Event, expectedVersion *int) error {
	current, ok := r.db.events[event.ID]
	if !ok {
		return sql.ErrNoRows
	}
	if err := bump(current.Version, expectedVersion, &event.Version, &event.UpdatedAt); err != nil {
		return err
	}
	clone := *event
	r.db.events[event.ID] = &clone
	return nil
}

func (r memEvents) Delete(_ context.Context, id string) error {
	if _, ok := r.db.events[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.db.events, id)
	return nil
}

// reports

type memReports struct{ db *memoryDB }

func (r memReports) CountUsersByRole(context.Context) ([]models.CountByKey, error) {
	counts := map[string]int{}
	for _, u := range r.db.users {
		counts[string(u.Role)]++
	}
	return toCountRows(counts), nil
}

func (r memReports) CountClasses(context.Context) (int, error) {
	return len(r.db.classes), nil
}

func (r memReports) CountSessionsBetween(_ context.Context, start, end string) (int, error) {
	n := 0
	for _, s := range r.db.sessions {
		if s.Date >= start && s.Date <= end {
			n++
		}
	}
	return n, nil
}

func (r memReports) BeltDistribution(context.Context) ([]models.CountByKey, error) {
	counts := map[string]int{}
	for _, p := range r.db.progress {
		counts[string(p.BeltRank)]++
	}
	return toCountRows(counts), nil
}

func (r memReports) AttendanceByStatus(context.Context) ([]models.CountByKey, error) {
	counts := map[string]int{}
	for _, a := range r.db.attendance {
		counts[string(a.Status)]++
	}
	return toCountRows(counts), nil
}

func (r memReports) ClassAttendance(_ context.Context, rng models.ReportRange) ([]models.ClassAttendanceRow, error) {
	rows := []models.ClassAttendanceRow{}
	for _, c := range r.db.classes {
		row := models.ClassAttendanceRow{ClassID: c.ID, ClassTitle: c.Title}
		for sid, s := range r.db.sessions {
			if s.ClassID != c.ID || (rng.StartDate != "" && s.Date < rng.StartDate) || (rng.EndDate != "" && s.Date > rng.EndDate) {
				continue
			}
			row.SessionsHeld++
			for _, a := range r.db.attendance {
				if a.SessionID != sid {
					continue
				}
				switch a.Status {
				case models.AttendancePresent:
					row.Present++
				case models.AttendanceLate:
					row.Late++
				case models.AttendanceAbsent:
					row.Absent++
				}
			}
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ClassTitle < rows[j].ClassTitle })
	return rows, nil
}

func toCountRows(counts map[string]int) []models.CountByKey {
	rows := make([]models.CountByKey, 0, len(counts))
	for k, v := range counts {
		rows = append(rows, models.CountByKey{Key: k, Count: v})
	}
	return rows
}
