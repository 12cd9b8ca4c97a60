// Package sqlite implements the store against a local SQLite database using
// the pure-Go modernc driver. It is the default driver for local development
// and the backing store for the compliance tests.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"unitime-backend/internal/model"
	"unitime-backend/internal/store"
)

// Open opens (or creates) a SQLite database at the given path with WAL mode
// and foreign keys enabled. Use ":memory:" for an ephemeral database.
func Open(path string) (*sql.DB, error) {
	dsn := "file::memory:?mode=memory&cache=shared&_pragma=foreign_keys(ON)"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", path)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// The in-memory database disappears when its last connection closes.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

const ddl = `
CREATE TABLE IF NOT EXISTS users (
    user_id      TEXT PRIMARY KEY,
    email        TEXT NOT NULL,
    display_name TEXT,
    role         TEXT NOT NULL DEFAULT 'student',
    photo_url    TEXT,
    created_at   TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS activities (
    activity_id  TEXT PRIMARY KEY,
    user_id      TEXT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
    subject      TEXT NOT NULL,
    course_code  TEXT NOT NULL DEFAULT '',
    day          TEXT NOT NULL,
    start_time   TEXT NOT NULL,
    room         TEXT NOT NULL DEFAULT '',
    is_cancelled INTEGER NOT NULL DEFAULT 0,
    created_at   TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS assignments (
    assignment_id TEXT PRIMARY KEY,
    user_id       TEXT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
    subject       TEXT NOT NULL,
    title         TEXT NOT NULL DEFAULT '',
    due_date      TIMESTAMP,
    completed     INTEGER NOT NULL DEFAULT 0,
    status        TEXT NOT NULL DEFAULT '',
    created_at    TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS scores (
    score_id   TEXT PRIMARY KEY,
    user_id    TEXT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
    subject    TEXT NOT NULL,
    topic      TEXT NOT NULL DEFAULT '',
    score      REAL NOT NULL,
    max_score  REAL NOT NULL DEFAULT 100,
    date       TIMESTAMP NOT NULL,
    created_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS study_requests (
    request_id TEXT PRIMARY KEY,
    from_user  TEXT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
    to_user    TEXT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
    subject    TEXT NOT NULL DEFAULT '',
    message    TEXT NOT NULL DEFAULT '',
    status     TEXT NOT NULL DEFAULT 'pending',
    created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_activities_user ON activities(user_id);
CREATE INDEX IF NOT EXISTS idx_assignments_user ON assignments(user_id);
CREATE INDEX IF NOT EXISTS idx_scores_user ON scores(user_id);
CREATE INDEX IF NOT EXISTS idx_requests_to ON study_requests(to_user);
`

// Bootstrap creates the schema when it does not exist yet.
func Bootstrap(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, ddl)
	return err
}

// NewWithDB constructs a SQLite-backed store over an existing connection.
func NewWithDB(db *sql.DB) store.Store { return &sqliteStore{db: db} }

type sqliteStore struct{ db *sql.DB }

func (s *sqliteStore) Users() store.Users                 { return &users{db: s.db} }
func (s *sqliteStore) Activities() store.Activities       { return &activities{db: s.db} }
func (s *sqliteStore) Assignments() store.Assignments     { return &assignments{db: s.db} }
func (s *sqliteStore) Scores() store.Scores               { return &scores{db: s.db} }
func (s *sqliteStore) StudyRequests() store.StudyRequests { return &studyRequests{db: s.db} }

// HealthPing implements store.HealthPinger.
func (s *sqliteStore) HealthPing(ctx context.Context) error { return s.db.PingContext(ctx) }

func mapErr(err error) error {
	switch {
	case err == sql.ErrNoRows:
		return model.ErrNotFound
	case err != nil && strings.Contains(err.Error(), "UNIQUE constraint"):
		return fmt.Errorf("%w: %v", model.ErrConflict, err)
	case err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint"):
		return fmt.Errorf("%w: %v", model.ErrNotFound, err)
	default:
		return err
	}
}

// --- Users ---

type users struct{ db *sql.DB }

func (u *users) Create(ctx context.Context, m *model.User) (*model.User, error) {
	out := *m
	if out.CreatedAt.IsZero() {
		out.CreatedAt = time.Now().UTC()
	}
	_, err := u.db.ExecContext(ctx,
		`INSERT INTO users (user_id, email, display_name, role, photo_url, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		out.UserID, out.Email, out.DisplayName, out.Role, out.PhotoURL, out.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (u *users) Get(ctx context.Context, userID string) (*model.User, error) {
	var m model.User
	err := u.db.QueryRowContext(ctx,
		`SELECT user_id, email, display_name, role, photo_url, created_at FROM users WHERE user_id = ?`, userID).
		Scan(&m.UserID, &m.Email, &m.DisplayName, &m.Role, &m.PhotoURL, &m.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &m, nil
}

func (u *users) List(ctx context.Context) ([]*model.User, error) {
	rows, err := u.db.QueryContext(ctx,
		`SELECT user_id, email, display_name, role, photo_url, created_at FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.User
	for rows.Next() {
		var m model.User
		if err := rows.Scan(&m.UserID, &m.Email, &m.DisplayName, &m.Role, &m.PhotoURL, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (u *users) Delete(ctx context.Context, userID string) error {
	res, err := u.db.ExecContext(ctx, `DELETE FROM users WHERE user_id = ?`, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// --- Activities ---

type activities struct{ db *sql.DB }

func (a *activities) Create(ctx context.Context, m *model.ScheduledActivity) (*model.ScheduledActivity, error) {
	out := *m
	if out.CreatedAt.IsZero() {
		out.CreatedAt = time.Now().UTC()
	}
	_, err := a.db.ExecContext(ctx,
		`INSERT INTO activities (activity_id, user_id, subject, course_code, day, start_time, room, is_cancelled, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		out.ActivityID, out.UserID, out.Subject, out.CourseCode, out.Day, out.StartTime, out.Room, out.IsCancelled, out.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (a *activities) List(ctx context.Context, userID string) ([]*model.ScheduledActivity, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT activity_id, user_id, subject, course_code, day, start_time, room, is_cancelled, created_at
         FROM activities WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.ScheduledActivity
	for rows.Next() {
		var m model.ScheduledActivity
		if err := rows.Scan(&m.ActivityID, &m.UserID, &m.Subject, &m.CourseCode, &m.Day, &m.StartTime, &m.Room, &m.IsCancelled, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (a *activities) SetCancelled(ctx context.Context, userID, activityID string, cancelled bool) (*model.ScheduledActivity, error) {
	res, err := a.db.ExecContext(ctx,
		`UPDATE activities SET is_cancelled = ? WHERE user_id = ? AND activity_id = ?`,
		cancelled, userID, activityID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.ErrNotFound
	}
	var m model.ScheduledActivity
	err = a.db.QueryRowContext(ctx,
		`SELECT activity_id, user_id, subject, course_code, day, start_time, room, is_cancelled, created_at
         FROM activities WHERE user_id = ? AND activity_id = ?`, userID, activityID).
		Scan(&m.ActivityID, &m.UserID, &m.Subject, &m.CourseCode, &m.Day, &m.StartTime, &m.Room, &m.IsCancelled, &m.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &m, nil
}

func (a *activities) Delete(ctx context.Context, userID, activityID string) error {
	res, err := a.db.ExecContext(ctx,
		`DELETE FROM activities WHERE user_id = ? AND activity_id = ?`, userID, activityID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// --- Assignments ---

type assignments struct{ db *sql.DB }

func (a *assignments) Create(ctx context.Context, m *model.AssignmentRecord) (*model.AssignmentRecord, error) {
	out := *m
	if out.CreatedAt.IsZero() {
		out.CreatedAt = time.Now().UTC()
	}
	var due sql.NullTime
	if out.DueDate != nil {
		due = sql.NullTime{Time: *out.DueDate, Valid: true}
	}
	_, err := a.db.ExecContext(ctx,
		`INSERT INTO assignments (assignment_id, user_id, subject, title, due_date, completed, status, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		out.AssignmentID, out.UserID, out.Subject, out.Title, due, out.Completed, out.Status, out.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (a *assignments) List(ctx context.Context, userID string) ([]*model.AssignmentRecord, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT assignment_id, user_id, subject, title, due_date, completed, status, created_at
         FROM assignments WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.AssignmentRecord
	for rows.Next() {
		m, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (a *assignments) SetCompleted(ctx context.Context, userID, assignmentID string, completed bool) (*model.AssignmentRecord, error) {
	res, err := a.db.ExecContext(ctx,
		`UPDATE assignments SET completed = ? WHERE user_id = ? AND assignment_id = ?`,
		completed, userID, assignmentID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.ErrNotFound
	}
	row := a.db.QueryRowContext(ctx,
		`SELECT assignment_id, user_id, subject, title, due_date, completed, status, created_at
         FROM assignments WHERE user_id = ? AND assignment_id = ?`, userID, assignmentID)
	m, err := scanAssignment(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return m, nil
}

func (a *assignments) Delete(ctx context.Context, userID, assignmentID string) error {
	res, err := a.db.ExecContext(ctx,
		`DELETE FROM assignments WHERE user_id = ? AND assignment_id = ?`, userID, assignmentID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanAssignment(r rowScanner) (*model.AssignmentRecord, error) {
	var m model.AssignmentRecord
	var due sql.NullTime
	if err := r.Scan(&m.AssignmentID, &m.UserID, &m.Subject, &m.Title, &due, &m.Completed, &m.Status, &m.CreatedAt); err != nil {
		return nil, err
	}
	if due.Valid {
		t := due.Time
		m.DueDate = &t
	}
	return &m, nil
}

// --- Scores ---

type scores struct{ db *sql.DB }

func (s *scores) Create(ctx context.Context, m *model.ScoreRecord) (*model.ScoreRecord, error) {
	out := *m
	if out.CreatedAt.IsZero() {
		out.CreatedAt = time.Now().UTC()
	}
	if out.MaxScore == 0 {
		out.MaxScore = 100
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scores (score_id, user_id, subject, topic, score, max_score, date, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		out.ScoreID, out.UserID, out.Subject, out.Topic, out.Score, out.MaxScore, out.Date, out.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (s *scores) List(ctx context.Context, userID string) ([]*model.ScoreRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT score_id, user_id, subject, topic, score, max_score, date, created_at
         FROM scores WHERE user_id = ? ORDER BY date`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.ScoreRecord
	for rows.Next() {
		var m model.ScoreRecord
		if err := rows.Scan(&m.ScoreID, &m.UserID, &m.Subject, &m.Topic, &m.Score, &m.MaxScore, &m.Date, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (s *scores) Delete(ctx context.Context, userID, scoreID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM scores WHERE user_id = ? AND score_id = ?`, userID, scoreID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// --- Study requests ---

type studyRequests struct{ db *sql.DB }

func (s *studyRequests) Create(ctx context.Context, m *model.StudyRequest) (*model.StudyRequest, error) {
	out := *m
	if out.CreatedAt.IsZero() {
		out.CreatedAt = time.Now().UTC()
	}
	if out.Status == "" {
		out.Status = "pending"
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO study_requests (request_id, from_user, to_user, subject, message, status, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		out.RequestID, out.FromUser, out.ToUser, out.Subject, out.Message, out.Status, out.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (s *studyRequests) ListForUser(ctx context.Context, userID string) ([]*model.StudyRequest, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT request_id, from_user, to_user, subject, message, status, created_at
         FROM study_requests WHERE to_user = ? OR from_user = ? ORDER BY created_at DESC`, userID, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.StudyRequest
	for rows.Next() {
		var m model.StudyRequest
		if err := rows.Scan(&m.RequestID, &m.FromUser, &m.ToUser, &m.Subject, &m.Message, &m.Status, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (s *studyRequests) SetStatus(ctx context.Context, requestID, status string) (*model.StudyRequest, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE study_requests SET status = ? WHERE request_id = ?`, status, requestID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.ErrNotFound
	}
	var m model.StudyRequest
	err = s.db.QueryRowContext(ctx,
		`SELECT request_id, from_user, to_user, subject, message, status, created_at
         FROM study_requests WHERE request_id = ?`, requestID).
		Scan(&m.RequestID, &m.FromUser, &m.ToUser, &m.Subject, &m.Message, &m.Status, &m.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &m, nil
}
