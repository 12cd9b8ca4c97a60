// Package postgres implements the store against PostgreSQL via the pgx
// stdlib driver. Bootstrap applies the reference schema; production
// deployments may manage migrations out of band instead.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"unitime-backend/internal/model"
	"unitime-backend/internal/store"
)

// Open opens a PostgreSQL connection and verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a Postgres store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Users() store.Users                 { return &users{db: s.db} }
func (s *pgStore) Activities() store.Activities       { return &activities{db: s.db} }
func (s *pgStore) Assignments() store.Assignments     { return &assignments{db: s.db} }
func (s *pgStore) Scores() store.Scores               { return &scores{db: s.db} }
func (s *pgStore) StudyRequests() store.StudyRequests { return &studyRequests{db: s.db} }

// HealthPing implements store.HealthPinger.
func (s *pgStore) HealthPing(ctx context.Context) error { return s.db.PingContext(ctx) }

const ddl = `
CREATE TABLE IF NOT EXISTS users (
    user_id      TEXT PRIMARY KEY,
    email        TEXT NOT NULL,
    display_name TEXT,
    role         TEXT NOT NULL DEFAULT 'student',
    photo_url    TEXT,
    created_at   TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS activities (
    activity_id  TEXT PRIMARY KEY,
    user_id      TEXT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
    subject      TEXT NOT NULL,
    course_code  TEXT NOT NULL DEFAULT '',
    day          TEXT NOT NULL,
    start_time   TEXT NOT NULL,
    room         TEXT NOT NULL DEFAULT '',
    is_cancelled BOOLEAN NOT NULL DEFAULT FALSE,
    created_at   TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS assignments (
    assignment_id TEXT PRIMARY KEY,
    user_id       TEXT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
    subject       TEXT NOT NULL,
    title         TEXT NOT NULL DEFAULT '',
    due_date      TIMESTAMPTZ,
    completed     BOOLEAN NOT NULL DEFAULT FALSE,
    status        TEXT NOT NULL DEFAULT '',
    created_at    TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS scores (
    score_id   TEXT PRIMARY KEY,
    user_id    TEXT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
    subject    TEXT NOT NULL,
    topic      TEXT NOT NULL DEFAULT '',
    score      DOUBLE PRECISION NOT NULL,
    max_score  DOUBLE PRECISION NOT NULL DEFAULT 100,
    date       TIMESTAMPTZ NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS study_requests (
    request_id TEXT PRIMARY KEY,
    from_user  TEXT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
    to_user    TEXT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
    subject    TEXT NOT NULL DEFAULT '',
    message    TEXT NOT NULL DEFAULT '',
    status     TEXT NOT NULL DEFAULT 'pending',
    created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_activities_user ON activities(user_id);
CREATE INDEX IF NOT EXISTS idx_assignments_user ON assignments(user_id);
CREATE INDEX IF NOT EXISTS idx_scores_user ON scores(user_id);
CREATE INDEX IF NOT EXISTS idx_requests_to ON study_requests(to_user);
`

// Bootstrap creates the schema when it does not exist yet.
func Bootstrap(ctx context.Context, dsn string) error {
	if dsn == "" {
		return nil
	}
	db, err := Open(dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	_, err = db.ExecContext(ctx, ddl)
	return err
}

func mapErr(err error) error {
	switch {
	case err == sql.ErrNoRows:
		return model.ErrNotFound
	case err != nil && strings.Contains(err.Error(), "23505"):
		return fmt.Errorf("%w: %v", model.ErrConflict, err)
	case err != nil && strings.Contains(err.Error(), "23503"):
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
		`INSERT INTO users (user_id, email, display_name, role, photo_url, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		out.UserID, out.Email, out.DisplayName, out.Role, out.PhotoURL, out.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (u *users) Get(ctx context.Context, userID string) (*model.User, error) {
	var m model.User
	err := u.db.QueryRowContext(ctx,
		`SELECT user_id, email, display_name, role, photo_url, created_at FROM users WHERE user_id = $1`, userID).
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
	res, err := u.db.ExecContext(ctx, `DELETE FROM users WHERE user_id = $1`, userID)
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
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		out.ActivityID, out.UserID, out.Subject, out.CourseCode, out.Day, out.StartTime, out.Room, out.IsCancelled, out.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (a *activities) List(ctx context.Context, userID string) ([]*model.ScheduledActivity, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT activity_id, user_id, subject, course_code, day, start_time, room, is_cancelled, created_at
         FROM activities WHERE user_id = $1 ORDER BY created_at`, userID)
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
	var m model.ScheduledActivity
	err := a.db.QueryRowContext(ctx,
		`UPDATE activities SET is_cancelled = $1 WHERE user_id = $2 AND activity_id = $3
         RETURNING activity_id, user_id, subject, course_code, day, start_time, room, is_cancelled, created_at`,
		cancelled, userID, activityID).
		Scan(&m.ActivityID, &m.UserID, &m.Subject, &m.CourseCode, &m.Day, &m.StartTime, &m.Room, &m.IsCancelled, &m.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &m, nil
}

func (a *activities) Delete(ctx context.Context, userID, activityID string) error {
	res, err := a.db.ExecContext(ctx,
		`DELETE FROM activities WHERE user_id = $1 AND activity_id = $2`, userID, activityID)
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
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		out.AssignmentID, out.UserID, out.Subject, out.Title, due, out.Completed, out.Status, out.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (a *assignments) List(ctx context.Context, userID string) ([]*model.AssignmentRecord, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT assignment_id, user_id, subject, title, due_date, completed, status, created_at
         FROM assignments WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.AssignmentRecord
	for rows.Next() {
		var m model.AssignmentRecord
		var due sql.NullTime
		if err := rows.Scan(&m.AssignmentID, &m.UserID, &m.Subject, &m.Title, &due, &m.Completed, &m.Status, &m.CreatedAt); err != nil {
			return nil, err
		}
		if due.Valid {
			t := due.Time
			m.DueDate = &t
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (a *assignments) SetCompleted(ctx context.Context, userID, assignmentID string, completed bool) (*model.AssignmentRecord, error) {
	var m model.AssignmentRecord
	var due sql.NullTime
	err := a.db.QueryRowContext(ctx,
		`UPDATE assignments SET completed = $1 WHERE user_id = $2 AND assignment_id = $3
         RETURNING assignment_id, user_id, subject, title, due_date, completed, status, created_at`,
		completed, userID, assignmentID).
		Scan(&m.AssignmentID, &m.UserID, &m.Subject, &m.Title, &due, &m.Completed, &m.Status, &m.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	if due.Valid {
		t := due.Time
		m.DueDate = &t
	}
	return &m, nil
}

func (a *assignments) Delete(ctx context.Context, userID, assignmentID string) error {
	res, err := a.db.ExecContext(ctx,
		`DELETE FROM assignments WHERE user_id = $1 AND assignment_id = $2`, userID, assignmentID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
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
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		out.ScoreID, out.UserID, out.Subject, out.Topic, out.Score, out.MaxScore, out.Date, out.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (s *scores) List(ctx context.Context, userID string) ([]*model.ScoreRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT score_id, user_id, subject, topic, score, max_score, date, created_at
         FROM scores WHERE user_id = $1 ORDER BY date`, userID)
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
		`DELETE FROM scores WHERE user_id = $1 AND score_id = $2`, userID, scoreID)
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
         VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		out.RequestID, out.FromUser, out.ToUser, out.Subject, out.Message, out.Status, out.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (s *studyRequests) ListForUser(ctx context.Context, userID string) ([]*model.StudyRequest, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT request_id, from_user, to_user, subject, message, status, created_at
         FROM study_requests WHERE to_user = $1 OR from_user = $1 ORDER BY created_at DESC`, userID)
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
	var m model.StudyRequest
	err := s.db.QueryRowContext(ctx,
		`UPDATE study_requests SET status = $1 WHERE request_id = $2
         RETURNING request_id, from_user, to_user, subject, message, status, created_at`,
		status, requestID).
		Scan(&m.RequestID, &m.FromUser, &m.ToUser, &m.Subject, &m.Message, &m.Status, &m.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &m, nil
}
