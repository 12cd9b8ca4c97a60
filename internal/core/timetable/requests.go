package timetable

import "time"

// CreateUserRequest registers a new account.
type CreateUserRequest struct {
	// UserID is the stable identifier; derived from the email when empty.
	UserID string
	Email  string
	// DisplayName is an optional human-readable name.
	DisplayName *string
	// Role is "student" or "teacher"; defaults to student.
	Role string
}

// CreateActivityRequest adds one timetable entry.
type CreateActivityRequest struct {
	UserID    string
	Subject   string
	Day       string
	StartTime string
	Room      string
}

// CreateAssignmentRequest records one piece of assigned work.
type CreateAssignmentRequest struct {
	UserID  string
	Subject string
	Title   string
	DueDate *time.Time
	Status  string
}

// CreateScoreRequest records one quiz/test result.
type CreateScoreRequest struct {
	UserID   string
	Subject  string
	Topic    string
	Score    float64
	MaxScore float64
	Date     time.Time
}

// CreateStudyRequestRequest sends a collaboration invitation.
type CreateStudyRequestRequest struct {
	FromUser string
	ToUser   string
	Subject  string
	Message  string
}
