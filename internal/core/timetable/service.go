// Package timetable contains the core business logic for users, scheduled
// activities, assignments, scores, and study requests.
package timetable

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"unitime-backend/internal/core/clock"
	"unitime-backend/internal/core/subjects"
	"unitime-backend/internal/model"
	"unitime-backend/internal/store"
)

// Weekdays are the seven canonical day names used for schedule matching.
// Matching is exact: no case folding, no synonyms.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Service contains the core business logic for timetable operations.
type Service struct {
	store store.Store
}

// NewService creates a new timetable service.
func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// CreateUser registers a new account. When UserID is empty it is derived from
// the email local part.
func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest) (*model.User, error) {
	if req.Email == "" {
		return nil, NewValidationError("email", "email is required")
	}
	if req.UserID == "" {
		req.UserID = deriveUserIDFromEmail(req.Email)
	}
	role := req.Role
	if role == "" {
		role = "student"
	}
	if role != "student" && role != "teacher" {
		return nil, NewValidationError("role", "role must be student or teacher")
	}

	log.Info().Str("userID", req.UserID).Str("role", role).Msg("Creating user")

	u, err := s.store.Users().Create(ctx, &model.User{
		UserID:      req.UserID,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Role:        role,
	})
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			return nil, NewConflictError("userID", "user already exists")
		}
		log.Error().Err(err).Str("userID", req.UserID).Msg("Failed to create user")
		return nil, err
	}
	return u, nil
}

// GetUser retrieves a user by ID.
func (s *Service) GetUser(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, NewValidationError("userID", "user ID is required")
	}
	u, err := s.store.Users().Get(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, NewNotFoundError("userID", "user not found")
		}
		return nil, err
	}
	return u, nil
}

// ListUsers lists all registered users.
func (s *Service) ListUsers(ctx context.Context) ([]*model.User, error) {
	return s.store.Users().List(ctx)
}

// CreateActivity adds one timetable entry after validating the day name and
// start time.
func (s *Service) CreateActivity(ctx context.Context, req CreateActivityRequest) (*model.ScheduledActivity, error) {
	if req.UserID == "" {
		return nil, NewValidationError("userID", "user ID is required")
	}
	if req.Subject == "" {
		return nil, NewValidationError("subject", "subject is required")
	}
	if !validWeekday(req.Day) {
		return nil, NewValidationError("day", "day must be one of the seven canonical weekday names")
	}
	if _, err := clock.Parse(req.StartTime); err != nil {
		return nil, NewValidationError("startTime", err.Error())
	}

	a, err := s.store.Activities().Create(ctx, &model.ScheduledActivity{
		ActivityID: uuid.New().String(),
		UserID:     req.UserID,
		Subject:    req.Subject,
		CourseCode: subjects.ResolveCode(req.Subject),
		Day:        req.Day,
		StartTime:  req.StartTime,
		Room:       req.Room,
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, NewNotFoundError("userID", "user not found")
		}
		log.Error().Err(err).Str("userID", req.UserID).Msg("Failed to create activity")
		return nil, err
	}
	return a, nil
}

// ListActivities returns every timetable entry for a user.
func (s *Service) ListActivities(ctx context.Context, userID string) ([]*model.ScheduledActivity, error) {
	if userID == "" {
		return nil, NewValidationError("userID", "user ID is required")
	}
	return s.store.Activities().List(ctx, userID)
}

// SetActivityCancelled toggles the cancellation flag on one activity.
func (s *Service) SetActivityCancelled(ctx context.Context, userID, activityID string, cancelled bool) (*model.ScheduledActivity, error) {
	if userID == "" || activityID == "" {
		return nil, NewValidationError("activityID", "user ID and activity ID are required")
	}
	log.Info().Str("userID", userID).Str("activityID", activityID).Bool("cancelled", cancelled).Msg("Updating activity cancellation")
	a, err := s.store.Activities().SetCancelled(ctx, userID, activityID, cancelled)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, NewNotFoundError("activityID", "activity not found")
		}
		return nil, err
	}
	return a, nil
}

// DeleteActivity removes one activity from the owning collection.
func (s *Service) DeleteActivity(ctx context.Context, userID, activityID string) error {
	if userID == "" || activityID == "" {
		return NewValidationError("activityID", "user ID and activity ID are required")
	}
	if err := s.store.Activities().Delete(ctx, userID, activityID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return NewNotFoundError("activityID", "activity not found")
		}
		return err
	}
	return nil
}

// CreateAssignment records one piece of assigned work.
func (s *Service) CreateAssignment(ctx context.Context, req CreateAssignmentRequest) (*model.AssignmentRecord, error) {
	if req.UserID == "" {
		return nil, NewValidationError("userID", "user ID is required")
	}
	if req.Subject == "" {
		return nil, NewValidationError("subject", "subject is required")
	}
	a, err := s.store.Assignments().Create(ctx, &model.AssignmentRecord{
		AssignmentID: uuid.New().String(),
		UserID:       req.UserID,
		Subject:      req.Subject,
		Title:        req.Title,
		DueDate:      req.DueDate,
		Status:       req.Status,
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, NewNotFoundError("userID", "user not found")
		}
		return nil, err
	}
	return a, nil
}

// ListAssignments returns every assignment for a user.
func (s *Service) ListAssignments(ctx context.Context, userID string) ([]*model.AssignmentRecord, error) {
	if userID == "" {
		return nil, NewValidationError("userID", "user ID is required")
	}
	return s.store.Assignments().List(ctx, userID)
}

// SetAssignmentCompleted marks an assignment done (or not).
func (s *Service) SetAssignmentCompleted(ctx context.Context, userID, assignmentID string, completed bool) (*model.AssignmentRecord, error) {
	if userID == "" || assignmentID == "" {
		return nil, NewValidationError("assignmentID", "user ID and assignment ID are required")
	}
	a, err := s.store.Assignments().SetCompleted(ctx, userID, assignmentID, completed)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, NewNotFoundError("assignmentID", "assignment not found")
		}
		return nil, err
	}
	return a, nil
}

// CreateScore records one quiz or test result. A zero max score falls back to
// 100 in the store layer.
func (s *Service) CreateScore(ctx context.Context, req CreateScoreRequest) (*model.ScoreRecord, error) {
	if req.UserID == "" {
		return nil, NewValidationError("userID", "user ID is required")
	}
	if req.Subject == "" {
		return nil, NewValidationError("subject", "subject is required")
	}
	sc, err := s.store.Scores().Create(ctx, &model.ScoreRecord{
		ScoreID:  uuid.New().String(),
		UserID:   req.UserID,
		Subject:  req.Subject,
		Topic:    req.Topic,
		Score:    req.Score,
		MaxScore: req.MaxScore,
		Date:     req.Date,
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, NewNotFoundError("userID", "user not found")
		}
		return nil, err
	}
	return sc, nil
}

// ListScores returns every score record for a user.
func (s *Service) ListScores(ctx context.Context, userID string) ([]*model.ScoreRecord, error) {
	if userID == "" {
		return nil, NewValidationError("userID", "user ID is required")
	}
	return s.store.Scores().List(ctx, userID)
}

// CreateStudyRequest sends a collaboration invitation to another user.
func (s *Service) CreateStudyRequest(ctx context.Context, req CreateStudyRequestRequest) (*model.StudyRequest, error) {
	if req.FromUser == "" || req.ToUser == "" {
		return nil, NewValidationError("toUser", "both users are required")
	}
	if req.FromUser == req.ToUser {
		return nil, NewValidationError("toUser", "cannot send a study request to yourself")
	}
	r, err := s.store.StudyRequests().Create(ctx, &model.StudyRequest{
		RequestID: uuid.New().String(),
		FromUser:  req.FromUser,
		ToUser:    req.ToUser,
		Subject:   req.Subject,
		Message:   req.Message,
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, NewNotFoundError("toUser", "user not found")
		}
		return nil, err
	}
	return r, nil
}

// ListStudyRequests lists requests sent to or from a user, newest first.
func (s *Service) ListStudyRequests(ctx context.Context, userID string) ([]*model.StudyRequest, error) {
	if userID == "" {
		return nil, NewValidationError("userID", "user ID is required")
	}
	return s.store.StudyRequests().ListForUser(ctx, userID)
}

// UpdateStudyRequestStatus accepts or declines a request.
func (s *Service) UpdateStudyRequestStatus(ctx context.Context, requestID, status string) (*model.StudyRequest, error) {
	if requestID == "" {
		return nil, NewValidationError("requestID", "request ID is required")
	}
	if status != "accepted" && status != "declined" && status != "pending" {
		return nil, NewValidationError("status", "status must be pending, accepted or declined")
	}
	r, err := s.store.StudyRequests().SetStatus(ctx, requestID, status)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, NewNotFoundError("requestID", "study request not found")
		}
		return nil, err
	}
	return r, nil
}

func validWeekday(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// deriveUserIDFromEmail creates a userId from an email address using the
// character set [a-z0-9_] and max length 20.
func deriveUserIDFromEmail(email string) string {
	local := email
	if i := strings.IndexByte(email, '@'); i >= 0 {
		local = email[:i]
	}
	local = strings.ToLower(local)
	b := make([]byte, 0, len(local))
	for i := 0; i < len(local) && len(b) < 20; i++ {
		c := local[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			b = append(b, c)
		} else {
			b = append(b, '_')
		}
	}
	id := strings.Trim(string(b), "_")
	if id == "" {
		return "u_" + uuid.New().String()[:8]
	}
	return id
}
