package store

import (
	"context"

	"unitime-backend/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (postgres, sqlite).
type Store interface {
	Users() Users
	Activities() Activities
	Assignments() Assignments
	Scores() Scores
	StudyRequests() StudyRequests
}

type Users interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	Get(ctx context.Context, userID string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	Delete(ctx context.Context, userID string) error
}

type Activities interface {
	Create(ctx context.Context, a *model.ScheduledActivity) (*model.ScheduledActivity, error)
	List(ctx context.Context, userID string) ([]*model.ScheduledActivity, error)
	SetCancelled(ctx context.Context, userID, activityID string, cancelled bool) (*model.ScheduledActivity, error)
	Delete(ctx context.Context, userID, activityID string) error
}

type Assignments interface {
	Create(ctx context.Context, a *model.AssignmentRecord) (*model.AssignmentRecord, error)
	List(ctx context.Context, userID string) ([]*model.AssignmentRecord, error)
	SetCompleted(ctx context.Context, userID, assignmentID string, completed bool) (*model.AssignmentRecord, error)
	Delete(ctx context.Context, userID, assignmentID string) error
}

type Scores interface {
	Create(ctx context.Context, s *model.ScoreRecord) (*model.ScoreRecord, error)
	List(ctx context.Context, userID string) ([]*model.ScoreRecord, error)
	Delete(ctx context.Context, userID, scoreID string) error
}

type StudyRequests interface {
	Create(ctx context.Context, r *model.StudyRequest) (*model.StudyRequest, error)
	ListForUser(ctx context.Context, userID string) ([]*model.StudyRequest, error)
	SetStatus(ctx context.Context, requestID, status string) (*model.StudyRequest, error)
}
