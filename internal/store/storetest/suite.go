package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"unitime-backend/internal/model"
	"unitime-backend/internal/store"
)

// Run exercises a minimal compliance suite against a store.Store implementation.
// Implementations should provide a clean, isolated store and return it from makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	userID := "u-" + uuid.New().String()
	email := userID + "@example.test"

	// Users
	u := &model.User{UserID: userID, Email: email, Role: "student"}
	if _, err := s.Users().Create(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if got, err := s.Users().Get(ctx, userID); err != nil || got == nil || got.Email != email {
		t.Fatalf("GetUser: got=%v err=%v", got, err)
	}
	if _, err := s.Users().Create(ctx, u); !errors.Is(err, model.ErrConflict) {
		t.Fatalf("duplicate CreateUser: want ErrConflict, got %v", err)
	}
	if lst, err := s.Users().List(ctx); err != nil || len(lst) == 0 {
		t.Fatalf("ListUsers: n=%d err=%v", len(lst), err)
	}
	if _, err := s.Users().Get(ctx, "nope-"+userID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetUser missing: want ErrNotFound, got %v", err)
	}

	// Activities
	act := &model.ScheduledActivity{
		ActivityID: uuid.New().String(),
		UserID:     userID,
		Subject:    "Math",
		CourseCode: "29242201",
		Day:        "Monday",
		StartTime:  "9:00 AM",
		Room:       "R1",
	}
	if _, err := s.Activities().Create(ctx, act); err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}
	if lst, err := s.Activities().List(ctx, userID); err != nil || len(lst) != 1 || lst[0].Subject != "Math" || lst[0].CourseCode != "29242201" {
		t.Fatalf("ListActivities: n=%d err=%v", len(lst), err)
	}
	if got, err := s.Activities().SetCancelled(ctx, userID, act.ActivityID, true); err != nil || !got.IsCancelled {
		t.Fatalf("SetCancelled: got=%v err=%v", got, err)
	}
	if _, err := s.Activities().SetCancelled(ctx, userID, "missing", true); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("SetCancelled missing: want ErrNotFound, got %v", err)
	}

	// Assignments
	due := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)
	asg := &model.AssignmentRecord{
		AssignmentID: uuid.New().String(),
		UserID:       userID,
		Subject:      "Math",
		Title:        "Problem set 3",
		DueDate:      &due,
	}
	if _, err := s.Assignments().Create(ctx, asg); err != nil {
		t.Fatalf("CreateAssignment: %v", err)
	}
	lst, err := s.Assignments().List(ctx, userID)
	if err != nil || len(lst) != 1 {
		t.Fatalf("ListAssignments: n=%d err=%v", len(lst), err)
	}
	if lst[0].DueDate == nil || !lst[0].DueDate.Equal(due) {
		t.Fatalf("ListAssignments: due date %v, want %v", lst[0].DueDate, due)
	}
	if got, err := s.Assignments().SetCompleted(ctx, userID, asg.AssignmentID, true); err != nil || !got.Completed {
		t.Fatalf("SetCompleted: got=%v err=%v", got, err)
	}

	// Scores
	sc := &model.ScoreRecord{
		ScoreID: uuid.New().String(),
		UserID:  userID,
		Subject: "Math",
		Topic:   "Calculus",
		Score:   42,
		Date:    time.Now().UTC().Truncate(time.Second),
	}
	if created, err := s.Scores().Create(ctx, sc); err != nil || created.MaxScore != 100 {
		t.Fatalf("CreateScore: got=%v err=%v (max score should default to 100)", created, err)
	}
	if lst, err := s.Scores().List(ctx, userID); err != nil || len(lst) != 1 || lst[0].Score != 42 {
		t.Fatalf("ListScores: n=%d err=%v", len(lst), err)
	}

	// Study requests (need a second user)
	otherID := "u-" + uuid.New().String()
	if _, err := s.Users().Create(ctx, &model.User{UserID: otherID, Email: otherID + "@example.test", Role: "student"}); err != nil {
		t.Fatalf("CreateUser other: %v", err)
	}
	req := &model.StudyRequest{
		RequestID: uuid.New().String(),
		FromUser:  userID,
		ToUser:    otherID,
		Subject:   "Math",
		Message:   "revision at 2?",
	}
	if created, err := s.StudyRequests().Create(ctx, req); err != nil || created.Status != "pending" {
		t.Fatalf("CreateStudyRequest: got=%v err=%v", created, err)
	}
	if lst, err := s.StudyRequests().ListForUser(ctx, otherID); err != nil || len(lst) != 1 {
		t.Fatalf("ListStudyRequests: n=%d err=%v", len(lst), err)
	}
	if got, err := s.StudyRequests().SetStatus(ctx, req.RequestID, "accepted"); err != nil || got.Status != "accepted" {
		t.Fatalf("SetStatus: got=%v err=%v", got, err)
	}

	// Deletes
	if err := s.Scores().Delete(ctx, userID, sc.ScoreID); err != nil {
		t.Fatalf("DeleteScore: %v", err)
	}
	if err := s.Assignments().Delete(ctx, userID, asg.AssignmentID); err != nil {
		t.Fatalf("DeleteAssignment: %v", err)
	}
	if err := s.Activities().Delete(ctx, userID, act.ActivityID); err != nil {
		t.Fatalf("DeleteActivity: %v", err)
	}
	if err := s.Users().Delete(ctx, userID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if err := s.Users().Delete(ctx, userID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("DeleteUser twice: want ErrNotFound, got %v", err)
	}
}
