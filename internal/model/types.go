package model

import "time"

// User is an account that owns a timetable and academic records.
type User struct {
	UserID      string    `json:"userId"`
	Email       string    `json:"email"`
	DisplayName *string   `json:"displayName,omitempty"`
	Role        string    `json:"role"`
	PhotoURL    *string   `json:"photoUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ScheduledActivity is one recurring timetable entry. StartTime is a 12-hour
// clock string ("10:00 AM"); Day is one of the seven canonical weekday names,
// matched by exact equality.
type ScheduledActivity struct {
	ActivityID  string    `json:"activityId"`
	UserID      string    `json:"userId"`
	Subject     string    `json:"subject"`
	CourseCode  string    `json:"courseCode,omitempty"`
	Day         string    `json:"day"`
	StartTime   string    `json:"startTime"`
	Room        string    `json:"room,omitempty"`
	IsCancelled bool      `json:"isCancelled"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AssignmentRecord tracks one piece of assigned work. DueDate may be absent;
// overdue/pending classification then falls back to Status.
type AssignmentRecord struct {
	AssignmentID string     `json:"assignmentId"`
	UserID       string     `json:"userId"`
	Subject      string     `json:"subject"`
	Title        string     `json:"title,omitempty"`
	DueDate      *time.Time `json:"dueDate,omitempty"`
	Completed    bool       `json:"completed"`
	Status       string     `json:"status,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// ScoreRecord is one quiz or test result. MaxScore defaults to 100 when zero.
// Out-of-range ratios are not rejected; the analyzer consumes them as-is.
type ScoreRecord struct {
	ScoreID   string    `json:"scoreId"`
	UserID    string    `json:"userId"`
	Subject   string    `json:"subject"`
	Topic     string    `json:"topic,omitempty"`
	Score     float64   `json:"score"`
	MaxScore  float64   `json:"maxScore"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
}

// StudyRequest is a collaboration invitation from one user to another.
type StudyRequest struct {
	RequestID string    `json:"requestId"`
	FromUser  string    `json:"fromUser"`
	ToUser    string    `json:"toUser"`
	Subject   string    `json:"subject,omitempty"`
	Message   string    `json:"message,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// SlotKind distinguishes how a free-time slot came to exist.
type SlotKind string

const (
	SlotGap       SlotKind = "gap"
	SlotCancelled SlotKind = "cancelled"
)

// SlotContext carries the academic surroundings of a free-time slot.
type SlotContext struct {
	Location         string `json:"location"`
	PreviousSubject  string `json:"previousSubject"`
	NextSubject      string `json:"nextSubject"`
	DayWorkloadLevel string `json:"dayWorkloadLevel"`
	PreviousRoom     string `json:"previousRoom,omitempty"`
	NextRoom         string `json:"nextRoom,omitempty"`
	CancelledSubject string `json:"cancelledSubject,omitempty"`
	OriginalRoom     string `json:"originalRoom,omitempty"`
}

// FreeTimeSlot is a derived open interval in a day's schedule. Computed fresh
// on every detection pass, never persisted.
type FreeTimeSlot struct {
	DurationMinutes int         `json:"freeTimeDuration"`
	Unit            string      `json:"unit"`
	StartTime       string      `json:"startTime"`
	EndTime         string      `json:"endTime"`
	Context         SlotContext `json:"context"`
	Kind            SlotKind    `json:"type"`
}

// GapKind names the category of an academic gap.
type GapKind string

const (
	GapLowScores          GapKind = "low_scores"
	GapOverdueAssignments GapKind = "overdue_assignments"
	GapPendingAssignments GapKind = "pending_assignments"
	GapWeakSubject        GapKind = "weak_subject"
)

// Severity is the binary high/medium classification attached to a gap.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
)

// AcademicGap is a derived, ranked indicator of an area needing attention.
type AcademicGap struct {
	Kind      GapKind  `json:"type"`
	Subject   string   `json:"subject,omitempty"`
	Severity  Severity `json:"severity"`
	AvgScore  string   `json:"avgScore,omitempty"`
	Count     int      `json:"count"`
	Details   []any    `json:"details,omitempty"`
	Insight   string   `json:"insight"`
	Priority  float64  `json:"priority"`
	LowScores int      `json:"lowScores,omitempty"`
}

// OverlapSlot records one pair of free-time slots whose start times fall
// within the peer-matching tolerance.
type OverlapSlot struct {
	StartTime       string      `json:"startTime"`
	DurationMinutes int         `json:"duration"`
	CurrentContext  SlotContext `json:"currentContext"`
	PartnerContext  SlotContext `json:"partnerContext"`
}

// CollaborationMode is a suggested way for two matched students to work together.
type CollaborationMode struct {
	Mode        string `json:"mode"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// PeerMatch ranks one candidate study partner.
type PeerMatch struct {
	UserID             string              `json:"userId"`
	UserName           string              `json:"userName"`
	UserEmail          string              `json:"userEmail"`
	OverlappingSlots   []OverlapSlot       `json:"overlappingSlots"`
	SubjectOverlap     []string            `json:"subjectOverlap"`
	AssignmentOverlap  []string            `json:"assignmentOverlap"`
	MatchScore         int                 `json:"matchScore"`
	AvailableNow       bool                `json:"availableNow"`
	CollaborationModes []CollaborationMode `json:"collaborationModes"`
}
