package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyMixed  Difficulty = "mixed"
)

// ContestStatus is always derived from the contest window and the clock.
// The persisted column is a display hint only.
type ContestStatus string

const (
	ContestUpcoming ContestStatus = "upcoming"
	ContestOngoing  ContestStatus = "ongoing"
	ContestEnded    ContestStatus = "ended"
)

type SubmissionStatus string

const (
	SubmissionAccepted            SubmissionStatus = "accepted"
	SubmissionWrongAnswer         SubmissionStatus = "wrong_answer"
	SubmissionRuntimeError        SubmissionStatus = "runtime_error"
	SubmissionTimeLimitExceeded   SubmissionStatus = "time_limit_exceeded"
	SubmissionMemoryLimitExceeded SubmissionStatus = "memory_limit_exceeded"
	SubmissionPending             SubmissionStatus = "pending"
)

// StringList is a helper type for storing an ordered list of ids as JSON text.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		*l = StringList{}
		return nil
	default:
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(data, (*[]string)(l))
}

type User struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Username     string `gorm:"uniqueIndex" json:"username"`
	PasswordHash string `json:"-"`
	Nickname     string `json:"nickname"`
	Role         Role   `gorm:"not null;default:user" json:"role"`
}

// Problem is the slice of the problem catalog the contest engine needs: identity and existence.
type Problem struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title      string     `json:"title"`
	Slug       string     `gorm:"uniqueIndex" json:"slug"`
	Difficulty Difficulty `json:"difficulty"`
}

type Contest struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Slug                string        `gorm:"uniqueIndex" json:"slug"`
	Title               string        `gorm:"not null" json:"title"`
	Description         string        `gorm:"type:text" json:"description"`
	CreatorID           string        `gorm:"index;not null" json:"creator_id"`
	StartTime           time.Time     `gorm:"index;not null" json:"start_time"`
	EndTime             time.Time     `gorm:"index;not null" json:"end_time"`
	Status              ContestStatus `gorm:"size:16" json:"status"`
	Difficulty          Difficulty    `gorm:"index;size:16" json:"difficulty"`
	ProblemIDs          StringList    `gorm:"type:text" json:"problem_ids"`
	TotalProblems       int           `json:"total_problems"`
	MaxParticipants     *int          `json:"max_participants"`
	CurrentParticipants int           `gorm:"not null;default:0" json:"current_participants"`
	Rules               string        `gorm:"type:text" json:"rules,omitempty"`
	Rewards             string        `gorm:"type:text" json:"rewards,omitempty"`
}

type ContestParticipation struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"updated_at"`

	ContestID string `gorm:"uniqueIndex:idx_contest_user;not null" json:"contest_id"`
	UserID    string `gorm:"uniqueIndex:idx_contest_user;index;not null" json:"user_id"`

	JoinedAt           time.Time `gorm:"not null" json:"joined_at"`
	Score              int       `gorm:"not null;default:0;check:score >= 0" json:"score"`
	Rank               int       `gorm:"-" json:"rank"`
	SolutionsSubmitted int       `gorm:"not null;default:0" json:"solutions_submitted"`
	TimeSpent          int64     `gorm:"not null;default:0" json:"time_spent"` // seconds from contest start
	TotalScore         int       `gorm:"not null;default:0" json:"total_score"`
}

// ContestSubmission is an immutable log entry; the participation is its rollup.
type ContestSubmission struct {
	ID string `gorm:"primaryKey" json:"id"`

	ContestID string `gorm:"index:idx_contest_user_sub;not null" json:"contest_id"`
	UserID    string `gorm:"index:idx_contest_user_sub;not null" json:"user_id"`
	ProblemID string `gorm:"index;not null" json:"problem_id"`

	Code            string           `gorm:"type:text" json:"code"`
	Language        string           `gorm:"size:32" json:"language"`
	Status          SubmissionStatus `gorm:"size:32;index" json:"status"`
	Score           int              `json:"score"`
	TestCasesPassed int              `json:"test_cases_passed"`
	TotalTestCases  int              `json:"total_test_cases"`
	ExecutionTimeMs int64            `json:"execution_time_ms"`
	MemoryUsedKB    int64            `json:"memory_used_kb"`
	SubmittedAt     time.Time        `gorm:"index;not null" json:"submitted_at"`
}

// All lists every model for migration.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Problem{},
		&Contest{},
		&ContestParticipation{},
		&ContestSubmission{},
	}
}
