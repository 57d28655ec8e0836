package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Application statuses offered by the client form. Status is free-form, so
// interview-stage strings like "Interview - Onsite" are stored as given.
const (
	StatusApplied   = "Applied"
	StatusInterview = "Interview"
	StatusOffer     = "Offer"
	StatusRejected  = "Rejected"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// NewID returns a time-ordered UUID string used as primary key for every table.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

type EmailPreferences struct {
	ApplicationUpdates bool `json:"applicationUpdates"`
	InterviewReminders bool `json:"interviewReminders"`
	MarketingEmails    bool `json:"marketingEmails"`
}

// DefaultEmailPreferences is what a fresh account starts with.
func DefaultEmailPreferences() EmailPreferences {
	return EmailPreferences{ApplicationUpdates: true, InterviewReminders: true}
}

type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name     string `gorm:"type:varchar(100)" json:"name"`
	Email    string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password string `gorm:"type:varchar(255);not null" json:"-"`
	Image    string `json:"image,omitempty"`

	EmailPreferences datatypes.JSONType[EmailPreferences] `json:"emailPreferences"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = NewID()
	}
	return nil
}

type Application struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Owner. Every read and write compares this to the caller.
	UserID string `gorm:"type:varchar(36);not null;index" json:"userId"`

	Company      string          `gorm:"not null" json:"company"`
	Position     string          `gorm:"not null" json:"position"`
	Status       string          `gorm:"not null;default:Applied;index" json:"status"`
	AppliedDate  datatypes.Date  `gorm:"not null;index" json:"appliedDate"`
	FollowUpDate *datatypes.Date `json:"followUpDate"`
	Notes        *string         `gorm:"type:text" json:"notes"`
	ResumeURL    *string         `json:"resumeUrl"`
}

func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = NewID()
	}
	return nil
}

type LeetCodeProblem struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Natural key used by the catalog seed.
	Title       string     `gorm:"uniqueIndex;not null" json:"title"`
	Difficulty  Difficulty `gorm:"type:varchar(10);not null" json:"difficulty"`
	Category    string     `gorm:"not null" json:"category"`
	Link        string     `gorm:"not null" json:"link"`
	Description *string    `gorm:"type:text" json:"description"`
	Solution    *string    `gorm:"type:text" json:"solution"`
}

func (LeetCodeProblem) TableName() string {
	return "leetcode_problems"
}

func (p *LeetCodeProblem) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID()
	}
	return nil
}

// UserProblemProgress is unique per (user, problem). A missing row reads as
// both flags false.
type UserProblemProgress struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UserID     string `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_problem" json:"userId"`
	ProblemID  string `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_problem;index" json:"problemId"`
	Solved     bool   `gorm:"not null;default:false" json:"solved"`
	Bookmarked bool   `gorm:"not null;default:false" json:"bookmarked"`
}

func (UserProblemProgress) TableName() string {
	return "user_problem_progress"
}

func (p *UserProblemProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID()
	}
	return nil
}

// ProblemWithProgress is a catalog row joined with the caller's flags.
type ProblemWithProgress struct {
	LeetCodeProblem
	Solved     bool `json:"solved"`
	Bookmarked bool `json:"bookmarked"`
}

// ReminderLog marks a follow-up reminder as sent, once per application and
// follow-up date.
type ReminderLog struct {
	ApplicationID string         `gorm:"primaryKey;type:varchar(36)"`
	FollowUpDate  datatypes.Date `gorm:"primaryKey"`
	UserID        string         `gorm:"type:varchar(36);not null;index"`
	CreatedAt     time.Time
}
