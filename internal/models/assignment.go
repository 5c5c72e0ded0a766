package models

import "time"

// Classification of an assignment relative to its deadline and submissions.
// Derived at read time, never stored.
const (
	AssignmentStatusOngoing   = "ongoing"
	AssignmentStatusPastDue   = "past_due"
	AssignmentStatusCompleted = "completed"
)

// Assignment is an instructor-posted task with a due date and an attached
// file reference resolved by the upload collaborator.
type Assignment struct {
	ID            uint                   `gorm:"primaryKey" json:"id"`
	ClassID       uint                   `gorm:"index;not null" json:"class_id"`
	Title         string                 `gorm:"size:255;not null" json:"title"`
	Description   string                 `gorm:"type:text" json:"description"`
	DueDate       time.Time              `gorm:"not null" json:"due_date"`
	AttachmentURL string                 `gorm:"size:512" json:"attachment_url"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
	Submissions   []AssignmentSubmission `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"submissions"`
}

// Classify derives the assignment state. Submission presence wins over the
// due date: a late submission still completes the assignment.
func (a Assignment) Classify(submissionCount int, now time.Time) string {
	if submissionCount > 0 {
		return AssignmentStatusCompleted
	}
	if now.After(a.DueDate) {
		return AssignmentStatusPastDue
	}
	return AssignmentStatusOngoing
}

// AssignmentSubmission is a student's response to an assignment. Grade and
// feedback are the only fields that remain mutable after creation.
type AssignmentSubmission struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AssignmentID uint      `gorm:"index;not null" json:"assignment_id"`
	StudentID    uint      `gorm:"index;not null" json:"student_id"`
	FileURL      string    `gorm:"size:512;not null" json:"file_url"`
	Grade        *float64  `json:"grade"`
	Feedback     string    `gorm:"type:text" json:"feedback"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Student      Member    `gorm:"foreignKey:StudentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
}

// IsGraded reports whether an instructor has recorded a grade.
func (s AssignmentSubmission) IsGraded() bool {
	return s.Grade != nil
}
