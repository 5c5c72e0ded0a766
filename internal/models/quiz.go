package models

import (
	"time"

	"gorm.io/datatypes"
)

// Choice labels allowed on a question. Every question carries exactly one
// choice per label.
const (
	ChoiceLabelA = "A"
	ChoiceLabelB = "B"
	ChoiceLabelC = "C"
	ChoiceLabelD = "D"
)

// ChoiceLabels lists the labels a question must cover, in display order.
var ChoiceLabels = []string{ChoiceLabelA, ChoiceLabelB, ChoiceLabelC, ChoiceLabelD}

// Quiz is a timed multiple-choice quiz owned by a class.
type Quiz struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	ClassID         uint             `gorm:"index;not null" json:"class_id"`
	Title           string           `gorm:"size:255;not null" json:"title"`
	Description     string           `gorm:"type:text" json:"description"`
	StartTime       *time.Time       `json:"start_time"`
	EndTime         *time.Time       `json:"end_time"`
	DurationMinutes *int             `json:"duration_minutes"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	Questions       []Question       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"questions"`
	Submissions     []QuizSubmission `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"submissions"`
}

// Question is a single-answer prompt with four labeled choices.
type Question struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	QuizID        uint      `gorm:"index;not null" json:"quiz_id"`
	Text          string    `gorm:"type:text;not null" json:"text"`
	CorrectChoice string    `gorm:"size:1;not null" json:"correct_choice"`
	Choices       []Choice  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"choices"`
	CreatedAt     time.Time `json:"created_at"`
}

// Choice is one of the four labeled options of a question.
type Choice struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	QuestionID uint   `gorm:"index;not null" json:"question_id"`
	Label      string `gorm:"size:1;not null" json:"label"`
	Text       string `gorm:"type:text;not null" json:"text"`
}

// QuizSubmissionStatusFinished marks a scored, frozen attempt.
const QuizSubmissionStatusFinished = "finished"

// QuizSubmission is one student's finished attempt at a quiz. The composite
// unique index makes the insert the atomic "at most one per (quiz, student)"
// check; there is no separate existence query.
type QuizSubmission struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	QuizID    uint              `gorm:"not null;uniqueIndex:idx_quiz_submissions_once" json:"quiz_id"`
	StudentID uint              `gorm:"not null;uniqueIndex:idx_quiz_submissions_once" json:"student_id"`
	Answers   datatypes.JSONMap `gorm:"type:json" json:"answers"`
	Score     int               `gorm:"not null" json:"score"`
	Status    string            `gorm:"size:32;not null" json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	Student   Member            `gorm:"foreignKey:StudentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
}
