package dto

import (
	"time"

	"github.com/dioarya/classpulse-api/internal/models"
)

// AssignmentCreateRequest describes the payload for posting an assignment.
// The attachment arrives as a multipart file handled by the upload
// collaborator.
type AssignmentCreateRequest struct {
	Title       string `form:"title" json:"title" validate:"required,max=255"`
	Description string `form:"description" json:"description"`
	DueDate     string `form:"due_date" json:"due_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

// GradeRequest records or replaces the grade and feedback on a submission.
type GradeRequest struct {
	Grade    *float64 `json:"grade" validate:"required,min=0,max=100"`
	Feedback string   `json:"feedback" validate:"max=5000"`
}

// AssignmentSubmissionResponse serializes a student submission.
type AssignmentSubmissionResponse struct {
	ID           uint            `json:"id"`
	AssignmentID uint            `json:"assignment_id"`
	StudentID    uint            `json:"student_id"`
	Student      *MemberResponse `json:"student,omitempty"`
	FileURL      string          `json:"file_url"`
	Grade        *float64        `json:"grade"`
	Feedback     string          `json:"feedback"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// AssignmentResponse is the aggregate returned to clients. Status carries
// the derived classification; it is never persisted.
type AssignmentResponse struct {
	ID            uint                           `json:"id"`
	ClassID       uint                           `json:"class_id"`
	Title         string                         `json:"title"`
	Description   string                         `json:"description"`
	DueDate       time.Time                      `json:"due_date"`
	AttachmentURL string                         `json:"attachment_url"`
	Status        string                         `json:"status"`
	CreatedAt     time.Time                      `json:"created_at"`
	UpdatedAt     time.Time                      `json:"updated_at"`
	Submissions   []AssignmentSubmissionResponse `json:"submissions"`
}

// NewAssignmentResponse converts a model into a DTO, classifying it against
// the supplied reference time.
func NewAssignmentResponse(model models.Assignment, now time.Time) AssignmentResponse {
	submissions := make([]AssignmentSubmissionResponse, 0, len(model.Submissions))
	for _, submission := range model.Submissions {
		submissions = append(submissions, NewAssignmentSubmissionResponse(submission))
	}

	return AssignmentResponse{
		ID:            model.ID,
		ClassID:       model.ClassID,
		Title:         model.Title,
		Description:   model.Description,
		DueDate:       model.DueDate,
		AttachmentURL: model.AttachmentURL,
		Status:        model.Classify(len(model.Submissions), now),
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
		Submissions:   submissions,
	}
}

// NewAssignmentResponseSlice converts a slice of assignments into DTOs.
func NewAssignmentResponseSlice(assignments []models.Assignment, now time.Time) []AssignmentResponse {
	out := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		out = append(out, NewAssignmentResponse(assignment, now))
	}
	return out
}

// NewAssignmentSubmissionResponse converts a submission model into a DTO.
func NewAssignmentSubmissionResponse(model models.AssignmentSubmission) AssignmentSubmissionResponse {
	response := AssignmentSubmissionResponse{
		ID:           model.ID,
		AssignmentID: model.AssignmentID,
		StudentID:    model.StudentID,
		FileURL:      model.FileURL,
		Grade:        model.Grade,
		Feedback:     model.Feedback,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
	if model.Student.ID != 0 {
		student := NewMemberResponse(model.Student)
		response.Student = &student
	}
	return response
}
