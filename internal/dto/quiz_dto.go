package dto

import (
	"strconv"
	"time"

	"github.com/dioarya/classpulse-api/internal/models"
)

// QuizChoicePayload is one labeled option supplied when creating a question.
type QuizChoicePayload struct {
	Label string `json:"label" validate:"required,oneof=A B C D"`
	Text  string `json:"text" validate:"required"`
}

// QuizQuestionPayload is a question definition within a quiz create request.
type QuizQuestionPayload struct {
	Text          string              `json:"text" validate:"required"`
	CorrectChoice string              `json:"correct_choice" validate:"required,oneof=A B C D"`
	Choices       []QuizChoicePayload `json:"choices" validate:"required,len=4,dive"`
}

// QuizCreateRequest describes the payload for creating a quiz with its
// questions and choices in one shot.
type QuizCreateRequest struct {
	Title           string                `json:"title" validate:"required,max=255"`
	Description     string                `json:"description"`
	StartTime       *string               `json:"start_time" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime         *string               `json:"end_time" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	DurationMinutes *int                  `json:"duration_minutes" validate:"omitempty,min=1"`
	Questions       []QuizQuestionPayload `json:"questions" validate:"required,min=1,dive"`
}

// QuizSubmitRequest carries a student's answers keyed by question id.
type QuizSubmitRequest struct {
	Answers map[uint]string `json:"answers" validate:"required"`
}

// QuizChoiceResponse serializes a choice.
type QuizChoiceResponse struct {
	ID    uint   `json:"id"`
	Label string `json:"label"`
	Text  string `json:"text"`
}

// QuizQuestionResponse serializes a question with its choices.
type QuizQuestionResponse struct {
	ID            uint                 `json:"id"`
	Text          string               `json:"text"`
	CorrectChoice string               `json:"correct_choice"`
	Choices       []QuizChoiceResponse `json:"choices"`
}

// QuizSubmissionResponse serializes a finished attempt including the
// submitter identity.
type QuizSubmissionResponse struct {
	ID        uint              `json:"id"`
	QuizID    uint              `json:"quiz_id"`
	StudentID uint              `json:"student_id"`
	Student   *MemberResponse   `json:"student,omitempty"`
	Answers   map[string]string `json:"answers"`
	Score     int               `json:"score"`
	Status    string            `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}

// QuizResponse is the full quiz aggregate returned to clients.
type QuizResponse struct {
	ID              uint                     `json:"id"`
	ClassID         uint                     `json:"class_id"`
	Title           string                   `json:"title"`
	Description     string                   `json:"description"`
	StartTime       *time.Time               `json:"start_time,omitempty"`
	EndTime         *time.Time               `json:"end_time,omitempty"`
	DurationMinutes *int                     `json:"duration_minutes,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
	Questions       []QuizQuestionResponse   `json:"questions"`
	Submissions     []QuizSubmissionResponse `json:"submissions"`
}

// QuizSubmitResponse confirms a scored submission. The score is returned
// immediately on submit.
type QuizSubmitResponse struct {
	SubmissionID uint   `json:"submission_id"`
	QuizID       uint   `json:"quiz_id"`
	Score        int    `json:"score"`
	Total        int    `json:"total"`
	Status       string `json:"status"`
}

// NewQuizResponse converts a quiz aggregate into a DTO.
func NewQuizResponse(model models.Quiz) QuizResponse {
	questions := make([]QuizQuestionResponse, 0, len(model.Questions))
	for _, question := range model.Questions {
		choices := make([]QuizChoiceResponse, 0, len(question.Choices))
		for _, choice := range question.Choices {
			choices = append(choices, QuizChoiceResponse{
				ID:    choice.ID,
				Label: choice.Label,
				Text:  choice.Text,
			})
		}
		questions = append(questions, QuizQuestionResponse{
			ID:            question.ID,
			Text:          question.Text,
			CorrectChoice: question.CorrectChoice,
			Choices:       choices,
		})
	}

	submissions := make([]QuizSubmissionResponse, 0, len(model.Submissions))
	for _, submission := range model.Submissions {
		submissions = append(submissions, NewQuizSubmissionResponse(submission))
	}

	return QuizResponse{
		ID:              model.ID,
		ClassID:         model.ClassID,
		Title:           model.Title,
		Description:     model.Description,
		StartTime:       model.StartTime,
		EndTime:         model.EndTime,
		DurationMinutes: model.DurationMinutes,
		CreatedAt:       model.CreatedAt,
		Questions:       questions,
		Submissions:     submissions,
	}
}

// NewQuizResponseSlice converts a slice of quizzes into DTOs.
func NewQuizResponseSlice(quizzes []models.Quiz) []QuizResponse {
	out := make([]QuizResponse, 0, len(quizzes))
	for _, quiz := range quizzes {
		out = append(out, NewQuizResponse(quiz))
	}
	return out
}

// NewQuizSubmissionResponse converts a submission model into a DTO.
func NewQuizSubmissionResponse(model models.QuizSubmission) QuizSubmissionResponse {
	answers := make(map[string]string, len(model.Answers))
	for questionID, answer := range model.Answers {
		if label, ok := answer.(string); ok {
			answers[questionID] = label
		}
	}

	response := QuizSubmissionResponse{
		ID:        model.ID,
		QuizID:    model.QuizID,
		StudentID: model.StudentID,
		Answers:   answers,
		Score:     model.Score,
		Status:    model.Status,
		CreatedAt: model.CreatedAt,
	}
	if model.Student.ID != 0 {
		student := NewMemberResponse(model.Student)
		response.Student = &student
	}
	return response
}

// AnswerKey renders a question id the way answers are keyed in storage.
func AnswerKey(questionID uint) string {
	return strconv.FormatUint(uint64(questionID), 10)
}
