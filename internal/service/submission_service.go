package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/dioarya/classpulse-api/internal/dto"
	"github.com/dioarya/classpulse-api/internal/models"
	"github.com/dioarya/classpulse-api/internal/repository"
)

// ErrSubmissionNotFound indicates a submission could not be found.
var ErrSubmissionNotFound = errors.New("submission not found")

// SubmissionService handles assignment submission intake and grading.
type SubmissionService interface {
	Create(ctx context.Context, assignmentID, studentID uint, file *multipart.FileHeader) (dto.AssignmentSubmissionResponse, error)
	RecordGrade(ctx context.Context, submissionID uint, payload dto.GradeRequest) (dto.AssignmentSubmissionResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	assignments repository.AssignmentRepository
	validator   *validator.Validate
	uploader    FileUploader
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(subRepo repository.SubmissionRepository, assignmentRepo repository.AssignmentRepository, validate *validator.Validate, uploader FileUploader, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: subRepo,
		assignments: assignmentRepo,
		validator:   validate,
		uploader:    uploader,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

// Create records a student submission. Late submissions are accepted: a
// submission after the due date classifies the assignment as completed.
func (s *submissionService) Create(ctx context.Context, assignmentID, studentID uint, file *multipart.FileHeader) (dto.AssignmentSubmissionResponse, error) {
	if file == nil {
		return dto.AssignmentSubmissionResponse{}, fmt.Errorf("submission file is required")
	}

	if _, err := s.assignments.GetByID(ctx, assignmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentSubmissionResponse{}, ErrAssignmentNotFound
		}
		return dto.AssignmentSubmissionResponse{}, err
	}

	if err := validateFileType(file); err != nil {
		return dto.AssignmentSubmissionResponse{}, err
	}

	reader, err := file.Open()
	if err != nil {
		return dto.AssignmentSubmissionResponse{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	fileURL, err := s.uploader.Upload(ctx, file.Filename, reader)
	if err != nil {
		return dto.AssignmentSubmissionResponse{}, fmt.Errorf("failed to upload file: %w", err)
	}

	submission := models.AssignmentSubmission{
		AssignmentID: assignmentID,
		StudentID:    studentID,
		FileURL:      fileURL,
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		return dto.AssignmentSubmissionResponse{}, err
	}

	// Reload with the student association
	created, err := s.submissions.GetByID(ctx, submission.ID)
	if err != nil {
		return dto.AssignmentSubmissionResponse{}, err
	}

	s.logger.Info().Uint("submission_id", created.ID).Uint("assignment_id", assignmentID).Msg("submission created")

	return dto.NewAssignmentSubmissionResponse(created), nil
}

// RecordGrade upserts grade and feedback on an existing submission. Calls
// are idempotent and concurrent edits resolve last-writer-wins.
func (s *submissionService) RecordGrade(ctx context.Context, submissionID uint, payload dto.GradeRequest) (dto.AssignmentSubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentSubmissionResponse{}, err
	}

	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentSubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.AssignmentSubmissionResponse{}, err
	}

	submission.Grade = payload.Grade
	submission.Feedback = payload.Feedback

	if err := s.submissions.Update(ctx, &submission); err != nil {
		return dto.AssignmentSubmissionResponse{}, err
	}

	s.logger.Info().Uint("submission_id", submission.ID).Msg("grade recorded")

	return dto.NewAssignmentSubmissionResponse(submission), nil
}

func validateFileType(file *multipart.FileHeader) error {
	reader, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	mime, err := mimetype.DetectReader(reader)
	if err != nil {
		return fmt.Errorf("failed to detect file type: %w", err)
	}

	allowed := []string{
		"application/pdf",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.openxmlformats-officedocument.presentationml.presentation",
		"application/zip",
		"text/plain",
	}
	for _, a := range allowed {
		if mime.Is(a) {
			return nil
		}
	}

	return fmt.Errorf("unsupported file type: %s", mime.String())
}
