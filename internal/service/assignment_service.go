package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/dioarya/classpulse-api/internal/dto"
	"github.com/dioarya/classpulse-api/internal/models"
	"github.com/dioarya/classpulse-api/internal/repository"
)

// ErrAssignmentNotFound indicates the requested assignment does not exist.
var ErrAssignmentNotFound = errors.New("assignment not found")

// FileUploader abstracts uploading binary data and returning a URL.
type FileUploader interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// MemberDirectory resolves the students of a class for notification fan-out.
type MemberDirectory interface {
	Students(ctx context.Context, classID uint) ([]models.Member, error)
}

// NotificationPublisher exposes the subset of the notification service that
// entity-creating services need.
type NotificationPublisher interface {
	Publish(ctx context.Context, payload dto.NotificationCreateRequest) (dto.NotificationResponse, error)
}

// AssignmentService exposes assignment definition and listing with derived
// classification.
type AssignmentService interface {
	Create(ctx context.Context, classID uint, payload dto.AssignmentCreateRequest, file *multipart.FileHeader) (dto.AssignmentResponse, error)
	ListByClass(ctx context.Context, classID uint) ([]dto.AssignmentResponse, error)
}

type assignmentService struct {
	repo          repository.AssignmentRepository
	directory     MemberDirectory
	notifications NotificationPublisher
	validator     *validator.Validate
	uploader      FileUploader
	logger        zerolog.Logger
	now           func() time.Time
}

// NewAssignmentService builds a new assignment service.
func NewAssignmentService(repo repository.AssignmentRepository, directory MemberDirectory, notifications NotificationPublisher, validate *validator.Validate, uploader FileUploader, logger zerolog.Logger) AssignmentService {
	return &assignmentService{
		repo:          repo,
		directory:     directory,
		notifications: notifications,
		validator:     validate,
		uploader:      uploader,
		logger:        logger.With().Str("component", "assignment_service").Logger(),
		now:           time.Now,
	}
}

func (s *assignmentService) Create(ctx context.Context, classID uint, payload dto.AssignmentCreateRequest, file *multipart.FileHeader) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	dueDate, err := time.Parse(time.RFC3339, payload.DueDate)
	if err != nil {
		return dto.AssignmentResponse{}, fmt.Errorf("invalid due date: %w", err)
	}

	if file == nil {
		return dto.AssignmentResponse{}, fmt.Errorf("assignment attachment is required")
	}

	attachmentURL, err := s.uploadFile(ctx, file)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment := models.Assignment{
		ClassID:       classID,
		Title:         payload.Title,
		Description:   payload.Description,
		DueDate:       dueDate,
		AttachmentURL: attachmentURL,
	}

	if err := s.repo.Create(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", assignment.ID).Uint("class_id", classID).Msg("assignment created")
	s.notifyClass(ctx, assignment)

	return dto.NewAssignmentResponse(assignment, s.now()), nil
}

// ListByClass returns assignments with nested submissions. Classification
// is computed here against the current time and never stored.
func (s *assignmentService) ListByClass(ctx context.Context, classID uint) ([]dto.AssignmentResponse, error) {
	assignments, err := s.repo.ListByClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	return dto.NewAssignmentResponseSlice(assignments, s.now()), nil
}

// notifyClass records one creation event per enrolled student. Fan-out
// failures are logged, not surfaced: the assignment itself is committed.
func (s *assignmentService) notifyClass(ctx context.Context, assignment models.Assignment) {
	if s.directory == nil || s.notifications == nil {
		return
	}

	students, err := s.directory.Students(ctx, assignment.ClassID)
	if err != nil {
		s.logger.Warn().Err(err).Uint("class_id", assignment.ClassID).Msg("failed to resolve class roster for notifications")
		return
	}

	for _, student := range students {
		payload := dto.NotificationCreateRequest{
			UserID:  student.ID,
			Type:    "assignment_created",
			Message: fmt.Sprintf("New assignment '%s' was posted", assignment.Title),
		}
		if _, err := s.notifications.Publish(ctx, payload); err != nil {
			s.logger.Warn().Err(err).Uint("student_id", student.ID).Msg("failed to publish assignment notification")
		}
	}
}

func (s *assignmentService) uploadFile(ctx context.Context, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()

	url, err := s.uploader.Upload(ctx, file.Filename, src)
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return url, nil
}
