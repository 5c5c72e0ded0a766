package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/dioarya/classpulse-api/internal/dto"
	"github.com/dioarya/classpulse-api/internal/models"
	"github.com/dioarya/classpulse-api/internal/repository"
)

// ErrThreadNotFound indicates the referenced thread does not exist.
var ErrThreadNotFound = errors.New("thread not found")

// ErrEmptyMessage indicates a thread or reply message was empty, possibly
// after sanitization stripped all of its content.
var ErrEmptyMessage = errors.New("message must not be empty")

// DiscussionService exposes class discussion threads and replies.
type DiscussionService interface {
	CreateThread(ctx context.Context, classID, authorID uint, payload dto.ThreadCreateRequest) (dto.ThreadResponse, error)
	CreateReply(ctx context.Context, threadID, authorID uint, payload dto.ReplyCreateRequest) (dto.ReplyResponse, error)
	ListThreads(ctx context.Context, classID uint) ([]dto.ThreadResponse, error)
}

type discussionService struct {
	repo          repository.DiscussionRepository
	notifications NotificationPublisher
	validator     *validator.Validate
	logger        zerolog.Logger
	tracer        trace.Tracer
	sanitizer     *bluemonday.Policy
}

// NewDiscussionService constructs a discussion service.
func NewDiscussionService(repo repository.DiscussionRepository, notifications NotificationPublisher, validate *validator.Validate, logger zerolog.Logger) DiscussionService {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("br")

	return &discussionService{
		repo:          repo,
		notifications: notifications,
		validator:     validate,
		logger:        logger.With().Str("component", "discussion_service").Logger(),
		tracer:        otel.Tracer("github.com/dioarya/classpulse-api/internal/service/discussion"),
		sanitizer:     policy,
	}
}

func (s *discussionService) CreateThread(ctx context.Context, classID, authorID uint, payload dto.ThreadCreateRequest) (dto.ThreadResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ThreadResponse{}, err
	}

	message := strings.TrimSpace(s.sanitizer.Sanitize(payload.Message))
	if message == "" {
		return dto.ThreadResponse{}, ErrEmptyMessage
	}

	spanCtx, span := s.tracer.Start(ctx, "discussion.create_thread", trace.WithAttributes(
		attribute.Int64("discussion.class_id", int64(classID)),
		attribute.Int64("discussion.author_id", int64(authorID)),
	))
	defer span.End()

	thread := models.Thread{
		ClassID:  classID,
		AuthorID: authorID,
		Message:  message,
	}

	if err := s.repo.CreateThread(spanCtx, &thread); err != nil {
		span.RecordError(err)
		return dto.ThreadResponse{}, err
	}

	s.logger.Info().Uint("thread_id", thread.ID).Uint("class_id", classID).Msg("thread created")

	return dto.NewThreadResponse(thread), nil
}

func (s *discussionService) CreateReply(ctx context.Context, threadID, authorID uint, payload dto.ReplyCreateRequest) (dto.ReplyResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ReplyResponse{}, err
	}

	message := strings.TrimSpace(s.sanitizer.Sanitize(payload.Message))
	if message == "" {
		return dto.ReplyResponse{}, ErrEmptyMessage
	}

	thread, err := s.repo.GetThread(ctx, threadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ReplyResponse{}, ErrThreadNotFound
		}
		return dto.ReplyResponse{}, err
	}

	reply := models.Reply{
		ThreadID: threadID,
		AuthorID: authorID,
		Message:  message,
	}

	if err := s.repo.CreateReply(ctx, &reply); err != nil {
		return dto.ReplyResponse{}, err
	}

	s.notifyThreadAuthor(ctx, thread, reply)

	return dto.NewReplyResponse(reply), nil
}

// ListThreads returns threads newest first; replies inside each thread keep
// conversation order. Safe to poll at any frequency.
func (s *discussionService) ListThreads(ctx context.Context, classID uint) ([]dto.ThreadResponse, error) {
	threads, err := s.repo.ListThreadsByClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	return dto.NewThreadResponseSlice(threads), nil
}

func (s *discussionService) notifyThreadAuthor(ctx context.Context, thread models.Thread, reply models.Reply) {
	if s.notifications == nil || thread.AuthorID == reply.AuthorID {
		return
	}

	payload := dto.NotificationCreateRequest{
		UserID:  thread.AuthorID,
		Type:    "thread_reply",
		Message: fmt.Sprintf("New reply on your discussion post in class %d", thread.ClassID),
	}
	if _, err := s.notifications.Publish(ctx, payload); err != nil {
		s.logger.Warn().Err(err).Uint("thread_id", thread.ID).Msg("failed to publish reply notification")
	}
}
