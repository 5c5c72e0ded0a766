package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/dioarya/classpulse-api/internal/dto"
	"github.com/dioarya/classpulse-api/internal/models"
	"github.com/dioarya/classpulse-api/internal/observability"
	"github.com/dioarya/classpulse-api/internal/repository"
)

// ErrQuizNotFound indicates the requested quiz does not exist.
var ErrQuizNotFound = errors.New("quiz not found")

// ErrQuizAlreadySubmitted indicates the student already finished this quiz.
// The stored score never changes once this is returned.
var ErrQuizAlreadySubmitted = errors.New("quiz already submitted")

// ErrInvalidQuizPayload wraps semantic validation failures in quiz creation,
// such as duplicate choice labels or an inverted time window.
var ErrInvalidQuizPayload = errors.New("invalid quiz payload")

// QuizService exposes quiz definition, submission intake and auto-scoring.
type QuizService interface {
	Create(ctx context.Context, classID uint, payload dto.QuizCreateRequest) (dto.QuizResponse, error)
	Submit(ctx context.Context, quizID, studentID uint, payload dto.QuizSubmitRequest) (dto.QuizSubmitResponse, error)
	ListByClass(ctx context.Context, classID uint) ([]dto.QuizResponse, error)
}

type quizService struct {
	repo      repository.QuizRepository
	cache     *redis.Client
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewQuizService constructs a quiz service. The cache is optional; listing
// falls back to the repository when it is nil.
func NewQuizService(repo repository.QuizRepository, cache *redis.Client, cacheTTL time.Duration, validate *validator.Validate, logger zerolog.Logger) QuizService {
	return &quizService{
		repo:      repo,
		cache:     cache,
		cacheTTL:  cacheTTL,
		validator: validate,
		logger:    logger.With().Str("component", "quiz_service").Logger(),
		tracer:    otel.Tracer("github.com/dioarya/classpulse-api/internal/service/quiz"),
		now:       time.Now,
	}
}

// Create persists a quiz together with its questions and choices as one
// atomic unit. Validation failures leave nothing behind.
func (s *quizService) Create(ctx context.Context, classID uint, payload dto.QuizCreateRequest) (dto.QuizResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuizResponse{}, err
	}

	startTime, endTime, err := parseQuizWindow(payload.StartTime, payload.EndTime)
	if err != nil {
		return dto.QuizResponse{}, fmt.Errorf("%w: %v", ErrInvalidQuizPayload, err)
	}

	questions := make([]models.Question, 0, len(payload.Questions))
	for i, questionPayload := range payload.Questions {
		question, err := buildQuestion(questionPayload)
		if err != nil {
			return dto.QuizResponse{}, fmt.Errorf("%w: question %d: %v", ErrInvalidQuizPayload, i+1, err)
		}
		questions = append(questions, question)
	}

	quiz := models.Quiz{
		ClassID:         classID,
		Title:           payload.Title,
		Description:     payload.Description,
		StartTime:       startTime,
		EndTime:         endTime,
		DurationMinutes: payload.DurationMinutes,
		Questions:       questions,
	}

	if err := s.repo.Create(ctx, &quiz); err != nil {
		return dto.QuizResponse{}, err
	}

	s.invalidateCache(ctx, classID)
	s.logger.Info().Uint("quiz_id", quiz.ID).Uint("class_id", classID).Int("questions", len(quiz.Questions)).Msg("quiz created")

	return dto.NewQuizResponse(quiz), nil
}

// Submit scores the answers and records a finished attempt. A missing or
// invalid answer counts as incorrect, never as an error. The insert itself
// enforces "at most one finished attempt per (quiz, student)".
func (s *quizService) Submit(ctx context.Context, quizID, studentID uint, payload dto.QuizSubmitRequest) (dto.QuizSubmitResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuizSubmitResponse{}, err
	}

	quiz, err := s.repo.GetByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuizSubmitResponse{}, ErrQuizNotFound
		}
		return dto.QuizSubmitResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "quiz.submit", trace.WithAttributes(
		attribute.Int64("quiz.id", int64(quizID)),
		attribute.Int64("quiz.student_id", int64(studentID)),
	))
	defer span.End()

	answers := make(datatypes.JSONMap, len(payload.Answers))
	score := 0
	for _, question := range quiz.Questions {
		answer, ok := payload.Answers[question.ID]
		if !ok {
			continue
		}
		label := strings.ToUpper(strings.TrimSpace(answer))
		answers[dto.AnswerKey(question.ID)] = label
		if label == question.CorrectChoice {
			score++
		}
	}

	submission := models.QuizSubmission{
		QuizID:    quizID,
		StudentID: studentID,
		Answers:   answers,
		Score:     score,
		Status:    models.QuizSubmissionStatusFinished,
	}

	if err := s.repo.CreateSubmission(spanCtx, &submission); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			observability.QuizSubmissions().WithLabelValues("duplicate").Inc()
			return dto.QuizSubmitResponse{}, ErrQuizAlreadySubmitted
		}
		span.RecordError(err)
		return dto.QuizSubmitResponse{}, err
	}

	observability.QuizSubmissions().WithLabelValues("accepted").Inc()
	s.invalidateCache(spanCtx, quiz.ClassID)
	s.logger.Info().Uint("quiz_id", quizID).Uint("student_id", studentID).Int("score", score).Msg("quiz submitted")

	return dto.QuizSubmitResponse{
		SubmissionID: submission.ID,
		QuizID:       quizID,
		Score:        score,
		Total:        len(quiz.Questions),
		Status:       submission.Status,
	}, nil
}

// ListByClass serves the full aggregates newest first. Clients poll this
// roughly once per second, so results flow through a short-lived cache.
func (s *quizService) ListByClass(ctx context.Context, classID uint) ([]dto.QuizResponse, error) {
	cacheKey := quizCacheKey(classID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response []dto.QuizResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read quiz cache")
		}
	}

	quizzes, err := s.repo.ListByClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	response := dto.NewQuizResponseSlice(quizzes)

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store quiz cache")
			}
		}
	}

	return response, nil
}

func (s *quizService) invalidateCache(ctx context.Context, classID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, quizCacheKey(classID)).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("class_id", classID).Msg("failed to invalidate quiz cache")
	}
}

func quizCacheKey(classID uint) string {
	return fmt.Sprintf("quizzes:class:%d", classID)
}

// buildQuestion validates that the four choices cover the labels A-D exactly
// once each and that the correct choice is one of them.
func buildQuestion(payload dto.QuizQuestionPayload) (models.Question, error) {
	seen := make(map[string]bool, len(models.ChoiceLabels))
	choices := make([]models.Choice, 0, len(payload.Choices))
	for _, choicePayload := range payload.Choices {
		label := strings.ToUpper(strings.TrimSpace(choicePayload.Label))
		if seen[label] {
			return models.Question{}, fmt.Errorf("duplicate choice label %q", label)
		}
		seen[label] = true
		choices = append(choices, models.Choice{Label: label, Text: choicePayload.Text})
	}

	for _, label := range models.ChoiceLabels {
		if !seen[label] {
			return models.Question{}, fmt.Errorf("missing choice label %q", label)
		}
	}

	correct := strings.ToUpper(strings.TrimSpace(payload.CorrectChoice))
	if !seen[correct] {
		return models.Question{}, fmt.Errorf("correct choice %q is not among the choice labels", correct)
	}

	return models.Question{
		Text:          payload.Text,
		CorrectChoice: correct,
		Choices:       choices,
	}, nil
}

func parseQuizWindow(start, end *string) (*time.Time, *time.Time, error) {
	var startTime, endTime *time.Time

	if start != nil {
		parsed, err := time.Parse(time.RFC3339, *start)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid start time: %w", err)
		}
		startTime = &parsed
	}

	if end != nil {
		parsed, err := time.Parse(time.RFC3339, *end)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid end time: %w", err)
		}
		endTime = &parsed
	}

	if startTime != nil && endTime != nil && endTime.Before(*startTime) {
		return nil, nil, fmt.Errorf("end time must not precede start time")
	}

	return startTime, endTime, nil
}
