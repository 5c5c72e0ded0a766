package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dioarya/classpulse-api/internal/dto"
	"github.com/dioarya/classpulse-api/internal/models"
)

type stubQuizRepo struct {
	quizzes     map[uint]models.Quiz
	submissions map[[2]uint]models.QuizSubmission
	listCalls   int
}

func newStubQuizRepo() *stubQuizRepo {
	return &stubQuizRepo{
		quizzes:     make(map[uint]models.Quiz),
		submissions: make(map[[2]uint]models.QuizSubmission),
	}
}

func (s *stubQuizRepo) ListByClass(ctx context.Context, classID uint) ([]models.Quiz, error) {
	s.listCalls++
	out := make([]models.Quiz, 0, len(s.quizzes))
	for _, quiz := range s.quizzes {
		if quiz.ClassID == classID {
			out = append(out, quiz)
		}
	}
	return out, nil
}

func (s *stubQuizRepo) GetByID(ctx context.Context, id uint) (models.Quiz, error) {
	quiz, ok := s.quizzes[id]
	if !ok {
		return models.Quiz{}, gorm.ErrRecordNotFound
	}
	return quiz, nil
}

func (s *stubQuizRepo) Create(ctx context.Context, quiz *models.Quiz) error {
	quiz.ID = uint(len(s.quizzes) + 1)
	s.quizzes[quiz.ID] = *quiz
	return nil
}

func (s *stubQuizRepo) CreateSubmission(ctx context.Context, submission *models.QuizSubmission) error {
	key := [2]uint{submission.QuizID, submission.StudentID}
	if _, exists := s.submissions[key]; exists {
		return gorm.ErrDuplicatedKey
	}
	submission.ID = uint(len(s.submissions) + 1)
	s.submissions[key] = *submission
	return nil
}

func newTestValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func scoredQuiz() models.Quiz {
	return models.Quiz{
		ID:      1,
		ClassID: 10,
		Title:   "Chapter 3 Review",
		Questions: []models.Question{
			{ID: 1, QuizID: 1, Text: "2+2?", CorrectChoice: "A"},
			{ID: 2, QuizID: 1, Text: "3+3?", CorrectChoice: "B"},
		},
	}
}

func validQuizPayload() dto.QuizCreateRequest {
	return dto.QuizCreateRequest{
		Title: "Chapter 3 Review",
		Questions: []dto.QuizQuestionPayload{
			{
				Text:          "2+2?",
				CorrectChoice: "B",
				Choices: []dto.QuizChoicePayload{
					{Label: "A", Text: "3"},
					{Label: "B", Text: "4"},
					{Label: "C", Text: "5"},
					{Label: "D", Text: "6"},
				},
			},
		},
	}
}

func TestQuizServiceSubmitScoresAnswers(t *testing.T) {
	repo := newStubQuizRepo()
	repo.quizzes[1] = scoredQuiz()
	svc := NewQuizService(repo, nil, time.Second, newTestValidator(), zerolog.Nop())

	result, err := svc.Submit(context.Background(), 1, 42, dto.QuizSubmitRequest{
		Answers: map[uint]string{1: " a ", 2: "C"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.Score)
	require.Equal(t, 2, result.Total)
	require.Equal(t, models.QuizSubmissionStatusFinished, result.Status)

	stored := repo.submissions[[2]uint{1, 42}]
	require.Equal(t, 1, stored.Score)
	require.Equal(t, "A", stored.Answers[dto.AnswerKey(1)])
}

func TestQuizServiceSubmitMissingAnswersCountIncorrect(t *testing.T) {
	repo := newStubQuizRepo()
	repo.quizzes[1] = scoredQuiz()
	svc := NewQuizService(repo, nil, time.Second, newTestValidator(), zerolog.Nop())

	result, err := svc.Submit(context.Background(), 1, 42, dto.QuizSubmitRequest{
		Answers: map[uint]string{1: "A"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.Score)
	require.Equal(t, 2, result.Total)
}

func TestQuizServiceSubmitRejectsSecondAttempt(t *testing.T) {
	repo := newStubQuizRepo()
	repo.quizzes[1] = scoredQuiz()
	svc := NewQuizService(repo, nil, time.Second, newTestValidator(), zerolog.Nop())

	_, err := svc.Submit(context.Background(), 1, 42, dto.QuizSubmitRequest{Answers: map[uint]string{1: "A", 2: "B"}})
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), 1, 42, dto.QuizSubmitRequest{Answers: map[uint]string{1: "A"}})
	require.ErrorIs(t, err, ErrQuizAlreadySubmitted)

	stored := repo.submissions[[2]uint{1, 42}]
	require.Equal(t, 2, stored.Score)
}

func TestQuizServiceSubmitUnknownQuiz(t *testing.T) {
	svc := NewQuizService(newStubQuizRepo(), nil, time.Second, newTestValidator(), zerolog.Nop())

	_, err := svc.Submit(context.Background(), 99, 42, dto.QuizSubmitRequest{Answers: map[uint]string{}})
	require.ErrorIs(t, err, ErrQuizNotFound)
}

func TestQuizServiceCreatePersistsAggregate(t *testing.T) {
	repo := newStubQuizRepo()
	svc := NewQuizService(repo, nil, time.Second, newTestValidator(), zerolog.Nop())

	quiz, err := svc.Create(context.Background(), 10, validQuizPayload())
	require.NoError(t, err)
	require.Equal(t, uint(10), quiz.ClassID)
	require.Len(t, quiz.Questions, 1)
	require.Len(t, quiz.Questions[0].Choices, 4)
	require.Len(t, repo.quizzes, 1)
}

func TestQuizServiceCreateRejectsDuplicateLabels(t *testing.T) {
	repo := newStubQuizRepo()
	svc := NewQuizService(repo, nil, time.Second, newTestValidator(), zerolog.Nop())

	payload := validQuizPayload()
	payload.Questions[0].Choices[1].Label = "A"

	_, err := svc.Create(context.Background(), 10, payload)
	require.ErrorIs(t, err, ErrInvalidQuizPayload)
	require.Empty(t, repo.quizzes)
}

func TestQuizServiceCreateRejectsInvertedWindow(t *testing.T) {
	svc := NewQuizService(newStubQuizRepo(), nil, time.Second, newTestValidator(), zerolog.Nop())

	start := "2026-09-01T10:00:00Z"
	end := "2026-09-01T09:00:00Z"
	payload := validQuizPayload()
	payload.StartTime = &start
	payload.EndTime = &end

	_, err := svc.Create(context.Background(), 10, payload)
	require.ErrorIs(t, err, ErrInvalidQuizPayload)
}

func TestQuizServiceCreateRejectsMissingQuestions(t *testing.T) {
	svc := NewQuizService(newStubQuizRepo(), nil, time.Second, newTestValidator(), zerolog.Nop())

	_, err := svc.Create(context.Background(), 10, dto.QuizCreateRequest{Title: "Empty"})
	require.Error(t, err)

	var validationErrors validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrors)
}

func TestQuizServiceListByClassCachesResults(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	repo := newStubQuizRepo()
	repo.quizzes[1] = scoredQuiz()
	svc := NewQuizService(repo, cache, time.Minute, newTestValidator(), zerolog.Nop())

	first, err := svc.ListByClass(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.Equal(t, 1, repo.listCalls)

	second, err := svc.ListByClass(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, second, 1)
	require.Equal(t, 1, repo.listCalls)
}
