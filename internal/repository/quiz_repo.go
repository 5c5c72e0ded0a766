package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/dioarya/classpulse-api/internal/models"
)

// QuizRepository persists quiz aggregates and their submissions.
type QuizRepository interface {
	ListByClass(ctx context.Context, classID uint) ([]models.Quiz, error)
	GetByID(ctx context.Context, id uint) (models.Quiz, error)
	Create(ctx context.Context, quiz *models.Quiz) error
	CreateSubmission(ctx context.Context, submission *models.QuizSubmission) error
}

type quizRepository struct {
	db *gorm.DB
}

// NewQuizRepository constructs a GORM-backed repository.
func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) ListByClass(ctx context.Context, classID uint) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	if err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Questions.Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order("label ASC")
		}).
		Preload("Submissions", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Submissions.Student").
		Where("class_id = ?", classID).
		Order("created_at DESC").
		Find(&quizzes).Error; err != nil {
		return nil, err
	}

	return quizzes, nil
}

func (r *quizRepository) GetByID(ctx context.Context, id uint) (models.Quiz, error) {
	var quiz models.Quiz
	if err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Questions.Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order("label ASC")
		}).
		First(&quiz, id).Error; err != nil {
		return models.Quiz{}, err
	}

	return quiz, nil
}

// Create persists the quiz with its questions and choices as one unit.
// GORM cascades the nested associations inside the transaction, so a
// failure anywhere leaves nothing behind.
func (r *quizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(quiz).Error
	})
}

// CreateSubmission inserts a finished attempt. The composite unique index on
// (quiz_id, student_id) makes this the atomic existence check: a concurrent
// duplicate surfaces as gorm.ErrDuplicatedKey instead of a second row.
func (r *quizRepository) CreateSubmission(ctx context.Context, submission *models.QuizSubmission) error {
	if err := r.db.WithContext(ctx).Create(submission).Error; err != nil {
		if isUniqueViolation(err) {
			return gorm.ErrDuplicatedKey
		}
		return err
	}

	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if err == gorm.ErrDuplicatedKey {
		return true
	}
	message := err.Error()
	return strings.Contains(message, "duplicate key") ||
		strings.Contains(message, "UNIQUE constraint failed")
}
