package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dioarya/classpulse-api/internal/models"
)

// DiscussionRepository persists threads and their replies. Both are
// append-only; no update or delete exists.
type DiscussionRepository interface {
	ListThreadsByClass(ctx context.Context, classID uint) ([]models.Thread, error)
	GetThread(ctx context.Context, id uint) (models.Thread, error)
	CreateThread(ctx context.Context, thread *models.Thread) error
	CreateReply(ctx context.Context, reply *models.Reply) error
}

type discussionRepository struct {
	db *gorm.DB
}

// NewDiscussionRepository constructs a GORM-backed repository.
func NewDiscussionRepository(db *gorm.DB) DiscussionRepository {
	return &discussionRepository{db: db}
}

// ListThreadsByClass returns threads newest first with replies in natural
// conversation order (oldest first).
func (r *discussionRepository) ListThreadsByClass(ctx context.Context, classID uint) ([]models.Thread, error) {
	var threads []models.Thread
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Replies.Author").
		Where("class_id = ?", classID).
		Order("created_at DESC").
		Find(&threads).Error; err != nil {
		return nil, err
	}

	return threads, nil
}

func (r *discussionRepository) GetThread(ctx context.Context, id uint) (models.Thread, error) {
	var thread models.Thread
	if err := r.db.WithContext(ctx).First(&thread, id).Error; err != nil {
		return models.Thread{}, err
	}
	return thread, nil
}

func (r *discussionRepository) CreateThread(ctx context.Context, thread *models.Thread) error {
	return r.db.WithContext(ctx).Create(thread).Error
}

func (r *discussionRepository) CreateReply(ctx context.Context, reply *models.Reply) error {
	return r.db.WithContext(ctx).Create(reply).Error
}
