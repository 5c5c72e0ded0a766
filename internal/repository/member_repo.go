package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/dioarya/classpulse-api/internal/models"
)

// MemberRepository resolves class rosters and member lookups.
type MemberRepository interface {
	ListByClass(ctx context.Context, classID uint) ([]models.Member, error)
	GetByID(ctx context.Context, id uint) (models.Member, error)
	AddToClass(ctx context.Context, classID, memberID uint) error
	SearchStudents(ctx context.Context, query string, limit int) ([]models.Member, error)
}

type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository constructs a GORM-backed repository.
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) ListByClass(ctx context.Context, classID uint) ([]models.Member, error) {
	var memberships []models.ClassMembership
	if err := r.db.WithContext(ctx).
		Preload("Member").
		Where("class_id = ?", classID).
		Order("created_at ASC").
		Find(&memberships).Error; err != nil {
		return nil, err
	}

	members := make([]models.Member, 0, len(memberships))
	for _, membership := range memberships {
		members = append(members, membership.Member)
	}

	return members, nil
}

func (r *memberRepository) GetByID(ctx context.Context, id uint) (models.Member, error) {
	var member models.Member
	if err := r.db.WithContext(ctx).First(&member, id).Error; err != nil {
		return models.Member{}, err
	}
	return member, nil
}

// AddToClass enrolls a member; repeat enrollments collapse into the
// existing row via the composite unique index.
func (r *memberRepository) AddToClass(ctx context.Context, classID, memberID uint) error {
	membership := models.ClassMembership{ClassID: classID, MemberID: memberID}
	if err := r.db.WithContext(ctx).Create(&membership).Error; err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return err
	}
	return nil
}

func (r *memberRepository) SearchStudents(ctx context.Context, query string, limit int) ([]models.Member, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	pattern := strings.ToLower(strings.TrimSpace(query)) + "%"

	var members []models.Member
	if err := r.db.WithContext(ctx).
		Where("role = ?", models.MemberRoleStudent).
		Where("LOWER(name) LIKE ?", pattern).
		Order("name ASC").
		Limit(limit).
		Find(&members).Error; err != nil {
		return nil, err
	}

	return members, nil
}
