package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/dioarya/classpulse-api/internal/dto"
	"github.com/dioarya/classpulse-api/internal/models"
	"github.com/dioarya/classpulse-api/internal/repository"
)

// ErrMemberNotFound indicates the referenced member does not exist.
var ErrMemberNotFound = errors.New("member not found")

// ErrNotAStudent indicates an enrollment attempt for a non-student member.
var ErrNotAStudent = errors.New("only students can be enrolled")

// RosterService resolves class membership. It also backs the
// MemberDirectory contract consumed by notification fan-out.
type RosterService interface {
	MemberDirectory
	Roster(ctx context.Context, classID uint) (dto.RosterResponse, error)
	AddStudent(ctx context.Context, classID, studentID uint) (dto.RosterResponse, error)
	Search(ctx context.Context, query string) ([]dto.MemberResponse, error)
}

type rosterService struct {
	repo   repository.MemberRepository
	logger zerolog.Logger
}

// NewRosterService constructs a roster service.
func NewRosterService(repo repository.MemberRepository, logger zerolog.Logger) RosterService {
	return &rosterService{
		repo:   repo,
		logger: logger.With().Str("component", "roster_service").Logger(),
	}
}

// Roster splits the class membership into the instructor and the students.
func (s *rosterService) Roster(ctx context.Context, classID uint) (dto.RosterResponse, error) {
	members, err := s.repo.ListByClass(ctx, classID)
	if err != nil {
		return dto.RosterResponse{}, err
	}

	response := dto.RosterResponse{Students: make([]dto.MemberResponse, 0, len(members))}
	for _, member := range members {
		if member.Role == models.MemberRoleInstructor && response.Instructor == nil {
			instructor := dto.NewMemberResponse(member)
			response.Instructor = &instructor
			continue
		}
		response.Students = append(response.Students, dto.NewMemberResponse(member))
	}

	return response, nil
}

// Students implements MemberDirectory.
func (s *rosterService) Students(ctx context.Context, classID uint) ([]models.Member, error) {
	members, err := s.repo.ListByClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	students := make([]models.Member, 0, len(members))
	for _, member := range members {
		if member.Role == models.MemberRoleStudent {
			students = append(students, member)
		}
	}

	return students, nil
}

func (s *rosterService) AddStudent(ctx context.Context, classID, studentID uint) (dto.RosterResponse, error) {
	member, err := s.repo.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RosterResponse{}, ErrMemberNotFound
		}
		return dto.RosterResponse{}, err
	}

	if member.Role != models.MemberRoleStudent {
		return dto.RosterResponse{}, ErrNotAStudent
	}

	if err := s.repo.AddToClass(ctx, classID, studentID); err != nil {
		return dto.RosterResponse{}, err
	}

	s.logger.Info().Uint("class_id", classID).Uint("student_id", studentID).Msg("student enrolled")

	return s.Roster(ctx, classID)
}

func (s *rosterService) Search(ctx context.Context, query string) ([]dto.MemberResponse, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return []dto.MemberResponse{}, nil
	}

	members, err := s.repo.SearchStudents(ctx, query, 10)
	if err != nil {
		return nil, err
	}

	return dto.NewMemberResponseSlice(members), nil
}
