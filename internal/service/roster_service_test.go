package service

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dioarya/classpulse-api/internal/models"
)

type stubMemberRepo struct {
	members     map[uint]models.Member
	enrollments map[uint][]uint
}

func newStubMemberRepo() *stubMemberRepo {
	return &stubMemberRepo{
		members:     make(map[uint]models.Member),
		enrollments: make(map[uint][]uint),
	}
}

func (s *stubMemberRepo) ListByClass(ctx context.Context, classID uint) ([]models.Member, error) {
	out := make([]models.Member, 0)
	for _, memberID := range s.enrollments[classID] {
		out = append(out, s.members[memberID])
	}
	return out, nil
}

func (s *stubMemberRepo) GetByID(ctx context.Context, id uint) (models.Member, error) {
	member, ok := s.members[id]
	if !ok {
		return models.Member{}, gorm.ErrRecordNotFound
	}
	return member, nil
}

func (s *stubMemberRepo) AddToClass(ctx context.Context, classID, memberID uint) error {
	for _, existing := range s.enrollments[classID] {
		if existing == memberID {
			return nil
		}
	}
	s.enrollments[classID] = append(s.enrollments[classID], memberID)
	return nil
}

func (s *stubMemberRepo) SearchStudents(ctx context.Context, query string, limit int) ([]models.Member, error) {
	out := make([]models.Member, 0)
	for _, member := range s.members {
		if member.Role == models.MemberRoleStudent && strings.HasPrefix(strings.ToLower(member.Name), strings.ToLower(query)) {
			out = append(out, member)
		}
	}
	return out, nil
}

func rosterFixture() *stubMemberRepo {
	repo := newStubMemberRepo()
	repo.members[1] = models.Member{ID: 1, Name: "Pak Dimas", Role: models.MemberRoleInstructor}
	repo.members[21] = models.Member{ID: 21, Name: "Ayu", Role: models.MemberRoleStudent}
	repo.members[22] = models.Member{ID: 22, Name: "Bima", Role: models.MemberRoleStudent}
	repo.enrollments[10] = []uint{1, 21}
	return repo
}

func TestRosterServiceSplitsInstructorAndStudents(t *testing.T) {
	svc := NewRosterService(rosterFixture(), zerolog.Nop())

	roster, err := svc.Roster(context.Background(), 10)
	require.NoError(t, err)
	require.NotNil(t, roster.Instructor)
	require.Equal(t, "Pak Dimas", roster.Instructor.Name)
	require.Len(t, roster.Students, 1)
	require.Equal(t, "Ayu", roster.Students[0].Name)
}

func TestRosterServiceStudentsFiltersInstructor(t *testing.T) {
	svc := NewRosterService(rosterFixture(), zerolog.Nop())

	students, err := svc.Students(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, students, 1)
	require.Equal(t, uint(21), students[0].ID)
}

func TestRosterServiceAddStudentEnrolls(t *testing.T) {
	repo := rosterFixture()
	svc := NewRosterService(repo, zerolog.Nop())

	roster, err := svc.AddStudent(context.Background(), 10, 22)
	require.NoError(t, err)
	require.Len(t, roster.Students, 2)
}

func TestRosterServiceAddStudentRejectsInstructor(t *testing.T) {
	svc := NewRosterService(rosterFixture(), zerolog.Nop())

	_, err := svc.AddStudent(context.Background(), 10, 1)
	require.ErrorIs(t, err, ErrNotAStudent)
}

func TestRosterServiceAddStudentUnknownMember(t *testing.T) {
	svc := NewRosterService(rosterFixture(), zerolog.Nop())

	_, err := svc.AddStudent(context.Background(), 10, 404)
	require.ErrorIs(t, err, ErrMemberNotFound)
}

func TestRosterServiceSearchIgnoresShortQueries(t *testing.T) {
	svc := NewRosterService(rosterFixture(), zerolog.Nop())

	results, err := svc.Search(context.Background(), "a")
	require.NoError(t, err)
	require.Empty(t, results)

	results, err = svc.Search(context.Background(), "ay")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "Ayu", results[0].Name)
}
