package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dioarya/classpulse-api/internal/models"
)

func TestMemberRepositoryAddToClassIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	repo := NewMemberRepository(db)
	ctx := context.Background()

	student := models.Member{Name: "Bima", Email: "bima@example.com", Role: models.MemberRoleStudent}
	require.NoError(t, db.Create(&student).Error)

	require.NoError(t, repo.AddToClass(ctx, 10, student.ID))
	require.NoError(t, repo.AddToClass(ctx, 10, student.ID))

	members, err := repo.ListByClass(ctx, 10)
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.Equal(t, "Bima", members[0].Name)
}

func TestMemberRepositorySearchStudentsMatchesPrefix(t *testing.T) {
	db := openTestDB(t)
	repo := NewMemberRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Member{Name: "Ayu", Email: "ayu2@example.com", Role: models.MemberRoleStudent}).Error)
	require.NoError(t, db.Create(&models.Member{Name: "Ayunda", Email: "ayunda@example.com", Role: models.MemberRoleStudent}).Error)
	require.NoError(t, db.Create(&models.Member{Name: "Ayu Instructor", Email: "teacher@example.com", Role: models.MemberRoleInstructor}).Error)

	results, err := repo.SearchStudents(ctx, "ayu", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, member := range results {
		require.Equal(t, models.MemberRoleStudent, member.Role)
	}
}
