package dto

import "github.com/dioarya/classpulse-api/internal/models"

// MemberResponse serializes a roster member.
type MemberResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// RosterResponse groups a class roster into instructor and students.
type RosterResponse struct {
	Instructor *MemberResponse  `json:"instructor"`
	Students   []MemberResponse `json:"students"`
}

// AddMemberRequest enrolls a student into a class.
type AddMemberRequest struct {
	StudentID uint `json:"student_id" validate:"required"`
}

// NewMemberResponse converts a member model into a DTO.
func NewMemberResponse(model models.Member) MemberResponse {
	return MemberResponse{
		ID:    model.ID,
		Name:  model.Name,
		Email: model.Email,
		Role:  model.Role,
	}
}

// NewMemberResponseSlice converts a slice of members into DTOs.
func NewMemberResponseSlice(members []models.Member) []MemberResponse {
	out := make([]MemberResponse, 0, len(members))
	for _, member := range members {
		out = append(out, NewMemberResponse(member))
	}
	return out
}
