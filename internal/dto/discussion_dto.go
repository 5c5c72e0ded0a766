package dto

import (
	"time"

	"github.com/dioarya/classpulse-api/internal/models"
)

// ThreadCreateRequest posts a new discussion thread to a class.
type ThreadCreateRequest struct {
	Message string `json:"message" validate:"required,min=1,max=5000"`
}

// ReplyCreateRequest appends a reply to an existing thread.
type ReplyCreateRequest struct {
	Message string `json:"message" validate:"required,min=1,max=5000"`
}

// ReplyResponse serializes a reply.
type ReplyResponse struct {
	ID        uint            `json:"id"`
	ThreadID  uint            `json:"thread_id"`
	AuthorID  uint            `json:"author_id"`
	Author    *MemberResponse `json:"author,omitempty"`
	Message   string          `json:"message"`
	CreatedAt time.Time       `json:"created_at"`
}

// ThreadResponse serializes a thread with its replies in conversation order.
type ThreadResponse struct {
	ID        uint            `json:"id"`
	ClassID   uint            `json:"class_id"`
	AuthorID  uint            `json:"author_id"`
	Author    *MemberResponse `json:"author,omitempty"`
	Message   string          `json:"message"`
	CreatedAt time.Time       `json:"created_at"`
	Replies   []ReplyResponse `json:"replies"`
}

// NewThreadResponse converts a thread model into a DTO.
func NewThreadResponse(model models.Thread) ThreadResponse {
	replies := make([]ReplyResponse, 0, len(model.Replies))
	for _, reply := range model.Replies {
		replies = append(replies, NewReplyResponse(reply))
	}

	response := ThreadResponse{
		ID:        model.ID,
		ClassID:   model.ClassID,
		AuthorID:  model.AuthorID,
		Message:   model.Message,
		CreatedAt: model.CreatedAt,
		Replies:   replies,
	}
	if model.Author.ID != 0 {
		author := NewMemberResponse(model.Author)
		response.Author = &author
	}
	return response
}

// NewThreadResponseSlice converts a slice of threads into DTOs.
func NewThreadResponseSlice(threads []models.Thread) []ThreadResponse {
	out := make([]ThreadResponse, 0, len(threads))
	for _, thread := range threads {
		out = append(out, NewThreadResponse(thread))
	}
	return out
}

// NewReplyResponse converts a reply model into a DTO.
func NewReplyResponse(model models.Reply) ReplyResponse {
	response := ReplyResponse{
		ID:        model.ID,
		ThreadID:  model.ThreadID,
		AuthorID:  model.AuthorID,
		Message:   model.Message,
		CreatedAt: model.CreatedAt,
	}
	if model.Author.ID != 0 {
		author := NewMemberResponse(model.Author)
		response.Author = &author
	}
	return response
}
