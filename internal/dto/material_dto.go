package dto

import (
	"time"

	"github.com/dioarya/classpulse-api/internal/models"
)

// MaterialCreateRequest describes the payload for sharing a class material.
// The file itself arrives as a multipart upload.
type MaterialCreateRequest struct {
	Title string `form:"title" json:"title" validate:"required,max=255"`
}

// MaterialResponse serializes a shared material.
type MaterialResponse struct {
	ID        uint      `json:"id"`
	ClassID   uint      `json:"class_id"`
	Title     string    `json:"title"`
	FileURL   string    `json:"file_url"`
	CreatedAt time.Time `json:"created_at"`
}

// NewMaterialResponse converts a material model into a DTO.
func NewMaterialResponse(model models.Material) MaterialResponse {
	return MaterialResponse{
		ID:        model.ID,
		ClassID:   model.ClassID,
		Title:     model.Title,
		FileURL:   model.FileURL,
		CreatedAt: model.CreatedAt,
	}
}

// NewMaterialResponseSlice converts a slice of materials into DTOs.
func NewMaterialResponseSlice(materials []models.Material) []MaterialResponse {
	out := make([]MaterialResponse, 0, len(materials))
	for _, material := range materials {
		out = append(out, NewMaterialResponse(material))
	}
	return out
}
