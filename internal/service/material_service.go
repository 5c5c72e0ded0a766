package service

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/dioarya/classpulse-api/internal/dto"
	"github.com/dioarya/classpulse-api/internal/models"
	"github.com/dioarya/classpulse-api/internal/repository"
)

// MaterialService exposes class study material upload and listing.
type MaterialService interface {
	Create(ctx context.Context, classID uint, payload dto.MaterialCreateRequest, file *multipart.FileHeader) (dto.MaterialResponse, error)
	ListByClass(ctx context.Context, classID uint) ([]dto.MaterialResponse, error)
}

type materialService struct {
	repo      repository.MaterialRepository
	validator *validator.Validate
	uploader  FileUploader
	logger    zerolog.Logger
}

// NewMaterialService constructs a material service.
func NewMaterialService(repo repository.MaterialRepository, validate *validator.Validate, uploader FileUploader, logger zerolog.Logger) MaterialService {
	return &materialService{
		repo:      repo,
		validator: validate,
		uploader:  uploader,
		logger:    logger.With().Str("component", "material_service").Logger(),
	}
}

func (s *materialService) Create(ctx context.Context, classID uint, payload dto.MaterialCreateRequest, file *multipart.FileHeader) (dto.MaterialResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.MaterialResponse{}, err
	}

	if file == nil {
		return dto.MaterialResponse{}, fmt.Errorf("material file is required")
	}

	src, err := file.Open()
	if err != nil {
		return dto.MaterialResponse{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()

	fileURL, err := s.uploader.Upload(ctx, file.Filename, src)
	if err != nil {
		return dto.MaterialResponse{}, fmt.Errorf("failed to upload file: %w", err)
	}

	material := models.Material{
		ClassID: classID,
		Title:   payload.Title,
		FileURL: fileURL,
	}

	if err := s.repo.Create(ctx, &material); err != nil {
		return dto.MaterialResponse{}, err
	}

	s.logger.Info().Uint("material_id", material.ID).Uint("class_id", classID).Msg("material shared")

	return dto.NewMaterialResponse(material), nil
}

func (s *materialService) ListByClass(ctx context.Context, classID uint) ([]dto.MaterialResponse, error) {
	materials, err := s.repo.ListByClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	return dto.NewMaterialResponseSlice(materials), nil
}
