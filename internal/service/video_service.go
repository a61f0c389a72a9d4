package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"todoService/internal/logger"
	"todoService/internal/models/video"
	repo "todoService/internal/repository"
	"todoService/internal/repository/inter"

	"go.uber.org/zap"
)

// потолок размера загрузки, 100 МБ
const MaxUploadSize = 100 << 20

type VideoService struct {
	repo inter.VideoRepository
}

func NewVideoService(repo inter.VideoRepository) VideoService {
	return VideoService{
		repo: repo,
	}
}

// имя и MIME-тип возвращаются в ответе, но не сохраняются рядом с блобом:
// при выдаче всегда используется video/webm
type UploadResult struct {
	ID           int64
	OriginalName string
	MimeType     string
	Size         int
}

func (s *VideoService) Upload(ctx context.Context, data []byte, originalName, mimeType string) (*UploadResult, error) {
	if len(data) == 0 {
		return nil, NewInvalidFile("No video file provided")
	}
	if !strings.HasPrefix(mimeType, "video/") {
		logger.Warn("Service: Неверный MIME-тип файла", zap.String("mime_type", mimeType))
		return nil, NewInvalidFile("Only video files are allowed")
	}
	if len(data) > MaxUploadSize {
		return nil, NewInvalidFile("File exceeds 100MB limit")
	}

	id, err := s.repo.Create(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("сохранение видео: %w", err)
	}

	return &UploadResult{
		ID:           id,
		OriginalName: originalName,
		MimeType:     mimeType,
		Size:         len(data),
	}, nil
}

func (s *VideoService) GetVideo(ctx context.Context, id int64) ([]byte, error) {
	data, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Видео не найдено", zap.Int64("target_id", id))
			return nil, NewNotFound("Video not found", err)
		}
		return nil, fmt.Errorf("получение видео: %w", err)
	}
	return data, nil
}

func (s *VideoService) ListVideos(ctx context.Context) ([]video.VideoInfo, error) {
	videos, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение списка видео: %w", err)
	}
	return videos, nil
}

func (s *VideoService) HealthCheck(ctx context.Context) error {
	return s.repo.HealthCheck(ctx)
}
