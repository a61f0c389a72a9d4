package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"todoService/internal/logger"
	"todoService/internal/models/video"
	repo "todoService/internal/repository"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type VideoRepo struct {
	storage *Storage
}

func NewVideoRepo(storage *Storage) *VideoRepo {
	return &VideoRepo{storage: storage}
}

func (r *VideoRepo) HealthCheck(ctx context.Context) error {
	return r.storage.HealthCheck(ctx)
}

func (r *VideoRepo) Create(ctx context.Context, data []byte) (int64, error) {
	start := time.Now()

	query := `INSERT INTO videos (video_data)
				VALUES ($1)
				RETURNING id`

	var id int64
	err := r.storage.pool.QueryRow(ctx, query, data).Scan(&id)
	if err != nil {
		logger.Error("Repository: Не удалось сохранить видео", err, zap.Duration("ms", time.Since(start)))
		return 0, fmt.Errorf("сохранение видео: %w", err)
	}

	logger.Info("Repository: Видео сохранено",
		zap.Int64("video_id", id),
		zap.Int("size", len(data)),
		zap.Duration("ms", time.Since(start)))
	return id, nil
}

func (r *VideoRepo) GetByID(ctx context.Context, id int64) ([]byte, error) {
	start := time.Now()

	query := `SELECT video_data FROM videos WHERE id = $1`

	var data []byte
	err := r.storage.pool.QueryRow(ctx, query, id).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить видео", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение видео: %w", err)
	}

	return data, nil
}

// только id и размер, сами блобы не выгружаются
func (r *VideoRepo) List(ctx context.Context) ([]video.VideoInfo, error) {
	start := time.Now()

	query := `SELECT id, LENGTH(video_data) AS size
				FROM videos
				ORDER BY id DESC`

	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		logger.Error("Repository: Не удалось получить список видео", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение списка видео: %w", err)
	}
	defer rows.Close()

	videos := []video.VideoInfo{}
	for rows.Next() {
		var info video.VideoInfo
		if err := rows.Scan(&info.ID, &info.Size); err != nil {
			logger.Warn("Repository: Ошибка сканирования видео", zap.Error(err))
			continue
		}
		videos = append(videos, info)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	return videos, nil
}
