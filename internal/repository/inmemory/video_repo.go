package inmemory

import (
	"context"
	"sync"

	"todoService/internal/models/video"
	repo "todoService/internal/repository"
)

type VideoStorage struct {
	storage map[int64][]byte
	mtx     *sync.RWMutex
	nextID  int64
}

func NewVideoStorage() *VideoStorage {
	return &VideoStorage{
		storage: make(map[int64][]byte),
		mtx:     &sync.RWMutex{},
		nextID:  1,
	}
}

func (s *VideoStorage) HealthCheck(ctx context.Context) error {
	return nil
}

func (s *VideoStorage) Create(ctx context.Context, data []byte) (int64, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	id := s.nextID
	s.nextID++

	stored := make([]byte, len(data))
	copy(stored, data)
	s.storage[id] = stored

	return id, nil
}

func (s *VideoStorage) GetByID(ctx context.Context, id int64) ([]byte, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	data, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return data, nil
}

// в порядке убывания id, как и реляционный вариант
func (s *VideoStorage) List(ctx context.Context) ([]video.VideoInfo, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	videos := []video.VideoInfo{}
	for id := s.nextID - 1; id >= 1; id-- {
		data, ok := s.storage[id]
		if !ok {
			continue
		}
		videos = append(videos, video.VideoInfo{ID: id, Size: len(data)})
	}
	return videos, nil
}
