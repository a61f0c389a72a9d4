package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"todoService/internal/handlers/dto"
	"todoService/internal/logger"
	"todoService/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type VideoHandler struct {
	VideoService VideoService

	// предел чтения тела запроса в байтах
	MaxUploadBytes int64
}

func NewVideoHandler(videoService VideoService) VideoHandler {
	return VideoHandler{
		VideoService:   videoService,
		MaxUploadBytes: service.MaxUploadSize,
	}
}

// multipart-форма парсится в памяти частями по 32 МБ
const multipartMemoryLimit = 32 << 20

func (h *VideoHandler) UploadVideo(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	// лимит применяется до хендлер-валидации, на уровне чтения тела
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)

	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			logger.Warn("HTTP: Превышен лимит размера загрузки",
				zap.Int64("limit", maxBytesErr.Limit),
				zap.String("client_ip", r.RemoteAddr))
			responseWithError(w, http.StatusBadRequest, "File exceeds 100MB limit")
			return
		}

		logger.Warn("HTTP: Ошибка разбора multipart-формы",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "No video file provided")
		return
	}

	file, header, err := r.FormFile("video")
	if err != nil {
		logger.Warn("HTTP: Поле video отсутствует в форме",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "No video file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		logger.Error("HTTP: Ошибка чтения файла", err,
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusInternalServerError, "Failed to upload video")
		return
	}

	mimeType := header.Header.Get("Content-Type")

	result, err := h.VideoService.Upload(r.Context(), data, header.Filename, mimeType)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "upload_video"),
			zap.String("client_ip", r.RemoteAddr),
			zap.Duration("ms", time.Since(start)))
		responseWithError(w, http.StatusInternalServerError, "Failed to upload video")
		return
	}

	logger.Info("HTTP_OUT: Видео загружено",
		zap.Int64("video_id", result.ID),
		zap.Int("size", result.Size),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.UploadVideoResponse{
		Message:      "Video uploaded successfully",
		VideoID:      result.ID,
		OriginalName: result.OriginalName,
		MimeType:     result.MimeType,
		Size:         result.Size,
	})
}

func (h *VideoHandler) ListVideos(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	videos, err := h.VideoService.ListVideos(r.Context())
	if err != nil {
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "list_videos"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusInternalServerError, "Failed to fetch videos")
		return
	}

	logger.Info("HTTP_OUT: Список видео получен",
		zap.Int("count", len(videos)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.VideoListResponse{
		Videos: videos,
		Count:  len(videos),
	})
}

// блоб отдаётся как video/webm независимо от исходного типа загрузки:
// оригинальное имя и MIME-тип рядом с блобом не хранятся
func (h *VideoHandler) GetVideoByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		logger.Warn("HTTP: Не удалось получить id",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "не удалось получить id: "+err.Error())
		return
	}

	data, err := h.VideoService.GetVideo(r.Context(), id)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "get_video"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusInternalServerError, "Failed to fetch video")
		return
	}

	logger.Info("HTTP_OUT: Видео отдано",
		zap.Int64("video_id", id),
		zap.Int("size", len(data)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	w.Header().Set("Content-Type", "video/webm")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="video_%d.webm"`, id))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
