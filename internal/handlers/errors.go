package handlers

import (
	"errors"
	"net/http"

	"todoService/internal/logger"
	"todoService/internal/service"

	"go.uber.org/zap"
)

func handleBusinessError(w http.ResponseWriter, err error) bool {
	var businessErr *service.BusinessError
	if !errors.As(err, &businessErr) {
		return false
	}

	statusCode := mapBusinessErrorToHTTP(businessErr.Code)

	logger.Warn("HTTP: Бизнес-ошибка",
		zap.String("error_code", businessErr.Code),
		zap.Int("http_status", statusCode))

	body := map[string]any{"error": businessErr.Message}
	if len(businessErr.Details) > 0 {
		body["details"] = businessErr.Details
	}
	responseWithJSON(w, statusCode, body)
	return true
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidation, service.CodeInvalidFile:
		return http.StatusBadRequest
	default:
		return http.StatusBadRequest
	}
}
