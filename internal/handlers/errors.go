package handlers

import (
	"errors"
	"net/http"

	"todoTracker/internal/logger"
	"todoTracker/internal/service"

	"go.uber.org/zap"
)

func handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	var businessErr *service.BusinessError
	if !errors.As(err, &businessErr) {
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", operation),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusInternalServerError, "internal error")
		return
	}

	statusCode := mapBusinessErrorToHTTP(businessErr.Code)
	if statusCode >= http.StatusInternalServerError {
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", operation),
			zap.String("error_code", businessErr.Code))
	} else {
		logger.Warn("HTTP: Бизнес-ошибка",
			zap.String("operation", operation),
			zap.String("error_code", businessErr.Code),
			zap.Int("http_status", statusCode))
	}

	responseWithError(w, statusCode, businessErr.Messages...)
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeInvalidArgument, service.CodeAlreadyDone:
		return http.StatusBadRequest
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodePersistence, service.CodeResolution:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
