package handlers

import (
	"encoding/json"
	"net/http"

	"todoTracker/internal/logger"
)

// APIResponse конверт ответа; создаётся заново на каждый запрос
type APIResponse struct {
	StatusCode    int      `json:"statusCode"`
	IsSuccess     bool     `json:"isSuccess"`
	ErrorMessages []string `json:"errorMessages"`
	Result        any      `json:"result,omitempty"`
}

func responseWithJSON(w http.ResponseWriter, code int, result any) {
	if code == http.StatusNoContent {
		w.WriteHeader(code)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	response := APIResponse{
		StatusCode:    code,
		IsSuccess:     code < http.StatusBadRequest,
		ErrorMessages: []string{},
		Result:        result,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error("HTTP: Ошибка записи ответа", err)
	}
}

func responseWithError(w http.ResponseWriter, code int, messages ...string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if messages == nil {
		messages = []string{}
	}
	response := APIResponse{
		StatusCode:    code,
		IsSuccess:     false,
		ErrorMessages: messages,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error("HTTP: Ошибка записи ответа", err)
	}
}
