package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"todoTracker/internal/handlers/dto"
	"todoTracker/internal/logger"
	"todoTracker/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TaskHandler struct {
	service Service
	health  HealthChecker
	now     func() time.Time
}

func NewTaskHandler(taskService Service, health HealthChecker) *TaskHandler {
	return &TaskHandler{
		service: taskService,
		health:  health,
		now:     time.Now,
	}
}

// Routes монтирует обработчики задач под /api/tasks
func (h *TaskHandler) Routes(r chi.Router) {
	r.Get("/", h.ListTasks)
	r.Post("/", h.CreateTask)
	r.Post("/upsert", h.UpsertTask)
	r.Patch("/update-percentage", h.UpdatePercentage)
	r.Get("/incoming/{period}", h.ListTasksByPeriod)
	r.Patch("/markAsDone/{id}", h.MarkAsDone)
	r.Get("/{id}", h.GetTask)
	r.Put("/{id}", h.UpdateTask)
	r.Delete("/{id}", h.DeleteTask)
}

func (h *TaskHandler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		logger.Warn("HTTP: Не удалось получить id",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "ID must be an integer.")
		return 0, false
	}
	return id, true
}

// decodeJSON читает тело; литерал null оставляет dst пустым
func decodeJSON[T any](w http.ResponseWriter, r *http.Request) (*T, bool) {
	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json.")
		return nil, false
	}

	defer r.Body.Close()

	var request *T
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "Invalid request body.")
		return nil, false
	}
	return request, true
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tasks, err := h.service.ListTasks(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "list_tasks")
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)))

	responseWithJSON(w, http.StatusOK, dto.FromTaskList(tasks, h.now()))
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	t, err := h.service.GetTask(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "get_task")
		return
	}

	logger.Info("HTTP_OUT: Задача получена",
		zap.Int64("task_id", t.ID),
		zap.Duration("ms", time.Since(start)))

	responseWithJSON(w, http.StatusOK, dto.FromTask(t, h.now()))
}

func (h *TaskHandler) ListTasksByPeriod(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	period := chi.URLParam(r, "period")

	tasks, err := h.service.ListTasksByPeriod(r.Context(), period)
	if err != nil {
		handleServiceError(w, r, err, "list_tasks_by_period")
		return
	}

	logger.Info("HTTP_OUT: Задачи за период получены",
		zap.String("period", period),
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)))

	responseWithJSON(w, http.StatusOK, dto.FromTaskList(tasks, h.now()))
}

func (h *TaskHandler) UpsertTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	request, ok := decodeJSON[dto.UpsertTaskRequest](w, r)
	if !ok {
		return
	}

	result, err := h.service.UpsertTask(r.Context(), request.ToDraft())
	if err != nil {
		handleServiceError(w, r, err, "upsert_task")
		return
	}

	logger.Info("HTTP_OUT: Задача сохранена",
		zap.String("outcome", result.Outcome.String()),
		zap.Duration("ms", time.Since(start)))

	if result.Outcome == service.OutcomeCreated {
		responseWithJSON(w, http.StatusCreated, dto.FromTask(result.Task, h.now()))
		return
	}
	responseWithJSON(w, http.StatusNoContent, nil)
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	request, ok := decodeJSON[dto.UpsertTaskRequest](w, r)
	if !ok {
		return
	}

	t, err := h.service.CreateTask(r.Context(), request.ToDraft())
	if err != nil {
		handleServiceError(w, r, err, "create_task")
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.Int64("task_id", t.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, dto.FromTask(t, h.now()))
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	request, ok := decodeJSON[dto.UpsertTaskRequest](w, r)
	if !ok {
		return
	}

	draft := request.ToDraft()
	if draft != nil {
		draft.ID = id
	}

	if err := h.service.UpdateTask(r.Context(), draft); err != nil {
		handleServiceError(w, r, err, "update_task")
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.Int64("task_id", id),
		zap.Duration("ms", time.Since(start)))

	responseWithJSON(w, http.StatusNoContent, nil)
}

func (h *TaskHandler) UpdatePercentage(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	request, ok := decodeJSON[dto.UpdatePercentageRequest](w, r)
	if !ok {
		return
	}

	if err := h.service.UpdatePercentage(r.Context(), request.ToUpdate()); err != nil {
		handleServiceError(w, r, err, "update_percentage")
		return
	}

	logger.Info("HTTP_OUT: Процент выполнения обновлён",
		zap.Duration("ms", time.Since(start)))

	responseWithJSON(w, http.StatusNoContent, nil)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteTask(r.Context(), id); err != nil {
		handleServiceError(w, r, err, "delete_task")
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.Int64("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	responseWithJSON(w, http.StatusNoContent, nil)
}

func (h *TaskHandler) MarkAsDone(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.MarkAsDone(r.Context(), id); err != nil {
		handleServiceError(w, r, err, "mark_as_done")
		return
	}

	logger.Info("HTTP_OUT: Задача выполнена",
		zap.Int64("task_id", id),
		zap.Duration("ms", time.Since(start)))

	responseWithJSON(w, http.StatusNoContent, nil)
}

func (h *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	if h.health == nil {
		responseWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.health.HealthCheck(ctx); err != nil {
		logger.Error("HTTP: Хранилище недоступно", err)
		responseWithError(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}
	responseWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
