package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"taskKeeper/internal/handlers/dto"
	"taskKeeper/internal/logger"
	"taskKeeper/internal/middleware"
	"taskKeeper/internal/models/task"
	"taskKeeper/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TaskHandler struct {
	TaskService TaskService
}

func NewTaskHandler(taskService TaskService) TaskHandler {
	return TaskHandler{
		TaskService: taskService,
	}
}

// requester достаёт идентичность из контекста, её кладёт туда middleware.Auth
func requester(w http.ResponseWriter, r *http.Request) (*service.Identity, bool) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		logger.Warn("HTTP: Запрос без идентичности", zap.String("path", r.URL.Path))
		responseWithError(w, http.StatusUnauthorized, "требуется аутентификация")
		return nil, false
	}
	return identity, true
}

func taskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idParam := chi.URLParam(r, "id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		logger.Warn("HTTP: Не удалось получить id",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "не удалось получить id:"+err.Error())
		return uuid.Nil, false
	}

	if id == uuid.Nil {
		logger.Warn("HTTP: Неверное значение id",
			zap.String("error", "nil id"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "id не может быть пустым")
		return uuid.Nil, false
	}
	return id, true
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	identity, ok := requester(w, r)
	if !ok {
		return
	}

	// отсутствующие или кривые параметры пагинации заменяются дефолтами
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	taskPage, err := h.TaskService.ListTasks(r.Context(), identity.UserID, page, limit)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "list_tasks"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, "внутренняя ошибка")
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(taskPage.Tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithObject(w, http.StatusOK, dto.TaskListResponse{
		Page:  taskPage.Page,
		Limit: taskPage.Limit,
		Total: taskPage.Total,
		Data:  dto.FromTaskList(taskPage.Tasks),
	})
}

// combineTimes собирает start/end из готового значения либо из пары дата+время
func combineTimes(direct *time.Time, dateStr, timeStr, field string) (*time.Time, error) {
	if direct != nil {
		return direct, nil
	}
	if dateStr == "" || timeStr == "" {
		return nil, nil
	}

	combined, err := service.CombineDateTime(field, dateStr, timeStr)
	if err != nil {
		return nil, err
	}
	return &combined, nil
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	identity, ok := requester(w, r)
	if !ok {
		return
	}

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное тело запроса:"+err.Error())
		return
	}

	startAt, err := combineTimes(request.StartTaskAt, request.StartDate, request.StartTime, "start_date/start_time")
	if err != nil {
		handleBusinessError(w, err)
		return
	}

	endAt, err := combineTimes(request.EndTaskAt, request.EndDate, request.EndTime, "end_date/end_time")
	if err != nil {
		handleBusinessError(w, err)
		return
	}

	created, err := h.TaskService.CreateTask(r.Context(), identity.UserID, request.Title, request.Description, startAt, endAt)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "create_task"),
			zap.String("client_ip", r.RemoteAddr),
			zap.Duration("ms", time.Since(start)))

		responseWithError(w, http.StatusInternalServerError, "внутренняя ошибка")
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.String("task_id", created.UUID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithObject(w, http.StatusCreated, dto.FromTask(created))
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	identity, ok := requester(w, r)
	if !ok {
		return
	}

	id, ok := taskID(w, r)
	if !ok {
		return
	}

	var request dto.UpdateTaskRequest

	decoder := json.NewDecoder(r.Body)
	defer r.Body.Close()

	if err := decoder.Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверно переданы параметры обновления:"+err.Error())
		return
	}

	// набор опций собирается только из присланных полей
	options := []service.TaskOption{}
	if request.Title != nil {
		options = append(options, service.WithTitle(*request.Title))
	}
	if request.Description != nil {
		options = append(options, service.WithDescription(*request.Description))
	}
	if request.Status != nil {
		options = append(options, service.WithStatus(task.Status(*request.Status)))
	}

	startAt, err := combineTimes(request.StartTaskAt, request.StartDate, request.StartTime, "start_date/start_time")
	if err != nil {
		handleBusinessError(w, err)
		return
	}
	if startAt != nil {
		options = append(options, service.WithStartAt(startAt))
	}

	endAt, err := combineTimes(request.EndTaskAt, request.EndDate, request.EndTime, "end_date/end_time")
	if err != nil {
		handleBusinessError(w, err)
		return
	}
	if endAt != nil {
		options = append(options, service.WithEndAt(endAt))
	}

	updated, err := h.TaskService.UpdateTask(r.Context(), identity.UserID, id, options...)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: ошибка в Service", err,
			zap.String("operation", "update_task"),
			zap.String("client_addr", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, "внутренняя ошибка")
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.String("task_id", updated.UUID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithObject(w, http.StatusOK, dto.FromTask(updated))
}

func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	identity, ok := requester(w, r)
	if !ok {
		return
	}

	id, ok := taskID(w, r)
	if !ok {
		return
	}

	completed, err := h.TaskService.CompleteTask(r.Context(), identity.UserID, id)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: ошибка в Service", err,
			zap.String("operation", "complete_task"),
			zap.String("client_addr", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, "внутренняя ошибка")
		return
	}

	logger.Info("HTTP_OUT: Задача завершена",
		zap.String("task_id", completed.UUID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithObject(w, http.StatusOK, dto.FromTask(completed))
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	identity, ok := requester(w, r)
	if !ok {
		return
	}

	id, ok := taskID(w, r)
	if !ok {
		return
	}

	if err := h.TaskService.DeleteTask(r.Context(), identity.UserID, id); err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: ошибка в Service", err,
			zap.String("operation", "delete_task"),
			zap.String("client_addr", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, "внутренняя ошибка")
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.String("task_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("message", "Задача удалена"))
}

func (h *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	if err := h.TaskService.HealthCheck(r.Context()); err != nil {
		responseWithError(w, http.StatusServiceUnavailable, "сервис недоступен")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("status", "ok"))
}
