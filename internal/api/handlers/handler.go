// handler.go — основной обработчик API File Hub.
// Объединяет бизнес-обработчики и транслирует доменные ошибки
// в фиксированные HTTP-статусы.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apierrors "github.com/bigkaa/gofilehub/internal/api/errors"
	"github.com/bigkaa/gofilehub/internal/service"
)

// APIHandler — основной обработчик API File Hub.
// Делегирует запросы в сервисный слой.
type APIHandler struct {
	files  *service.FileService
	auth   *service.AuthService
	users  *service.UserService
	app    *AppHandler
	health *HealthHandler
	logger *slog.Logger
}

// NewAPIHandler создаёт основной обработчик API.
func NewAPIHandler(
	files *service.FileService,
	auth *service.AuthService,
	users *service.UserService,
	app *AppHandler,
	health *HealthHandler,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		files:  files,
		auth:   auth,
		users:  users,
		app:    app,
		health: health,
		logger: logger.With(slog.String("component", "api_handler")),
	}
}

// --- Health endpoints (делегируются в HealthHandler) ---

// HealthLive — liveness probe.
func (h *APIHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.health.HealthLive(w, r)
}

// HealthReady — readiness probe.
func (h *APIHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	h.health.HealthReady(w, r)
}

// GetMetrics — Prometheus метрики.
func (h *APIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.health.GetMetrics(w, r)
}

// --- App endpoints (делегируются в AppHandler) ---

// GetStatus — доступность зависимостей.
func (h *APIHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	h.app.GetStatus(w, r)
}

// GetStats — счётчики пользователей и файлов.
func (h *APIHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	h.app.GetStats(w, r)
}

// --- Вспомогательные функции ---

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeServiceError транслирует доменную ошибку в HTTP-ответ.
// Неопознанная ошибка логируется и отдаётся как 500 без деталей.
func (h *APIHandler) writeServiceError(w http.ResponseWriter, err error, logMsg string) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		apierrors.ValidationError(w, vErr.Reason)
	case errors.Is(err, service.ErrUnauthorized):
		apierrors.Unauthorized(w, "Unauthorized")
	case errors.Is(err, service.ErrNotFound):
		apierrors.NotFound(w, "Not found")
	case errors.Is(err, service.ErrFolderWithoutContent):
		apierrors.FolderWithoutContent(w, "A folder doesn't have content")
	default:
		h.logger.Error(logMsg, slog.String("error", err.Error()))
		apierrors.InternalError(w, "Internal error")
	}
}
