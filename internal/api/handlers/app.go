// app.go — сервисные endpoints приложения.
// GET /status — доступность Redis и PostgreSQL.
// GET /stats — счётчики пользователей и файлов.
package handlers

import (
	"log/slog"
	"net/http"

	apierrors "github.com/bigkaa/gofilehub/internal/api/errors"
	"github.com/bigkaa/gofilehub/internal/repository"
)

// AppHandler — обработчик сервисных endpoints.
type AppHandler struct {
	users     repository.UserRepository
	files     repository.FileRepository
	dbChecker ReadinessChecker
	sessions  ReadinessChecker
	logger    *slog.Logger
}

// NewAppHandler создаёт обработчик сервисных endpoints.
func NewAppHandler(
	users repository.UserRepository,
	files repository.FileRepository,
	dbChecker ReadinessChecker,
	sessions ReadinessChecker,
	logger *slog.Logger,
) *AppHandler {
	return &AppHandler{
		users:     users,
		files:     files,
		dbChecker: dbChecker,
		sessions:  sessions,
		logger:    logger.With(slog.String("component", "app_handler")),
	}
}

// statusResponse — ответ GET /status.
type statusResponse struct {
	Redis bool `json:"redis"`
	DB    bool `json:"db"`
}

// statsResponse — ответ GET /stats.
type statsResponse struct {
	Users int64 `json:"users"`
	Files int64 `json:"files"`
}

// GetStatus — GET /status. Флаги доступности зависимостей.
// Всегда 200: сами флаги отражают состояние.
func (a *AppHandler) GetStatus(w http.ResponseWriter, _ *http.Request) {
	redisStatus, _ := a.sessions.CheckReady()
	dbStatus, _ := a.dbChecker.CheckReady()

	writeJSON(w, http.StatusOK, statusResponse{
		Redis: redisStatus == "ok",
		DB:    dbStatus == "ok",
	})
}

// GetStats — GET /stats. Количество пользователей и файлов в реестре.
func (a *AppHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	usersCount, err := a.users.Count(r.Context())
	if err != nil {
		a.logger.Error("Ошибка подсчёта пользователей", slog.String("error", err.Error()))
		apierrors.InternalError(w, "Internal error")
		return
	}

	filesCount, err := a.files.Count(r.Context())
	if err != nil {
		a.logger.Error("Ошибка подсчёта файлов", slog.String("error", err.Error()))
		apierrors.InternalError(w, "Internal error")
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{
		Users: usersCount,
		Files: filesCount,
	})
}
