// welcome.go — обработчик заданий приветствия новых пользователей.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bigkaa/gofilehub/internal/domain/model"
	"github.com/bigkaa/gofilehub/internal/repository"
)

// Welcomer — обработчик заданий из очереди WelcomeQueue.
// Фактическая отправка письма — вне системы; обработчик фиксирует
// приветствие в журнале.
type Welcomer struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// NewWelcomer создаёт обработчик приветствий.
func NewWelcomer(users repository.UserRepository, logger *slog.Logger) *Welcomer {
	return &Welcomer{
		users:  users,
		logger: logger.With(slog.String("component", "welcomer")),
	}
}

// HandleJob обрабатывает одно задание приветствия.
func (w *Welcomer) HandleJob(ctx context.Context, body []byte) error {
	var job model.WelcomeJob
	if err := json.Unmarshal(body, &job); err != nil {
		w.logger.Error("Некорректное задание приветствия, пропуск",
			slog.String("error", err.Error()),
		)
		return nil
	}
	if job.UserID == "" {
		w.logger.Error("Задание приветствия без userId, пропуск")
		return nil
	}

	user, err := w.users.GetByID(ctx, job.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.logger.Warn("Пользователь для приветствия не найден, пропуск",
				slog.String("user_id", job.UserID),
			)
			return nil
		}
		return fmt.Errorf("ошибка чтения пользователя %s: %w", job.UserID, err)
	}

	w.logger.Info("Welcome", slog.String("email", user.Email))
	return nil
}
