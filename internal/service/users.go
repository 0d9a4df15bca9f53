// users.go — UserService: регистрация и профиль пользователя.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bigkaa/gofilehub/internal/domain/model"
	"github.com/bigkaa/gofilehub/internal/repository"
)

// UserService — регистрация пользователей и доступ к профилю.
type UserService struct {
	users  repository.UserRepository
	jobs   JobPublisher
	logger *slog.Logger
}

// NewUserService создаёт сервис пользователей.
func NewUserService(users repository.UserRepository, jobs JobPublisher, logger *slog.Logger) *UserService {
	return &UserService{
		users:  users,
		jobs:   jobs,
		logger: logger.With(slog.String("component", "user_service")),
	}
}

// Register создаёт нового пользователя и публикует приветственное задание.
// Дублирующийся email — ValidationError "Already exist".
func (s *UserService) Register(ctx context.Context, email, password string) (*model.User, error) {
	if email == "" {
		return nil, newValidationError(ReasonMissingEmail)
	}
	if password == "" {
		return nil, newValidationError(ReasonMissingPassword)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: HashPassword(password),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, newValidationError(ReasonAlreadyExist)
		}
		return nil, fmt.Errorf("ошибка регистрации пользователя: %w", err)
	}

	// Fire-and-forget: приветствие не влияет на результат регистрации
	if err := s.jobs.PublishWelcome(ctx, model.WelcomeJob{UserID: user.ID}); err != nil {
		s.logger.Warn("Ошибка публикации приветственного задания",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.Info("Пользователь зарегистрирован", slog.String("user_id", user.ID))
	return user, nil
}

// Me возвращает профиль пользователя по идентификатору из сессии.
// Отсутствие пользователя (удалён после создания сессии) — ErrUnauthorized.
func (s *UserService) Me(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("ошибка получения пользователя: %w", err)
	}
	return user, nil
}
