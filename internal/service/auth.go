// auth.go — AuthService: вход и выход по сессионным токенам.
package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bigkaa/gofilehub/internal/repository"
	"github.com/bigkaa/gofilehub/internal/session"
)

// Sessions — хранилище сессионных токенов (реализуется session.Store).
type Sessions interface {
	Create(ctx context.Context, userID string) (string, error)
	Resolve(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
}

// AuthService — аутентификация по учётным данным и управление сессиями.
type AuthService struct {
	users    repository.UserRepository
	sessions Sessions
	logger   *slog.Logger
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(users repository.UserRepository, sessions Sessions, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		logger:   logger.With(slog.String("component", "auth_service")),
	}
}

// Connect проверяет учётные данные и создаёт новую сессию.
// Несуществующий email и неверный пароль неразличимы: оба ErrUnauthorized.
func (s *AuthService) Connect(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", ErrUnauthorized
	}

	user, err := s.users.GetByEmailAndHash(ctx, email, HashPassword(password))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUnauthorized
		}
		return "", fmt.Errorf("ошибка поиска пользователя: %w", err)
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("ошибка создания сессии: %w", err)
	}

	s.logger.Info("Сессия создана", slog.String("user_id", user.ID))
	return token, nil
}

// Disconnect отзывает сессию по токену.
// Неизвестный токен — ErrUnauthorized.
func (s *AuthService) Disconnect(ctx context.Context, token string) error {
	err := s.sessions.Revoke(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return ErrUnauthorized
		}
		return fmt.Errorf("ошибка отзыва сессии: %w", err)
	}
	return nil
}

// HashPassword возвращает hex-представление SHA-1 хэша пароля.
// Формат хранения унаследован от существующей базы пользователей.
func HashPassword(password string) string {
	sum := sha1.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}
