// Пакет session — кэш сессионных токенов в Redis.
// Отображение token → userId с фиксированным TTL. Продления срока
// при использовании нет: сессия живёт ровно TTL с момента создания,
// истечение вычисляется самим Redis лениво, без активной очистки.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// keyPrefix — префикс ключей сессий в Redis.
const keyPrefix = "auth_"

// ErrNotFound — токен отсутствует или истёк.
// Истёкшая сессия неотличима от никогда не существовавшей.
var ErrNotFound = errors.New("сессия не найдена")

// Store — хранилище сессий поверх Redis.
type Store struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewStore подключается к Redis и проверяет доступность через PING.
// ttl — время жизни каждой создаваемой сессии.
func NewStore(ctx context.Context, addr string, db int, ttl time.Duration, logger *slog.Logger) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ошибка подключения к Redis %s: %w", addr, err)
	}

	logger.Info("Подключение к Redis установлено", slog.String("addr", addr))

	return &Store{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "session_store")),
	}, nil
}

// Create генерирует неугадываемый токен и сохраняет token → userID с TTL.
// На один токен — не более одной живой сессии; пользователь может
// держать несколько токенов одновременно.
func (s *Store) Create(ctx context.Context, userID string) (string, error) {
	token := uuid.New().String()

	if err := s.rdb.Set(ctx, keyPrefix+token, userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("ошибка записи сессии: %w", err)
	}
	return token, nil
}

// Resolve возвращает userID по токену или ErrNotFound,
// если токен отсутствует либо истёк.
func (s *Store) Resolve(ctx context.Context, token string) (string, error) {
	userID, err := s.rdb.Get(ctx, keyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("ошибка чтения сессии: %w", err)
	}
	return userID, nil
}

// Revoke удаляет сессию. ErrNotFound, если токен не был найден —
// вызывающий код трактует это как "уже не аутентифицирован".
func (s *Store) Revoke(ctx context.Context, token string) error {
	n, err := s.rdb.Del(ctx, keyPrefix+token).Result()
	if err != nil {
		return fmt.Errorf("ошибка удаления сессии: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CheckReady проверяет доступность Redis через PING.
// Возвращает статус ("ok", "fail") и сообщение.
func (s *Store) CheckReady() (status string, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return "fail", fmt.Sprintf("Redis недоступен: %v", err)
	}
	return "ok", "подключение активно"
}

// Close освобождает подключение к Redis.
func (s *Store) Close() error {
	return s.rdb.Close()
}
