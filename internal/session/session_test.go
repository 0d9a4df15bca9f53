package session

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// setupTestStore запускает Redis в Docker-контейнере через testcontainers
// и возвращает Store с указанным TTL сессий.
func setupTestStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("Пропуск интеграционного теста: TEST_INTEGRATION не установлена")
	}

	ctx := context.Background()

	container, err := tcredis.Run(ctx, "docker.io/redis:7-alpine")
	if err != nil {
		t.Fatalf("Не удалось запустить Redis контейнер: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Ошибка остановки контейнера: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Не удалось получить host контейнера: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Не удалось получить port контейнера: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

	store, err := NewStore(ctx, host+":"+port.Port(), 0, ttl, logger)
	if err != nil {
		t.Fatalf("NewStore ошибка: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	return store
}

// TestStore_CreateResolve проверяет цикл создания и резолвинга сессии.
func TestStore_CreateResolve(t *testing.T) {
	store := setupTestStore(t, time.Hour)
	ctx := context.Background()

	token, err := store.Create(ctx, "u1")
	if err != nil {
		t.Fatalf("Create ошибка: %v", err)
	}
	if token == "" {
		t.Fatal("Create вернул пустой токен")
	}

	userID, err := store.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("Resolve ошибка: %v", err)
	}
	if userID != "u1" {
		t.Errorf("userID = %q, ожидался u1", userID)
	}

	// Несколько токенов одного пользователя живут независимо
	token2, err := store.Create(ctx, "u1")
	if err != nil {
		t.Fatalf("Второй Create ошибка: %v", err)
	}
	if token2 == token {
		t.Error("два Create вернули одинаковый токен")
	}
}

// TestStore_UnknownToken проверяет ErrNotFound для неизвестного токена.
func TestStore_UnknownToken(t *testing.T) {
	store := setupTestStore(t, time.Hour)

	_, err := store.Resolve(context.Background(), "no-such-token")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("ошибка = %v, ожидалась ErrNotFound", err)
	}
}

// TestStore_Revoke проверяет мгновенный отзыв сессии.
func TestStore_Revoke(t *testing.T) {
	store := setupTestStore(t, time.Hour)
	ctx := context.Background()

	token, err := store.Create(ctx, "u1")
	if err != nil {
		t.Fatalf("Create ошибка: %v", err)
	}

	if err := store.Revoke(ctx, token); err != nil {
		t.Fatalf("Revoke ошибка: %v", err)
	}

	// Токен больше не резолвится
	if _, err := store.Resolve(ctx, token); !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve после Revoke = %v, ожидалась ErrNotFound", err)
	}

	// Повторный отзыв — ErrNotFound
	if err := store.Revoke(ctx, token); !errors.Is(err, ErrNotFound) {
		t.Errorf("Повторный Revoke = %v, ожидалась ErrNotFound", err)
	}
}

// TestStore_Expiry проверяет истечение сессии по TTL без продления.
func TestStore_Expiry(t *testing.T) {
	store := setupTestStore(t, time.Second)
	ctx := context.Background()

	token, err := store.Create(ctx, "u1")
	if err != nil {
		t.Fatalf("Create ошибка: %v", err)
	}

	// Сессия жива и остаётся живой при использовании
	if _, err := store.Resolve(ctx, token); err != nil {
		t.Fatalf("Resolve ошибка: %v", err)
	}

	// После TTL — истёкшая сессия неотличима от несуществующей
	time.Sleep(1500 * time.Millisecond)
	if _, err := store.Resolve(ctx, token); !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve после истечения = %v, ожидалась ErrNotFound", err)
	}
}

// TestStore_CheckReady проверяет readiness probe живого Redis.
func TestStore_CheckReady(t *testing.T) {
	store := setupTestStore(t, time.Hour)

	status, msg := store.CheckReady()
	if status != "ok" {
		t.Errorf("CheckReady status = %q, message = %q; ожидался ok", status, msg)
	}
}
