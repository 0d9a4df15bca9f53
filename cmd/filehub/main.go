// main.go — точка входа API-сервера File Hub.
// Последовательность запуска: config → logger → PostgreSQL (+миграции) →
// Redis → RabbitMQ → BlobStore → сервисы → HTTP-сервер.
package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/bigkaa/gofilehub/internal/api/handlers"
	"github.com/bigkaa/gofilehub/internal/api/middleware"
	"github.com/bigkaa/gofilehub/internal/config"
	"github.com/bigkaa/gofilehub/internal/database"
	"github.com/bigkaa/gofilehub/internal/queue"
	"github.com/bigkaa/gofilehub/internal/repository"
	"github.com/bigkaa/gofilehub/internal/server"
	"github.com/bigkaa/gofilehub/internal/service"
	"github.com/bigkaa/gofilehub/internal/session"
	"github.com/bigkaa/gofilehub/internal/storage/blobstore"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// 2. Настройка логгера
	logger := config.SetupLogger(cfg)
	logger.Info("File Hub запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	ctx := context.Background()

	// 3. PostgreSQL: подключение и миграции
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Ошибка подключения к PostgreSQL: %v", err)
	}
	defer pool.Close()

	if err := database.Migrate(cfg, logger); err != nil {
		log.Fatalf("Ошибка применения миграций: %v", err)
	}

	// 4. Redis: кэш сессий
	sessions, err := session.NewStore(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.SessionTTL, logger)
	if err != nil {
		log.Fatalf("Ошибка подключения к Redis: %v", err)
	}
	defer sessions.Close()

	// 5. RabbitMQ: очередь фоновых заданий
	jobs, err := queue.Connect(cfg.AMQPUrl, logger)
	if err != nil {
		log.Fatalf("Ошибка подключения к RabbitMQ: %v", err)
	}
	defer jobs.Close()

	// 6. BlobStore: дисковое хранилище содержимого
	blobs, err := blobstore.New(cfg.FolderPath)
	if err != nil {
		log.Fatalf("Ошибка инициализации хранилища: %v", err)
	}

	// 7. Репозитории и сервисы
	fileRepo := repository.NewFileRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	cache := service.NewCache(cfg.CacheSize, cfg.CacheTTL)

	fileService := service.NewFileService(fileRepo, blobs, jobs, cache, logger)
	authService := service.NewAuthService(userRepo, sessions, logger)
	userService := service.NewUserService(userRepo, jobs, logger)

	// 8. Обработчики и middleware
	dbChecker := database.NewReadinessChecker(pool)
	healthHandler := handlers.NewHealthHandler(dbChecker, sessions, jobs)
	appHandler := handlers.NewAppHandler(userRepo, fileRepo, dbChecker, sessions, logger)
	apiHandler := handlers.NewAPIHandler(fileService, authService, userService, appHandler, healthHandler, logger)
	sessionAuth := middleware.NewSessionAuth(sessions, logger)

	// 9. Запуск сервера (блокирующий вызов с graceful shutdown)
	srv := server.New(cfg, logger, apiHandler, sessionAuth)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		log.Fatalf("Сервер завершился с ошибкой: %v", err)
	}

	logger.Info("File Hub остановлен")
}
