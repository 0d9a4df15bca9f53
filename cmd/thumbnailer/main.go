// main.go — точка входа worker'а фоновых заданий File Hub.
// Потребляет очереди thumbnail_jobs и user_jobs из RabbitMQ.
// Доставка at-least-once: обработчики идемпотентны, транзиентные
// ошибки возвращают задание в очередь.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bigkaa/gofilehub/internal/config"
	"github.com/bigkaa/gofilehub/internal/database"
	"github.com/bigkaa/gofilehub/internal/queue"
	"github.com/bigkaa/gofilehub/internal/repository"
	"github.com/bigkaa/gofilehub/internal/storage/blobstore"
	"github.com/bigkaa/gofilehub/internal/worker"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// 2. Настройка логгера
	logger := config.SetupLogger(cfg)
	logger.Info("Thumbnailer запускается",
		slog.String("version", config.Version),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// 3. PostgreSQL: worker читает метаданные тем же репозиторием
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Ошибка подключения к PostgreSQL: %v", err)
	}
	defer pool.Close()

	// 4. RabbitMQ: источник заданий
	jobs, err := queue.Connect(cfg.AMQPUrl, logger)
	if err != nil {
		log.Fatalf("Ошибка подключения к RabbitMQ: %v", err)
	}
	defer jobs.Close()

	// 5. BlobStore: общая с API-сервером директория содержимого
	blobs, err := blobstore.New(cfg.FolderPath)
	if err != nil {
		log.Fatalf("Ошибка инициализации хранилища: %v", err)
	}

	fileRepo := repository.NewFileRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	thumbnailer := worker.NewThumbnailer(fileRepo, blobs, logger)
	welcomer := worker.NewWelcomer(userRepo, logger)

	// 6. Потребители очередей: по одному на очередь, общее соединение
	errCh := make(chan error, 2)

	go func() {
		errCh <- jobs.Consume(ctx, queue.ThumbnailQueue, thumbnailer.HandleJob)
	}()
	go func() {
		errCh <- jobs.Consume(ctx, queue.WelcomeQueue, welcomer.HandleJob)
	}()

	logger.Info("Worker запущен, ожидание заданий",
		slog.String("queues", queue.ThumbnailQueue+","+queue.WelcomeQueue),
	)

	// Завершение по сигналу (ctx отменён) или по ошибке потребителя
	err = <-errCh
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Потребитель завершился с ошибкой", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Thumbnailer остановлен")
}
