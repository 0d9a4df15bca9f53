// Пакет server — HTTP-сервер File Hub с graceful shutdown.
// Без TLS — HTTP внутри кластера, TLS termination на reverse proxy.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"github.com/bigkaa/gofilehub/internal/api/handlers"
	"github.com/bigkaa/gofilehub/internal/api/middleware"
	"github.com/bigkaa/gofilehub/internal/config"
)

// Server — HTTP-сервер File Hub.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт новый HTTP-сервер с настроенными routes и middleware.
// auth определяет сессионные middleware: Required для приватных маршрутов,
// Optional — для пути скачивания (публичные файлы доступны анонимно).
func New(cfg *config.Config, logger *slog.Logger, handler *handlers.APIHandler, auth *middleware.SessionAuth) *Server {
	router := chi.NewRouter()

	// Общие middleware: метрики и логирование на всех маршрутах
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))

	// Публичные маршруты
	router.Get("/status", handler.GetStatus)
	router.Get("/stats", handler.GetStats)
	router.Post("/users", handler.RegisterUser)
	router.Get("/connect", handler.Connect)

	router.Get("/health/live", handler.HealthLive)
	router.Get("/health/ready", handler.HealthReady)
	router.Get("/metrics", handler.GetMetrics)

	// Маршруты, требующие живой сессии
	router.Group(func(r chi.Router) {
		r.Use(auth.Required())

		r.Get("/disconnect", handler.Disconnect)
		r.Get("/users/me", handler.Me)

		r.Post("/files", handler.UploadFile)
		r.Get("/files", handler.ListFiles)
		r.Get("/files/{id}", handler.GetFile)
		r.Put("/files/{id}/publish", handler.PublishFile)
		r.Put("/files/{id}/unpublish", handler.UnpublishFile)
	})

	// Скачивание: токен опционален, контроль доступа в сервисном слое
	router.Group(func(r chi.Router) {
		r.Use(auth.Optional())

		r.Get("/files/{id}/data", handler.GetFileData)
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	// Канал для ошибок сервера
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
