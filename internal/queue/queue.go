// Пакет queue — очередь фоновых заданий поверх RabbitMQ.
// Доставка at-least-once: очереди durable, сообщения persistent,
// подтверждение вручную на стороне потребителя. Потребитель обязан
// быть идемпотентным — повторная обработка того же задания безопасна.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/bigkaa/gofilehub/internal/domain/model"
)

// Имена очередей.
const (
	// ThumbnailQueue — задания генерации миниатюр после загрузки file/image.
	ThumbnailQueue = "thumbnail_jobs"
	// WelcomeQueue — задания приветствия новых пользователей.
	WelcomeQueue = "user_jobs"
)

// Client — подключение к RabbitMQ с объявленными очередями.
type Client struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	logger *slog.Logger
}

// Connect устанавливает соединение с брокером и объявляет durable-очереди.
func Connect(url string, logger *slog.Logger) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ошибка открытия канала RabbitMQ: %w", err)
	}

	for _, name := range []string{ThumbnailQueue, WelcomeQueue} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, fmt.Errorf("ошибка объявления очереди %s: %w", name, err)
		}
	}

	logger.Info("Подключение к RabbitMQ установлено")

	return &Client{
		conn:   conn,
		ch:     ch,
		logger: logger.With(slog.String("component", "job_queue")),
	}, nil
}

// PublishThumbnail публикует задание генерации миниатюр.
// Порядок между заданиями разных файлов не гарантируется.
func (c *Client) PublishThumbnail(ctx context.Context, job model.ThumbnailJob) error {
	return c.publish(ctx, ThumbnailQueue, job)
}

// PublishWelcome публикует задание приветствия пользователя.
func (c *Client) PublishWelcome(ctx context.Context, job model.WelcomeJob) error {
	return c.publish(ctx, WelcomeQueue, job)
}

// publish сериализует задание и отправляет его persistent-сообщением.
func (c *Client) publish(ctx context.Context, queueName string, job any) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("ошибка сериализации задания: %w", err)
	}

	err = c.ch.PublishWithContext(ctx, "", queueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("ошибка публикации в очередь %s: %w", queueName, err)
	}

	jobsPublishedTotal.WithLabelValues(queueName).Inc()
	return nil
}

// Consume читает задания из очереди и передаёт их handler'у.
// Успех — ack; ошибка handler'а — nack с возвратом в очередь (redelivery).
// Блокируется до отмены ctx или закрытия канала доставки.
func (c *Client) Consume(ctx context.Context, queueName string, handler func(ctx context.Context, body []byte) error) error {
	// По одному неподтверждённому сообщению на потребителя
	if err := c.ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("ошибка установки QoS: %w", err)
	}

	deliveries, err := c.ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("ошибка подписки на очередь %s: %w", queueName, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("канал доставки очереди %s закрыт", queueName)
			}

			if err := handler(ctx, d.Body); err != nil {
				c.logger.Error("Ошибка обработки задания, возврат в очередь",
					slog.String("queue", queueName),
					slog.Bool("redelivered", d.Redelivered),
					slog.String("error", err.Error()),
				)
				// Пауза перед requeue, чтобы не крутить горячий цикл
				time.Sleep(time.Second)
				_ = d.Nack(false, true)
				continue
			}

			jobsConsumedTotal.WithLabelValues(queueName).Inc()
			_ = d.Ack(false)
		}
	}
}

// CheckReady проверяет состояние соединения с брокером.
// Возвращает статус ("ok", "fail") и сообщение.
func (c *Client) CheckReady() (status string, message string) {
	if c.conn.IsClosed() {
		return "fail", "соединение с RabbitMQ закрыто"
	}
	return "ok", "соединение активно"
}

// Close освобождает канал и соединение.
func (c *Client) Close() error {
	if err := c.ch.Close(); err != nil {
		_ = c.conn.Close()
		return fmt.Errorf("ошибка закрытия канала RabbitMQ: %w", err)
	}
	return c.conn.Close()
}
