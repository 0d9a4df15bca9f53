// Пакет worker — обработчики фоновых заданий из очереди.
// Генерация миниатюр изображений в ширинах 500, 250, 100.
// Обработчики идемпотентны: повторная доставка того же задания
// безопасна и даёт тот же результат.
package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"log/slog"
	"strconv"

	"golang.org/x/image/draw"

	"github.com/bigkaa/gofilehub/internal/domain/model"
	"github.com/bigkaa/gofilehub/internal/repository"
	"github.com/bigkaa/gofilehub/internal/storage/blobstore"
)

// thumbnailWidths — ширины генерируемых вариантов.
var thumbnailWidths = []int{500, 250, 100}

// Thumbnailer — обработчик заданий генерации миниатюр.
type Thumbnailer struct {
	files  repository.FileRepository
	blobs  *blobstore.BlobStore
	logger *slog.Logger
}

// NewThumbnailer создаёт обработчик заданий миниатюр.
func NewThumbnailer(files repository.FileRepository, blobs *blobstore.BlobStore, logger *slog.Logger) *Thumbnailer {
	return &Thumbnailer{
		files:  files,
		blobs:  blobs,
		logger: logger.With(slog.String("component", "thumbnailer")),
	}
}

// HandleJob обрабатывает одно задание из очереди ThumbnailQueue.
// Возврат ошибки означает transient-сбой и requeue; постоянные дефекты
// задания (битый JSON, отсутствующая запись, не-изображение) логируются
// и подтверждаются — повторная доставка их не исправит.
func (t *Thumbnailer) HandleJob(ctx context.Context, body []byte) error {
	var job model.ThumbnailJob
	if err := json.Unmarshal(body, &job); err != nil {
		t.logger.Error("Некорректное задание миниатюр, пропуск",
			slog.String("error", err.Error()),
		)
		return nil
	}
	if job.FileID == "" || job.UserID == "" {
		t.logger.Error("Задание миниатюр без fileId/userId, пропуск")
		return nil
	}

	rec, err := t.files.GetByIDForUser(ctx, job.FileID, job.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			t.logger.Warn("Запись файла для задания не найдена, пропуск",
				slog.String("file_id", job.FileID),
			)
			return nil
		}
		return fmt.Errorf("ошибка чтения записи файла %s: %w", job.FileID, err)
	}

	// Миниатюры генерируются только для изображений
	if rec.Type != model.TypeImage || rec.LocalPath == "" {
		return nil
	}

	// Идемпотентность: все варианты уже на диске — делать нечего
	if t.allVariantsExist(rec.LocalPath) {
		return nil
	}

	data, err := t.blobs.Read(rec.LocalPath, "")
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			t.logger.Warn("Оригинал изображения отсутствует на диске, пропуск",
				slog.String("file_id", job.FileID),
			)
			return nil
		}
		return fmt.Errorf("ошибка чтения оригинала %s: %w", rec.LocalPath, err)
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.logger.Error("Не удалось декодировать изображение, пропуск",
			slog.String("file_id", job.FileID),
			slog.String("error", err.Error()),
		)
		return nil
	}

	for _, width := range thumbnailWidths {
		size := strconv.Itoa(width)
		if t.blobs.Exists(rec.LocalPath, size) {
			continue
		}

		thumb := resizeToWidth(src, width)
		encoded, err := encodeImage(thumb, format)
		if err != nil {
			t.logger.Error("Ошибка кодирования миниатюры, пропуск",
				slog.String("file_id", job.FileID),
				slog.Int("width", width),
				slog.String("error", err.Error()),
			)
			return nil
		}

		if err := t.blobs.WriteVariant(rec.LocalPath, size, encoded); err != nil {
			return fmt.Errorf("ошибка записи варианта %s_%s: %w", rec.LocalPath, size, err)
		}
	}

	t.logger.Info("Миниатюры сгенерированы",
		slog.String("file_id", job.FileID),
		slog.String("format", format),
	)
	return nil
}

// allVariantsExist проверяет наличие всех вариантов на диске.
func (t *Thumbnailer) allVariantsExist(localPath string) bool {
	for _, width := range thumbnailWidths {
		if !t.blobs.Exists(localPath, strconv.Itoa(width)) {
			return false
		}
	}
	return true
}

// resizeToWidth масштабирует изображение к заданной ширине,
// сохраняя пропорции.
func resizeToWidth(src image.Image, width int) image.Image {
	bounds := src.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW <= 0 || srcH <= 0 {
		return src
	}

	height := srcH * width / srcW
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}

// encodeImage кодирует изображение в исходном формате.
// Неизвестные форматы кодируются в PNG.
func encodeImage(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, img, nil)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		err = png.Encode(&buf, img)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
