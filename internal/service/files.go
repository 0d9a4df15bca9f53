// files.go — FileService, оркестратор сценариев файлового реестра.
// Каждый сценарий — короткий линейный конвейер с ранним выходом на
// первом непройденном gate; состояния между запросами нет.
package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	"github.com/bigkaa/gofilehub/internal/domain/model"
	"github.com/bigkaa/gofilehub/internal/repository"
	"github.com/bigkaa/gofilehub/internal/storage/blobstore"
)

// Blobs — байтовое содержимое файлов (реализуется blobstore.BlobStore).
type Blobs interface {
	Write(data []byte) (string, error)
	Read(localPath, size string) ([]byte, error)
	Delete(localPath string) error
}

// JobPublisher — публикация фоновых заданий (реализуется queue.Client).
type JobPublisher interface {
	PublishThumbnail(ctx context.Context, job model.ThumbnailJob) error
	PublishWelcome(ctx context.Context, job model.WelcomeJob) error
}

// UploadParams — параметры создания записи реестра.
type UploadParams struct {
	// Name — имя файла или папки (обязательно)
	Name string
	// Type — folder, file или image (обязательно)
	Type string
	// Data — base64-содержимое; обязательно для file/image,
	// игнорируется для folder
	Data string
	// IsPublic — начальная видимость (по умолчанию false)
	IsPublic bool
	// ParentID — сентинел корня или id существующей папки
	ParentID string
}

// DownloadResult — содержимое файла с типом для заголовка ответа.
type DownloadResult struct {
	Data        []byte
	ContentType string
}

// FileService — сценарии upload, show, list, publish/unpublish, download.
type FileService struct {
	files  repository.FileRepository
	blobs  Blobs
	jobs   JobPublisher
	cache  *Cache
	logger *slog.Logger
}

// NewFileService создаёт оркестратор файловых сценариев.
func NewFileService(
	files repository.FileRepository,
	blobs Blobs,
	jobs JobPublisher,
	cache *Cache,
	logger *slog.Logger,
) *FileService {
	return &FileService{
		files:  files,
		blobs:  blobs,
		jobs:   jobs,
		cache:  cache,
		logger: logger.With(slog.String("component", "file_service")),
	}
}

// Upload создаёт запись реестра; для file/image синхронно пишет
// содержимое в BlobStore и публикует задание миниатюр.
//
// Конвейер:
//  1. Валидация обязательных полей
//  2. Валидация родителя (внутри репозитория)
//  3. Папка: только метаданные
//  4. Файл/изображение: blob → метаданные → задание в очередь
//
// Сбой публикации задания не откатывает уже зафиксированную запись:
// файл существует без миниатюр, пока задание не будет доставлено.
func (s *FileService) Upload(ctx context.Context, userID string, params UploadParams) (*model.FileRecord, error) {
	if params.Name == "" {
		return nil, newValidationError(ReasonMissingName)
	}
	if !model.ValidFileType(params.Type) {
		return nil, newValidationError(ReasonMissingType)
	}

	fileType := model.FileType(params.Type)
	if fileType != model.TypeFolder && params.Data == "" {
		return nil, newValidationError(ReasonMissingData)
	}

	parentID := params.ParentID
	if parentID == "" {
		parentID = model.RootParentID
	}

	rec := &model.FileRecord{
		UserID:   userID,
		Name:     params.Name,
		Type:     fileType,
		IsPublic: params.IsPublic,
		ParentID: parentID,
	}

	// Папка: содержимого нет, только метаданные
	if fileType == model.TypeFolder {
		if err := s.createRecord(ctx, rec); err != nil {
			return nil, err
		}
		operationsTotal.WithLabelValues("upload", "success").Inc()
		return rec, nil
	}

	payload, err := base64.StdEncoding.DecodeString(params.Data)
	if err != nil {
		return nil, newValidationError(ReasonInvalidData)
	}

	localPath, err := s.blobs.Write(payload)
	if err != nil {
		return nil, fmt.Errorf("ошибка записи содержимого: %w", err)
	}
	rec.LocalPath = localPath

	if err := s.createRecord(ctx, rec); err != nil {
		// Метаданные не зафиксированы — убираем осиротевший blob
		if delErr := s.blobs.Delete(localPath); delErr != nil {
			s.logger.Error("Ошибка удаления содержимого при откате",
				slog.String("local_path", localPath),
				slog.String("error", delErr.Error()),
			)
		}
		return nil, err
	}

	// Fire-and-forget: деградация без миниатюр допустима
	if err := s.jobs.PublishThumbnail(ctx, model.ThumbnailJob{UserID: userID, FileID: rec.ID}); err != nil {
		s.logger.Warn("Ошибка публикации задания миниатюр",
			slog.String("file_id", rec.ID),
			slog.String("error", err.Error()),
		)
	}

	operationsTotal.WithLabelValues("upload", "success").Inc()
	s.logger.Info("Файл загружен",
		slog.String("file_id", rec.ID),
		slog.String("type", string(rec.Type)),
		slog.String("user_id", userID),
		slog.Int("size", len(payload)),
	)
	return rec, nil
}

// createRecord сохраняет запись, конвертируя ошибки валидации родителя.
func (s *FileService) createRecord(ctx context.Context, rec *model.FileRecord) error {
	err := s.files.Create(ctx, rec)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrParentNotFound):
		return newValidationError(ReasonParentNotFound)
	case errors.Is(err, repository.ErrParentNotFolder):
		return newValidationError(ReasonParentNotFolder)
	default:
		return fmt.Errorf("ошибка сохранения записи: %w", err)
	}
}

// Show возвращает запись пользователя по идентификатору.
// Чужая или отсутствующая запись — ErrNotFound.
func (s *FileService) Show(ctx context.Context, userID, id string) (*model.FileRecord, error) {
	rec, err := s.files.GetByIDForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения записи: %w", err)
	}
	return rec, nil
}

// List возвращает страницу записей пользователя под parentID.
// Страница за пределами набора — пустой срез.
func (s *FileService) List(ctx context.Context, userID, parentID string, page int) ([]*model.FileRecord, error) {
	if parentID == "" {
		parentID = model.RootParentID
	}

	records, err := s.files.ListByParent(ctx, userID, parentID, page)
	if err != nil {
		return nil, fmt.Errorf("ошибка листинга записей: %w", err)
	}
	return records, nil
}

// SetPublic выставляет видимость записи владельца.
// Идемпотентно: повторный вызов даёт тот же результат.
func (s *FileService) SetPublic(ctx context.Context, userID, id string, value bool) (*model.FileRecord, error) {
	rec, err := s.files.SetPublic(ctx, id, userID, value)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка обновления видимости: %w", err)
	}

	// Кэш пути скачивания не должен отдавать устаревшую видимость
	s.cache.Delete(id)
	return rec, nil
}

// Download возвращает содержимое файла с учётом контроля доступа.
// userID — пустая строка для анонимного запроса; size — опциональный
// вариант миниатюры. Отсутствие варианта и отсутствие файла для
// вызывающего кода неразличимы — оба ErrNotFound.
func (s *FileService) Download(ctx context.Context, userID, id, size string) (*DownloadResult, error) {
	rec, cached := s.cache.Get(id)
	if !cached {
		var err error
		rec, err = s.files.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("ошибка получения записи: %w", err)
		}
		s.cache.Set(id, rec)
	}

	if !CanRead(rec, userID) {
		return nil, ErrNotFound
	}
	if rec.IsFolder() {
		return nil, ErrFolderWithoutContent
	}

	data, err := s.blobs.Read(rec.LocalPath, size)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка чтения содержимого: %w", err)
	}

	operationsTotal.WithLabelValues("download", "success").Inc()
	return &DownloadResult{
		Data:        data,
		ContentType: contentTypeFor(rec.Name, data),
	}, nil
}

// contentTypeFor определяет Content-Type по расширению имени файла.
// Неизвестное расширение — сниффинг содержимого (mimetype),
// последний fallback — application/octet-stream.
func contentTypeFor(name string, data []byte) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	if mt := mimetype.Detect(data); mt != nil {
		return mt.String()
	}
	return "application/octet-stream"
}
