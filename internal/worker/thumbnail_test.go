package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"strconv"
	"testing"

	"github.com/bigkaa/gofilehub/internal/domain/model"
	"github.com/bigkaa/gofilehub/internal/repository"
	"github.com/bigkaa/gofilehub/internal/storage/blobstore"
)

// mockFileRepo — мок репозитория для worker-тестов.
type mockFileRepo struct {
	getByIDForUserFn func(ctx context.Context, id, userID string) (*model.FileRecord, error)
}

func (m *mockFileRepo) Create(context.Context, *model.FileRecord) error {
	panic("не используется")
}

func (m *mockFileRepo) GetByID(context.Context, string) (*model.FileRecord, error) {
	panic("не используется")
}

func (m *mockFileRepo) GetByIDForUser(ctx context.Context, id, userID string) (*model.FileRecord, error) {
	return m.getByIDForUserFn(ctx, id, userID)
}

func (m *mockFileRepo) ListByParent(context.Context, string, string, int) ([]*model.FileRecord, error) {
	panic("не используется")
}

func (m *mockFileRepo) SetPublic(context.Context, string, string, bool) (*model.FileRecord, error) {
	panic("не используется")
}

func (m *mockFileRepo) Count(context.Context) (int64, error) {
	panic("не используется")
}

// testPNG кодирует одноцветное PNG-изображение заданного размера.
func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Ошибка кодирования тестового PNG: %v", err)
	}
	return buf.Bytes()
}

// jobBody сериализует задание миниатюр.
func jobBody(t *testing.T, job model.ThumbnailJob) []byte {
	t.Helper()

	body, err := json.Marshal(job)
	if err != nil {
		t.Fatalf("Ошибка сериализации задания: %v", err)
	}
	return body
}

// newTestThumbnailer создаёт Thumbnailer с реальным BlobStore во
// временной директории и заданной записью реестра.
func newTestThumbnailer(t *testing.T, rec *model.FileRecord) (*Thumbnailer, *blobstore.BlobStore) {
	t.Helper()

	blobs, err := blobstore.New(t.TempDir())
	if err != nil {
		t.Fatalf("Ошибка создания BlobStore: %v", err)
	}

	repo := &mockFileRepo{
		getByIDForUserFn: func(_ context.Context, _, _ string) (*model.FileRecord, error) {
			if rec == nil {
				return nil, repository.ErrNotFound
			}
			return rec, nil
		},
	}

	return NewThumbnailer(repo, blobs, slog.Default()), blobs
}

// TestHandleJob_GeneratesAllVariants проверяет генерацию всех трёх
// вариантов с сохранением пропорций.
func TestHandleJob_GeneratesAllVariants(t *testing.T) {
	blobs, err := blobstore.New(t.TempDir())
	if err != nil {
		t.Fatalf("Ошибка создания BlobStore: %v", err)
	}

	// Оригинал 600x300 — пропорция 2:1
	localPath, err := blobs.Write(testPNG(t, 600, 300))
	if err != nil {
		t.Fatalf("Ошибка записи оригинала: %v", err)
	}

	rec := &model.FileRecord{
		ID: "f1", UserID: "u1", Name: "pic.png",
		Type: model.TypeImage, LocalPath: localPath,
	}
	repo := &mockFileRepo{
		getByIDForUserFn: func(_ context.Context, _, _ string) (*model.FileRecord, error) {
			return rec, nil
		},
	}
	tn := NewThumbnailer(repo, blobs, slog.Default())

	err = tn.HandleJob(context.Background(), jobBody(t, model.ThumbnailJob{UserID: "u1", FileID: "f1"}))
	if err != nil {
		t.Fatalf("HandleJob ошибка: %v", err)
	}

	wantSizes := map[string]int{"500": 250, "250": 125, "100": 50}
	for size, wantHeight := range wantSizes {
		data, err := blobs.Read(localPath, size)
		if err != nil {
			t.Fatalf("Вариант %s не сгенерирован: %v", size, err)
		}

		img, format, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("Вариант %s не декодируется: %v", size, err)
		}
		if format != "png" {
			t.Errorf("Вариант %s: формат = %q, ожидался png", size, format)
		}

		wantWidth, _ := strconv.Atoi(size)
		bounds := img.Bounds()
		if bounds.Dx() != wantWidth {
			t.Errorf("Вариант %s: ширина = %d, ожидалась %d", size, bounds.Dx(), wantWidth)
		}
		if bounds.Dy() != wantHeight {
			t.Errorf("Вариант %s: высота = %d, ожидалась %d (пропорции)", size, bounds.Dy(), wantHeight)
		}
	}
}

// TestHandleJob_Idempotent проверяет безопасность повторной доставки.
func TestHandleJob_Idempotent(t *testing.T) {
	blobs, err := blobstore.New(t.TempDir())
	if err != nil {
		t.Fatalf("Ошибка создания BlobStore: %v", err)
	}

	localPath, err := blobs.Write(testPNG(t, 200, 200))
	if err != nil {
		t.Fatalf("Ошибка записи оригинала: %v", err)
	}

	rec := &model.FileRecord{
		ID: "f1", UserID: "u1", Name: "pic.png",
		Type: model.TypeImage, LocalPath: localPath,
	}
	repo := &mockFileRepo{
		getByIDForUserFn: func(_ context.Context, _, _ string) (*model.FileRecord, error) {
			return rec, nil
		},
	}
	tn := NewThumbnailer(repo, blobs, slog.Default())
	body := jobBody(t, model.ThumbnailJob{UserID: "u1", FileID: "f1"})

	if err := tn.HandleJob(context.Background(), body); err != nil {
		t.Fatalf("Первый HandleJob ошибка: %v", err)
	}

	first, err := blobs.Read(localPath, "100")
	if err != nil {
		t.Fatalf("Чтение варианта ошибка: %v", err)
	}

	// Повторная доставка того же задания
	if err := tn.HandleJob(context.Background(), body); err != nil {
		t.Fatalf("Повторный HandleJob ошибка: %v", err)
	}

	second, err := blobs.Read(localPath, "100")
	if err != nil {
		t.Fatalf("Чтение варианта после повтора ошибка: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("повторная доставка изменила вариант")
	}
}

// TestHandleJob_PermanentDefectsAcked проверяет, что постоянные дефекты
// задания не возвращаются в очередь.
func TestHandleJob_PermanentDefectsAcked(t *testing.T) {
	tests := []struct {
		name string
		rec  *model.FileRecord
		body []byte
	}{
		{
			name: "битый JSON",
			rec:  nil,
			body: []byte("{not json"),
		},
		{
			name: "пустые идентификаторы",
			rec:  nil,
			body: []byte(`{"user_id":"","file_id":""}`),
		},
		{
			name: "запись не найдена",
			rec:  nil,
			body: []byte(`{"user_id":"u1","file_id":"ghost"}`),
		},
		{
			name: "не изображение",
			rec: &model.FileRecord{
				ID: "f1", UserID: "u1", Type: model.TypeFile, LocalPath: "/data/doc",
			},
			body: []byte(`{"user_id":"u1","file_id":"f1"}`),
		},
		{
			name: "папка",
			rec: &model.FileRecord{
				ID: "f1", UserID: "u1", Type: model.TypeFolder,
			},
			body: []byte(`{"user_id":"u1","file_id":"f1"}`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tn, _ := newTestThumbnailer(t, tt.rec)
			if err := tn.HandleJob(context.Background(), tt.body); err != nil {
				t.Errorf("HandleJob = %v, постоянный дефект должен подтверждаться (nil)", err)
			}
		})
	}
}

// TestHandleJob_UndecodableImageAcked проверяет ack для изображения,
// которое невозможно декодировать.
func TestHandleJob_UndecodableImageAcked(t *testing.T) {
	blobs, err := blobstore.New(t.TempDir())
	if err != nil {
		t.Fatalf("Ошибка создания BlobStore: %v", err)
	}

	localPath, err := blobs.Write([]byte("definitely not an image"))
	if err != nil {
		t.Fatalf("Ошибка записи оригинала: %v", err)
	}

	rec := &model.FileRecord{
		ID: "f1", UserID: "u1", Type: model.TypeImage, LocalPath: localPath,
	}
	repo := &mockFileRepo{
		getByIDForUserFn: func(_ context.Context, _, _ string) (*model.FileRecord, error) {
			return rec, nil
		},
	}
	tn := NewThumbnailer(repo, blobs, slog.Default())

	err = tn.HandleJob(context.Background(), jobBody(t, model.ThumbnailJob{UserID: "u1", FileID: "f1"}))
	if err != nil {
		t.Errorf("HandleJob = %v, недекодируемое изображение должно подтверждаться", err)
	}
}
