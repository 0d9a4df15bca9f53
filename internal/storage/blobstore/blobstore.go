// Пакет blobstore — хранение байтового содержимого файлов на диске.
// Оригинал пишется по свежесгенерированному opaque-пути под корневой
// директорией; производные варианты (миниатюры) лежат рядом с
// суффиксом _<size> и записываются асинхронным worker'ом.
// Все операции записи выполняются атомарно: temp → fsync → rename.
package blobstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ErrNotFound — содержимое по запрошенному пути отсутствует.
// Для варианта это штатный промах: worker мог ещё не сгенерировать файл.
var ErrNotFound = errors.New("содержимое не найдено")

// BlobStore — управление содержимым файлов на диске.
type BlobStore struct {
	// root — корневая директория хранения (FH_FOLDER_PATH)
	root string
}

// New создаёт BlobStore, создавая корневую директорию при необходимости.
func New(root string) (*BlobStore, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию хранения %s: %w", root, err)
	}
	return &BlobStore{root: root}, nil
}

// Write сохраняет payload по свежему opaque-пути и возвращает его.
// Пути уникальны (UUID), конкурентные записи не пересекаются.
func (b *BlobStore) Write(data []byte) (string, error) {
	path := filepath.Join(b.root, uuid.New().String())
	if err := writeAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// WriteVariant атомарно записывает производный вариант содержимого.
// Повторная запись того же варианта безопасна (идемпотентность worker'а).
func (b *BlobStore) WriteVariant(localPath, size string, data []byte) error {
	return writeAtomic(VariantPath(localPath, size), data)
}

// Read возвращает оригинал (size == "") или вариант <localPath>_<size>.
// Отсутствие цели — ErrNotFound, включая ещё не сгенерированный вариант.
func (b *BlobStore) Read(localPath, size string) ([]byte, error) {
	path := localPath
	if size != "" {
		path = VariantPath(localPath, size)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка чтения содержимого %s: %w", path, err)
	}
	return data, nil
}

// Exists проверяет наличие оригинала или варианта на диске.
func (b *BlobStore) Exists(localPath, size string) bool {
	path := localPath
	if size != "" {
		path = VariantPath(localPath, size)
	}
	_, err := os.Stat(path)
	return err == nil
}

// Delete удаляет оригинал с диска. Возвращает nil, если файл
// уже не существует. Используется для отката неудачной загрузки.
func (b *BlobStore) Delete(localPath string) error {
	err := os.Remove(localPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("ошибка удаления содержимого %s: %w", localPath, err)
	}
	return nil
}

// Root возвращает корневую директорию хранения.
func (b *BlobStore) Root() string {
	return b.root
}

// VariantPath возвращает путь производного варианта для данного оригинала.
func VariantPath(localPath, size string) string {
	return localPath + "_" + size
}

// writeAtomic записывает данные по пути через temp файл, fsync и rename.
// При ошибке temp файл удаляется.
func writeAtomic(path string, data []byte) error {
	tmpPath := path + ".tmp"

	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("ошибка создания временного файла: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка записи данных: %w", err)
	}

	// fsync для гарантии записи на диск
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка fsync: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка закрытия файла: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("ошибка атомарного переименования: %w", err)
	}

	return nil
}
