// Пакет model — доменные модели File Hub.
package model

import "time"

// RootParentID — сентинел корня иерархии файлов.
// Запись с ParentID == RootParentID лежит в корне и не ссылается на папку.
const RootParentID = "0"

// FileType — тип записи файлового реестра.
type FileType string

// Допустимые типы записей.
const (
	// TypeFolder — папка, байтового содержимого не имеет.
	TypeFolder FileType = "folder"
	// TypeFile — обычный файл.
	TypeFile FileType = "file"
	// TypeImage — изображение, для него worker генерирует миниатюры.
	TypeImage FileType = "image"
)

// ValidFileType проверяет, является ли строка допустимым типом записи.
func ValidFileType(t string) bool {
	switch FileType(t) {
	case TypeFolder, TypeFile, TypeImage:
		return true
	}
	return false
}

// FileRecord — запись файлового реестра.
// Владелец (UserID) неизменяем после создания; мутируется только IsPublic.
type FileRecord struct {
	// ID — идентификатор записи (UUID), назначается при создании.
	ID string `json:"id"`
	// UserID — владелец записи.
	UserID string `json:"userId"`
	// Name — имя файла или папки (непустое).
	Name string `json:"name"`
	// Type — тип записи: folder, file, image.
	Type FileType `json:"type"`
	// IsPublic — доступна ли запись без аутентификации.
	IsPublic bool `json:"isPublic"`
	// ParentID — RootParentID или ID существующей папки.
	ParentID string `json:"parentId"`
	// LocalPath — opaque-путь содержимого в BlobStore.
	// Пустой для папок. Клиентам не отдаётся.
	LocalPath string `json:"-"`
	// CreatedAt — время создания (используется для стабильной пагинации).
	CreatedAt time.Time `json:"-"`
}

// IsFolder возвращает true для записей типа folder.
func (f *FileRecord) IsFolder() bool {
	return f.Type == TypeFolder
}

// User — пользователь системы.
// Управление пользователями — тонкий слой: upsert и проверка пароля.
type User struct {
	// ID — идентификатор пользователя (UUID).
	ID string `json:"id"`
	// Email — уникальный адрес.
	Email string `json:"email"`
	// PasswordHash — SHA-1 хэш пароля (hex). Клиентам не отдаётся.
	PasswordHash string `json:"-"`
	// CreatedAt — время регистрации.
	CreatedAt time.Time `json:"-"`
}

// ThumbnailJob — задание на генерацию миниатюр для внешнего worker'а.
// Доставка at-least-once: worker обязан быть идемпотентным.
type ThumbnailJob struct {
	// UserID — владелец файла.
	UserID string `json:"user_id"`
	// FileID — идентификатор записи типа file/image.
	FileID string `json:"file_id"`
}

// WelcomeJob — задание приветствия нового пользователя.
type WelcomeJob struct {
	// UserID — идентификатор зарегистрированного пользователя.
	UserID string `json:"user_id"`
}
