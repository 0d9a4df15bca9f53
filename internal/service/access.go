// access.go — чистая логика контроля доступа к записям реестра.
package service

import "github.com/bigkaa/gofilehub/internal/domain/model"

// CanRead решает, доступна ли запись для чтения.
// userID — идентификатор аутентифицированного пользователя,
// пустая строка — анонимный запрос.
// Приватная чужая запись недоступна; вызывающий код отдаёт 404,
// а не 403 — существование записи не раскрывается.
func CanRead(rec *model.FileRecord, userID string) bool {
	if rec.IsPublic {
		return true
	}
	return userID != "" && userID == rec.UserID
}

// CanWrite решает, доступна ли запись для изменения: только владельцу.
func CanWrite(rec *model.FileRecord, userID string) bool {
	return userID != "" && userID == rec.UserID
}
