// Пакет service — бизнес-логика File Hub.
// errors.go — виды ошибок доменного слоя. Каждый gate конвейеров
// FileService завершает запрос ровно одним из этих видов; HTTP-слой
// транслирует их в фиксированные статус-коды.
package service

import "errors"

var (
	// ErrUnauthorized — отсутствующий, невалидный или истёкший токен,
	// либо несовпадение учётных данных.
	ErrUnauthorized = errors.New("не аутентифицирован")
	// ErrNotFound — запись отсутствует, не принадлежит пользователю или
	// приватна для не-владельца. Случаи намеренно неразличимы:
	// существование приватного файла не раскрывается.
	ErrNotFound = errors.New("не найдено")
	// ErrFolderWithoutContent — попытка чтения байтового содержимого папки.
	ErrFolderWithoutContent = errors.New("папка не имеет содержимого")
)

// ValidationError — некорректные входные данные запроса.
// Reason — машинно-стабильное сообщение для клиента.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Причины валидационных ошибок — контракт API.
const (
	ReasonMissingName     = "Missing name"
	ReasonMissingType     = "Missing type"
	ReasonMissingData     = "Missing data"
	ReasonInvalidData     = "Invalid data"
	ReasonParentNotFound  = "Parent not found"
	ReasonParentNotFolder = "Parent is not a folder"
	ReasonMissingEmail    = "Missing email"
	ReasonMissingPassword = "Missing password"
	ReasonAlreadyExist    = "Already exist"
)

// newValidationError создаёт ValidationError с данной причиной.
func newValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}
