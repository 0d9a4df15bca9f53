package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/gofilehub/internal/domain/model"
)

// PageSize — фиксированный размер страницы листинга.
const PageSize = 20

// fileColumns — список столбцов таблицы files для SELECT-запросов.
// DRY: одно место для всех SELECT'ов.
const fileColumns = `id, user_id, name, type, is_public, parent_id, local_path, created_at`

// FileRepository — доступ к файловому реестру.
type FileRepository interface {
	// Create валидирует родителя, назначает идентификатор и сохраняет запись.
	// Дублирующиеся имена внутри одной папки допустимы.
	Create(ctx context.Context, f *model.FileRecord) error
	// GetByID возвращает запись по идентификатору без учёта владельца.
	GetByID(ctx context.Context, id string) (*model.FileRecord, error)
	// GetByIDForUser возвращает запись по идентификатору, ограниченную владельцем.
	GetByIDForUser(ctx context.Context, id, userID string) (*model.FileRecord, error)
	// ListByParent возвращает страницу записей владельца с данным parentId.
	// Страницы фиксированного размера PageSize; страница за пределами
	// набора — пустой срез, не ошибка.
	ListByParent(ctx context.Context, userID, parentID string, page int) ([]*model.FileRecord, error)
	// SetPublic атомарно выставляет is_public записи владельца.
	// ErrNotFound, если запись отсутствует или принадлежит другому пользователю.
	SetPublic(ctx context.Context, id, userID string, value bool) (*model.FileRecord, error)
	// Count возвращает общее количество записей реестра.
	Count(ctx context.Context) (int64, error)
}

// fileRepo — реализация FileRepository через pgx.
type fileRepo struct {
	db DBTX
}

// NewFileRepository создаёт репозиторий файлового реестра.
func NewFileRepository(db DBTX) FileRepository {
	return &fileRepo{db: db}
}

// Create сохраняет новую запись после валидации родителя.
// Валидация одноуровневая: родитель должен существовать и быть папкой.
func (r *fileRepo) Create(ctx context.Context, f *model.FileRecord) error {
	if err := r.validateParent(ctx, f.ParentID); err != nil {
		return err
	}

	if f.ID == "" {
		f.ID = uuid.New().String()
	}

	query := `
		INSERT INTO files (id, user_id, name, type, is_public, parent_id, local_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := r.db.QueryRow(ctx, query,
		f.ID, f.UserID, f.Name, f.Type, f.IsPublic, f.ParentID, f.LocalPath,
	).Scan(&f.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания записи файла: %w", err)
	}
	return nil
}

// validateParent проверяет кандидата parentId.
// Сентинел корня проходит без обращения к базе.
func (r *fileRepo) validateParent(ctx context.Context, parentID string) error {
	if parentID == model.RootParentID {
		return nil
	}

	var parentType model.FileType
	err := r.db.QueryRow(ctx, `SELECT type FROM files WHERE id = $1`, parentID).Scan(&parentType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrParentNotFound
		}
		return fmt.Errorf("ошибка проверки родительской записи: %w", err)
	}
	if parentType != model.TypeFolder {
		return ErrParentNotFolder
	}
	return nil
}

// GetByID возвращает запись по идентификатору или ErrNotFound.
func (r *fileRepo) GetByID(ctx context.Context, id string) (*model.FileRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM files WHERE id = $1`, fileColumns)
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

// GetByIDForUser возвращает запись по идентификатору и владельцу или ErrNotFound.
func (r *fileRepo) GetByIDForUser(ctx context.Context, id, userID string) (*model.FileRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM files WHERE id = $1 AND user_id = $2`, fileColumns)
	return r.scanOne(r.db.QueryRow(ctx, query, id, userID))
}

// ListByParent возвращает страницу page записей владельца под parentID.
// Порядок (created_at, id) стабилен: при неизменном наборе страницы
// не пропускают и не дублируют записи.
func (r *fileRepo) ListByParent(ctx context.Context, userID, parentID string, page int) ([]*model.FileRecord, error) {
	if page < 0 {
		return []*model.FileRecord{}, nil
	}

	query := fmt.Sprintf(`
		SELECT %s FROM files
		WHERE user_id = $1 AND parent_id = $2
		ORDER BY created_at, id
		LIMIT $3 OFFSET $4`, fileColumns)

	rows, err := r.db.Query(ctx, query, userID, parentID, PageSize, page*PageSize)
	if err != nil {
		return nil, fmt.Errorf("ошибка листинга файлов: %w", err)
	}
	defer rows.Close()

	result := []*model.FileRecord{}
	for rows.Next() {
		f := &model.FileRecord{}
		if err := rows.Scan(
			&f.ID, &f.UserID, &f.Name, &f.Type, &f.IsPublic, &f.ParentID, &f.LocalPath, &f.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи файла: %w", err)
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка итерации результатов: %w", err)
	}

	return result, nil
}

// SetPublic — условное обновление is_public одним UPDATE.
// Compare-and-set на стороне базы: конкурентные запросы не оставляют
// промежуточного состояния.
func (r *fileRepo) SetPublic(ctx context.Context, id, userID string, value bool) (*model.FileRecord, error) {
	query := fmt.Sprintf(`
		UPDATE files SET is_public = $3
		WHERE id = $1 AND user_id = $2
		RETURNING %s`, fileColumns)

	return r.scanOne(r.db.QueryRow(ctx, query, id, userID, value))
}

// Count возвращает количество записей файлового реестра.
func (r *fileRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM files`).Scan(&n); err != nil {
		return 0, fmt.Errorf("ошибка подсчёта файлов: %w", err)
	}
	return n, nil
}

// scanOne сканирует одну запись файла, конвертируя pgx.ErrNoRows в ErrNotFound.
func (r *fileRepo) scanOne(row pgx.Row) (*model.FileRecord, error) {
	f := &model.FileRecord{}
	err := row.Scan(
		&f.ID, &f.UserID, &f.Name, &f.Type, &f.IsPublic, &f.ParentID, &f.LocalPath, &f.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения записи файла: %w", err)
	}
	return f, nil
}
