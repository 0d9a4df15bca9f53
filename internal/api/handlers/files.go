// files.go — обработчики файлового реестра.
// POST /files, GET /files, GET /files/{id},
// PUT /files/{id}/publish|unpublish, GET /files/{id}/data.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/bigkaa/gofilehub/internal/api/errors"
	"github.com/bigkaa/gofilehub/internal/api/middleware"
	"github.com/bigkaa/gofilehub/internal/service"
)

// uploadRequest — тело запроса POST /files.
type uploadRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Data     string `json:"data"`
	IsPublic bool   `json:"isPublic"`
	ParentID string `json:"parentId"`
}

// UploadFile — POST /files. Создаёт запись реестра; file/image — с содержимым.
func (h *APIHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Invalid JSON body")
		return
	}

	rec, err := h.files.Upload(r.Context(), userID, service.UploadParams{
		Name:     req.Name,
		Type:     req.Type,
		Data:     req.Data,
		IsPublic: req.IsPublic,
		ParentID: req.ParentID,
	})
	if err != nil {
		h.writeServiceError(w, err, "Ошибка загрузки файла")
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

// GetFile — GET /files/{id}. Метаданные записи владельца.
func (h *APIHandler) GetFile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	fileID := chi.URLParam(r, "id")

	rec, err := h.files.Show(r.Context(), userID, fileID)
	if err != nil {
		h.writeServiceError(w, err, "Ошибка получения файла")
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// ListFiles — GET /files?parentId=&page=. Страница записей владельца.
// Невалидный page трактуется как 0; страница за пределами — пустой массив.
func (h *APIHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	parentID := r.URL.Query().Get("parentId")

	page := 0
	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			page = n
		}
	}

	records, err := h.files.List(r.Context(), userID, parentID, page)
	if err != nil {
		h.writeServiceError(w, err, "Ошибка листинга файлов")
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// PublishFile — PUT /files/{id}/publish. Делает запись публичной.
func (h *APIHandler) PublishFile(w http.ResponseWriter, r *http.Request) {
	h.setPublic(w, r, true)
}

// UnpublishFile — PUT /files/{id}/unpublish. Делает запись приватной.
func (h *APIHandler) UnpublishFile(w http.ResponseWriter, r *http.Request) {
	h.setPublic(w, r, false)
}

// setPublic — общая реализация publish/unpublish.
func (h *APIHandler) setPublic(w http.ResponseWriter, r *http.Request, value bool) {
	userID := middleware.UserIDFromContext(r.Context())
	fileID := chi.URLParam(r, "id")

	rec, err := h.files.SetPublic(r.Context(), userID, fileID, value)
	if err != nil {
		h.writeServiceError(w, err, "Ошибка изменения видимости файла")
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// GetFileData — GET /files/{id}/data?size=. Байтовое содержимое файла.
// Доступен анонимно для публичных файлов (Optional auth middleware).
func (h *APIHandler) GetFileData(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	fileID := chi.URLParam(r, "id")
	size := r.URL.Query().Get("size")

	result, err := h.files.Download(r.Context(), userID, fileID, size)
	if err != nil {
		h.writeServiceError(w, err, "Ошибка скачивания файла")
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Data)
}
