// auth.go — обработчики входа и выхода.
// GET /connect — Basic auth → сессионный токен.
// GET /disconnect — отзыв сессии по X-Token.
package handlers

import (
	"net/http"

	apierrors "github.com/bigkaa/gofilehub/internal/api/errors"
	"github.com/bigkaa/gofilehub/internal/api/middleware"
)

// connectResponse — ответ GET /connect.
type connectResponse struct {
	Token string `json:"token"`
}

// Connect — GET /connect. Проверяет Basic-учётные данные
// и возвращает свежий сессионный токен.
func (h *APIHandler) Connect(w http.ResponseWriter, r *http.Request) {
	email, password, ok := r.BasicAuth()
	if !ok {
		apierrors.Unauthorized(w, "Unauthorized")
		return
	}

	token, err := h.auth.Connect(r.Context(), email, password)
	if err != nil {
		h.writeServiceError(w, err, "Ошибка аутентификации")
		return
	}

	writeJSON(w, http.StatusOK, connectResponse{Token: token})
}

// Disconnect — GET /disconnect. Отзывает текущую сессию.
// Успех — 204 без тела; сессия мгновенно перестаёт действовать.
func (h *APIHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())

	if err := h.auth.Disconnect(r.Context(), token); err != nil {
		h.writeServiceError(w, err, "Ошибка отзыва сессии")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
