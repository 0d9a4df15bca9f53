// users.go — обработчики пользователей.
// POST /users — регистрация; GET /users/me — профиль по сессии.
package handlers

import (
	"encoding/json"
	"net/http"

	apierrors "github.com/bigkaa/gofilehub/internal/api/errors"
	"github.com/bigkaa/gofilehub/internal/api/middleware"
)

// registerRequest — тело запроса POST /users.
type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterUser — POST /users. Регистрирует нового пользователя.
func (h *APIHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Invalid JSON body")
		return
	}

	user, err := h.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeServiceError(w, err, "Ошибка регистрации пользователя")
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Me — GET /users/me. Профиль аутентифицированного пользователя.
func (h *APIHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	user, err := h.users.Me(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err, "Ошибка получения профиля")
		return
	}

	writeJSON(w, http.StatusOK, user)
}
