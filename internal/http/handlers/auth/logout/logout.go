// Package logout завершает клиентскую сессию.
//
// Токены без состояния, сервер ничего не отзывает: клиент обязан
// удалить токен у себя. Обработчик существует ради единообразия API.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/star-housekeeping/portal/internal/http/response"
)

type Handler struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Handler {
	return &Handler{
		log: log,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "logged out",
	}))
}
