package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	custommiddleware "github.com/mmeshcher/sms-gateway/internal/middleware"
)

const serviceName = "sms-gateway"

// SetupRouter настраивает HTTP-маршруты и middleware SMS-шлюза.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(custommiddleware.GzipMiddleware(h.logger))
	r.Use(custommiddleware.Logger(h.logger))
	r.Use(custommiddleware.Tracing(serviceName))

	r.Group(func(r chi.Router) {
		// Лимит применяется только к запросам авторизованного отправителя.
		r.Use(h.authMiddleware.Middleware)
		r.Use(custommiddleware.RateLimit(h.limiter))
		r.Use(custommiddleware.MessageID)

		r.Post("/sms", h.ReceiveSMS)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
