// Package handler содержит HTTP-обработчик webhook входящих SMS.
package handler

import (
	"context"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/mmeshcher/sms-gateway/internal/middleware"
)

// Service определяет контракт обработки сообщений, используемый HTTP-обработчиками.
type Service interface {
	HandleMessage(ctx context.Context, text string) string
}

// Handler реализует HTTP-обработчики SMS-шлюза.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
	limiter        *rate.Limiter
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов. Если limiter равен nil,
// ограничение частоты не применяется.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware, limiter *rate.Limiter) *Handler {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}
	return &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: auth,
		limiter:        limiter,
	}
}

// ReceiveSMS принимает form-encoded webhook с полями Body и From и отвечает документом TwiML.
func (h *Handler) ReceiveSMS(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	body := r.PostForm.Get("Body")
	messageID, _ := middleware.GetMessageIDFromContext(r.Context())

	h.logger.Info("sms received",
		zap.String("from", r.PostForm.Get("From")),
		zap.String("body", body),
		zap.String("message_id", messageID),
	)

	reply := h.service.HandleMessage(r.Context(), body)

	if err := writeTwiML(w, reply); err != nil {
		h.logger.Error("write reply", zap.Error(err), zap.String("message_id", messageID))
	}
}
