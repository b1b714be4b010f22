package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const messageIDKey contextKey = "messageID"

// MessageID помещает в контекст идентификатор входящего сообщения: MessageSid
// от провайдера или новый UUID, если поле не передано.
func MessageID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.PostFormValue("MessageSid")
		if id == "" {
			id = uuid.NewString()
		}
		next.ServeHTTP(w, r.WithContext(WithMessageID(r.Context(), id)))
	})
}

// WithMessageID возвращает контекст с идентификатором сообщения.
func WithMessageID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, messageIDKey, id)
}

// GetMessageIDFromContext извлекает идентификатор сообщения из контекста запроса.
func GetMessageIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(messageIDKey).(string)
	return id, ok
}
