package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"
)

func TestMessageID(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
		want string
	}{
		{name: "provider sid", form: url.Values{"MessageSid": {"SM42"}}, want: "SM42"},
		{name: "generated", form: url.Values{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				id, ok := GetMessageIDFromContext(r.Context())
				if !ok {
					t.Fatalf("message id not in context")
				}
				got = id
			})

			MessageID(next).ServeHTTP(httptest.NewRecorder(), newFormRequest(t, tt.form))

			if tt.want != "" {
				if got != tt.want {
					t.Fatalf("message id = %q, want %q", got, tt.want)
				}
				return
			}
			if _, err := uuid.Parse(got); err != nil {
				t.Fatalf("generated id %q is not a UUID: %v", got, err)
			}
		})
	}
}
