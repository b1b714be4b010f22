// Package middleware содержит HTTP middleware для SMS-шлюза.
package middleware

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/http"
	"net/url"
	"slices"
	"strings"
)

// SignatureHeader — заголовок с подписью запроса Twilio.
const SignatureHeader = "X-Twilio-Signature"

// AuthMiddleware пропускает к шлюзу только сообщения авторизованного отправителя.
// Если задан токен Twilio, дополнительно проверяется подпись запроса.
type AuthMiddleware struct {
	authorizedNumber string
	authToken        []byte
	publicURL        string
}

// NewAuthMiddleware создаёт AuthMiddleware. Пустой authToken отключает проверку подписи;
// publicURL задаёт внешний адрес сервиса, если он отличается от адреса в запросе.
func NewAuthMiddleware(authorizedNumber, authToken, publicURL string) *AuthMiddleware {
	return &AuthMiddleware{
		authorizedNumber: normalizeNumber(authorizedNumber),
		authToken:        []byte(authToken),
		publicURL:        strings.TrimRight(publicURL, "/"),
	}
}

// Middleware проверяет подпись и номер отправителя из поля From.
func (a *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		if len(a.authToken) > 0 {
			expected := a.Signature(a.requestURL(r), r.PostForm)
			if !hmac.Equal([]byte(r.Header.Get(SignatureHeader)), []byte(expected)) {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
		}

		if normalizeNumber(r.PostForm.Get("From")) != a.authorizedNumber {
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Signature вычисляет подпись Twilio: base64(HMAC-SHA1(token, URL + пары ключ-значение,
// отсортированные по ключу)).
func (a *AuthMiddleware) Signature(rawURL string, form url.Values) string {
	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var b strings.Builder
	b.WriteString(rawURL)
	for _, k := range keys {
		values := slices.Clone(form[k])
		slices.Sort(values)
		for _, v := range values {
			b.WriteString(k)
			b.WriteString(v)
		}
	}

	mac := hmac.New(sha1.New, a.authToken)
	mac.Write([]byte(b.String()))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func (a *AuthMiddleware) requestURL(r *http.Request) string {
	if a.publicURL != "" {
		return a.publicURL + r.URL.RequestURI()
	}

	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}

func normalizeNumber(number string) string {
	return strings.ReplaceAll(strings.TrimSpace(number), " ", "")
}
