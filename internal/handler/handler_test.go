package handler

import (
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/mmeshcher/sms-gateway/internal/middleware"
)

const testNumber = "+15551234567"

type stubService struct {
	reply string

	calls     int
	text      string
	messageID string
}

func (s *stubService) HandleMessage(ctx context.Context, text string) string {
	s.calls++
	s.text = text
	s.messageID, _ = middleware.GetMessageIDFromContext(ctx)
	return s.reply
}

func newTestHandler(t *testing.T, svc Service, limiter *rate.Limiter) *Handler {
	t.Helper()

	logger, err := zap.NewDevelopment()
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	auth := middleware.NewAuthMiddleware(testNumber, "", "")

	return NewHandler(svc, logger, auth, limiter)
}

func newSMSRequest(from, body string) *http.Request {
	form := url.Values{
		"From":       {from},
		"Body":       {body},
		"MessageSid": {"SM0001"},
	}
	req := httptest.NewRequest(http.MethodPost, "/sms", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func decodeTwiML(t *testing.T, res *http.Response) twimlResponse {
	t.Helper()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.HasPrefix(string(raw), "<?xml") {
		t.Fatalf("body %q has no xml header", raw)
	}

	var doc twimlResponse
	if err := xml.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal twiml: %v", err)
	}
	return doc
}

func TestReceiveSMS_RepliesWithTwiML(t *testing.T) {
	svc := &stubService{reply: "Logged mileage: 2025-06-05, Kevin, start, 12.5 miles"}
	h := newTestHandler(t, svc, nil)

	rec := httptest.NewRecorder()
	h.ReceiveSMS(rec, newSMSRequest(testNumber, "MILEAGE, 2025-06-05, Kevin, start, 12.5"))

	res := rec.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/xml" {
		t.Fatalf("content-type = %q, want application/xml", ct)
	}
	if svc.text != "MILEAGE, 2025-06-05, Kevin, start, 12.5" {
		t.Fatalf("service got %q", svc.text)
	}
	if doc := decodeTwiML(t, res); doc.Message != svc.reply {
		t.Fatalf("message = %q, want %q", doc.Message, svc.reply)
	}
}

func TestRouter_AuthorizedSender(t *testing.T) {
	svc := &stubService{reply: "Sorry, it's <down> & out"}
	h := newTestHandler(t, svc, nil)

	rec := httptest.NewRecorder()
	h.SetupRouter().ServeHTTP(rec, newSMSRequest(testNumber, "PAY"))

	res := rec.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}
	if svc.messageID != "SM0001" {
		t.Fatalf("message id = %q, want SM0001", svc.messageID)
	}
	if doc := decodeTwiML(t, res); doc.Message != svc.reply {
		t.Fatalf("message = %q, want %q", doc.Message, svc.reply)
	}
}

func TestRouter_UnauthorizedSender(t *testing.T) {
	svc := &stubService{reply: "never"}
	h := newTestHandler(t, svc, nil)

	rec := httptest.NewRecorder()
	h.SetupRouter().ServeHTTP(rec, newSMSRequest("+15550000000", "PROCESS"))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if svc.calls != 0 {
		t.Fatalf("service called %d times, want 0", svc.calls)
	}
}

func TestRouter_RateLimited(t *testing.T) {
	svc := &stubService{reply: "ok"}
	h := newTestHandler(t, svc, rate.NewLimiter(rate.Limit(0), 1))
	router := h.SetupRouter()

	first := httptest.NewRecorder()
	router.ServeHTTP(first, newSMSRequest(testNumber, "PAY"))
	second := httptest.NewRecorder()
	router.ServeHTTP(second, newSMSRequest(testNumber, "PAY"))

	if first.Code != http.StatusOK {
		t.Fatalf("first status = %d, want %d", first.Code, http.StatusOK)
	}
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second status = %d, want %d", second.Code, http.StatusTooManyRequests)
	}
	if svc.calls != 1 {
		t.Fatalf("service called %d times, want 1", svc.calls)
	}
}

func TestRouter_StrangersDoNotConsumeRateLimit(t *testing.T) {
	svc := &stubService{reply: "ok"}
	h := newTestHandler(t, svc, rate.NewLimiter(rate.Limit(0), 1))
	router := h.SetupRouter()

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, newSMSRequest("+19999999999", "PAY"))
		if rec.Code != http.StatusForbidden {
			t.Fatalf("stranger request %d: status = %d, want %d", i, rec.Code, http.StatusForbidden)
		}
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, newSMSRequest(testNumber, "PAY"))
	if rec.Code != http.StatusOK {
		t.Fatalf("authorized status = %d, want %d", rec.Code, http.StatusOK)
	}
	if svc.calls != 1 {
		t.Fatalf("service called %d times, want 1", svc.calls)
	}
}

func TestRouter_NotFoundAndMethodNotAllowed(t *testing.T) {
	h := newTestHandler(t, &stubService{}, nil)
	router := h.SetupRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sms", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET /sms status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/unknown", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("POST /unknown status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
