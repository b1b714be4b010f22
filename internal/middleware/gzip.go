package middleware

import (
	"io"
	"net/http"
	"strings"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"
)

var compressibleTypes = map[string]struct{}{
	"application/json": {},
	"application/xml":  {},
	"text/xml":         {},
	"text/html":        {},
	"text/plain":       {},
}

type gzipResponseWriter struct {
	http.ResponseWriter
	gz      *gzip.Writer
	accept  bool
	decided bool
}

func (w *gzipResponseWriter) WriteHeader(code int) {
	if !w.decided {
		w.decided = true
		ct, _, _ := strings.Cut(w.Header().Get("Content-Type"), ";")
		if _, ok := compressibleTypes[strings.TrimSpace(ct)]; ok {
			// Ответ зависит от Accept-Encoding независимо от того, сжат ли он.
			w.Header().Add("Vary", "Accept-Encoding")
			if w.accept {
				w.Header().Set("Content-Encoding", "gzip")
				w.Header().Del("Content-Length")
				w.gz = gzip.NewWriter(w.ResponseWriter)
			}
		}
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	if !w.decided {
		w.WriteHeader(http.StatusOK)
	}
	if w.gz != nil {
		return w.gz.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

func (w *gzipResponseWriter) close() error {
	if w.gz != nil {
		return w.gz.Close()
	}
	return nil
}

type gzipReadCloser struct {
	*gzip.Reader
	body io.Closer
}

func (r *gzipReadCloser) Close() error {
	if err := r.Reader.Close(); err != nil {
		return err
	}
	return r.body.Close()
}

// GzipMiddleware распаковывает тела запросов с Content-Encoding: gzip и сжимает
// текстовые ответы для клиентов, принимающих gzip. Ошибка завершения сжатого
// потока пишется в лог: заголовки к этому моменту уже отправлены.
func GzipMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return gzipHandler(next, logger)
	}
}

func gzipHandler(next http.Handler, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.Header.Get("Content-Encoding"), "gzip") {
			gr, err := gzip.NewReader(r.Body)
			if err != nil {
				http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
				return
			}
			r.Body = &gzipReadCloser{Reader: gr, body: r.Body}
			r.Header.Del("Content-Encoding")
			r.ContentLength = -1
		}

		gw := &gzipResponseWriter{
			ResponseWriter: w,
			accept:         strings.Contains(r.Header.Get("Accept-Encoding"), "gzip"),
		}
		defer func() {
			if err := gw.close(); err != nil {
				logger.Warn("finish gzip response",
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
			}
		}()

		next.ServeHTTP(gw, r)
	})
}
