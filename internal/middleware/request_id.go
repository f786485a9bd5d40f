package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"boringblog/internal/reqctx"
)

// RequestID присваивает запросу идентификатор (или принимает клиентский)
// и возвращает его в заголовке ответа.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", rid)
		next.ServeHTTP(w, r.WithContext(reqctx.WithRequestID(r.Context(), rid)))
	})
}
