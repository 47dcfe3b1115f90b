package middleware

import (
	"net/http"

	"github.com/frahmantamala/grievance-management/pkg/logger"

	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestID accepts a caller supplied id or mints one, echoes it back and
// attaches it to the request logger.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.NewString()
		}

		ctx := logger.With(r.Context(), "request_id", requestID)

		w.Header().Set(RequestIDHeader, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
