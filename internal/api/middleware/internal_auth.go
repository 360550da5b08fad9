package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/m1shk4/PTS-BookingService/internal/api/handlers"
)

const (
	msgMissingInternalToken = "отсутствует внутренний токен"

	internalTokenHeader = "X-Internal-Token"
)

// InternalAuth возвращает middleware для внутренних маршрутов,
// вызываемых планировщиком, а не пользователями. Проверяет общий
// секрет в заголовке X-Internal-Token.
func InternalAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(internalTokenHeader)
			if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				handlers.RespondUnauthorized(w, msgMissingInternalToken)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
