package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"taskKeeper/internal/logger"
	"taskKeeper/internal/service"

	"go.uber.org/zap"
)

const IdentityKey contextKey = "identity"

// TokenVerifier - ворота авторизации, реализуется AuthService
type TokenVerifier interface {
	Verify(ctx context.Context, accessToken string) (*service.Identity, error)
}

// Auth проверяет Bearer-токен и кладёт идентичность в контекст запроса.
// Версия токена сверяется с хранилищем на каждом запросе
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				logger.Warn("HTTP: Запрос без токена",
					zap.String("path", r.URL.Path),
					zap.String("client_ip", r.RemoteAddr))

				unauthorized(w, "UNAUTHORIZED", "Токен не передан")
				return
			}

			identity, err := verifier.Verify(r.Context(), token)
			if err != nil {
				code := "UNAUTHORIZED"
				message := "Токен невалиден"
				var businessErr *service.BusinessError
				if errors.As(err, &businessErr) {
					code = businessErr.Code
					message = businessErr.Message
				}

				logger.Warn("HTTP: Отказ в авторизации",
					zap.String("path", r.URL.Path),
					zap.String("error_code", code),
					zap.String("client_ip", r.RemoteAddr))

				unauthorized(w, code, message)
				return
			}

			ctx := context.WithValue(r.Context(), IdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetIdentity(ctx context.Context) (*service.Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(*service.Identity)
	return identity, ok
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func unauthorized(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"error":   code,
		"message": message,
	})
}
