package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"boringblog/internal/logger"
	"boringblog/internal/reqctx"
)

// SessionCookie — имя cookie с access-токеном (для браузерных клиентов;
// API-клиенты шлют Bearer-заголовок).
const SessionCookie = "blog_session"

// JWTAuth требует валидный access-токен и кладёт личность в контекст.
func JWTAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			tokenString := extractToken(r)
			if tokenString == "" {
				logger.WithCtx(r.Context()).Warn("JWTAuth: отсутствует access token")
				http.Error(w, "Отсутствует access token", http.StatusUnauthorized)
				return
			}

			ctx, err := contextFromToken(r, secret, tokenString)
			if err != nil {
				logger.WithCtx(r.Context()).Warn("JWTAuth: неверный или просроченный токен", zap.Error(err))
				http.Error(w, "Неверный или просроченный токен", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Identify — мягкий вариант JWTAuth для публичных маршрутов: если токен
// есть и валиден, личность попадает в контекст; если нет — запрос идёт
// дальше анонимно. Так автор видит свои черновики по прямой ссылке.
func Identify(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractToken(r)
			if tokenString == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx, err := contextFromToken(r, secret, tokenString)
			if err != nil {
				// просроченный токен на публичном маршруте — не ошибка
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

func contextFromToken(r *http.Request, secret, tokenString string) (ctx context.Context, err error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		if err == nil {
			err = jwt.ErrTokenUnverifiable
		}
		return nil, err
	}

	if t, _ := claims["token_type"].(string); t != "access" {
		return nil, jwt.ErrTokenInvalidClaims
	}

	userID, ok1 := claims["user_id"].(float64)
	role, ok2 := claims["role"].(string)
	if !ok1 || !ok2 {
		return nil, jwt.ErrTokenInvalidClaims
	}
	name, _ := claims["name"].(string)

	ctx = reqctx.WithUserID(r.Context(), int64(userID))
	ctx = reqctx.WithRole(ctx, role)
	ctx = reqctx.WithName(ctx, name)
	return ctx, nil
}
