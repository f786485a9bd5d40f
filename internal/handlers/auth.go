package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"boringblog/internal/config"
	"boringblog/internal/logger"
	"boringblog/internal/middleware"
	"boringblog/internal/models"
	"boringblog/internal/reqctx"
	"boringblog/internal/services"
	helpers "boringblog/internal/utils/helpers"
)

type AuthHandler struct {
	authService  *services.AuthService
	cfg          *config.Config
	loginLimiter *middleware.LoginLimiter
}

func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		cfg:          cfg,
		loginLimiter: middleware.NewLoginLimiter(5, time.Minute),
	}
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.cfg.Env == "prod",
	})
}

// Login godoc
// @Summary Вход
// @Tags auth
// @Accept json
// @Produce json
// @Param input body models.LoginRequest true "Почта и пароль"
// @Success 200 {object} models.AuthResponse
// @Failure 401 {string} string "Неверная почта или пароль"
// @Failure 429 {string} string "Слишком много попыток"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ip := middleware.ClientIP(r)
	if !h.loginLimiter.Allow(ip) {
		logger.WithCtx(r.Context()).Warn("Вход: превышен лимит попыток", zap.String("ip", ip))
		helpers.Error(w, http.StatusTooManyRequests, "слишком много попыток входа, попробуйте позже")
		return
	}

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	access, refresh, user, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		helpers.ErrorFrom(w, err)
		return
	}

	ttl, perr := time.ParseDuration(h.cfg.AccessTokenTTL)
	if perr != nil {
		ttl = 15 * time.Minute
	}
	h.setSessionCookie(w, access, ttl)

	helpers.JSON(w, http.StatusOK, models.AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         user,
	})
}

// Refresh godoc
// @Summary Обновить пару токенов
// @Tags auth
// @Accept json
// @Produce json
// @Param input body models.RefreshRequest true "Refresh-токен"
// @Success 200 {object} models.AuthResponse
// @Failure 401 {string} string "Недействительный refresh-токен"
// @Router /api/auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	userID, ok := h.refreshTokenUserID(req.RefreshToken)
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "недействительный refresh-токен")
		return
	}

	access, refresh, err := h.authService.Refresh(r.Context(), userID, req.RefreshToken)
	if err != nil {
		helpers.ErrorFrom(w, err)
		return
	}

	ttl, perr := time.ParseDuration(h.cfg.AccessTokenTTL)
	if perr != nil {
		ttl = 15 * time.Minute
	}
	h.setSessionCookie(w, access, ttl)

	helpers.JSON(w, http.StatusOK, models.AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
	})
}

// refreshTokenUserID валидирует refresh-токен и достаёт из него user_id.
func (h *AuthHandler) refreshTokenUserID(tokenString string) (int64, bool) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(h.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, false
	}
	if t, _ := claims["token_type"].(string); t != "refresh" {
		return 0, false
	}
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, false
	}
	return int64(userID), true
}

// Logout godoc
// @Summary Выход
// @Tags auth
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.RefreshRequest false "Refresh-токен для отзыва"
// @Success 200 {string} string "Выход выполнен"
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, _ := reqctx.GetUserID(r.Context())

	var req models.RefreshRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	if err := h.authService.Logout(r.Context(), userID, req.RefreshToken); err != nil {
		logger.WithCtx(r.Context()).Error("Выход: ошибка отзыва токена", zap.Error(err))
	}

	// гасим cookie сессии
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	helpers.JSON(w, http.StatusOK, "выход выполнен")
}

// Me godoc
// @Summary Текущий пользователь
// @Tags auth
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {string} string "Требуется вход"
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := reqctx.GetUserID(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "требуется вход")
		return
	}

	user, err := h.authService.Me(r.Context(), userID)
	if err != nil {
		helpers.ErrorFrom(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, user)
}

// ForgotPassword godoc
// @Summary Запросить сброс пароля
// @Description Всегда отвечает успехом, существование почты не раскрывается
// @Tags auth
// @Accept json
// @Produce json
// @Param input body models.ForgotPasswordRequest true "Почта"
// @Success 200 {string} string "Письмо отправлено, если почта существует"
// @Router /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	if err := h.authService.ForgotPassword(r.Context(), req.Email); err != nil {
		helpers.ErrorFrom(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "если почта зарегистрирована, письмо отправлено")
}

// ResetPassword godoc
// @Summary Сбросить пароль по токену
// @Tags auth
// @Accept json
// @Produce json
// @Param input body models.ResetPasswordRequest true "Токен и новый пароль"
// @Success 200 {string} string "Пароль изменён"
// @Failure 400 {string} string "Токен недействителен или пароль слишком короткий"
// @Router /api/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	if err := h.authService.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		helpers.ErrorFrom(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "пароль изменён")
}
