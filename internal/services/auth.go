package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"boringblog/internal/apperrors"
	"boringblog/internal/config"
	"boringblog/internal/logger"
	"boringblog/internal/models"
	"boringblog/internal/repository"
	"boringblog/internal/utils"
	"boringblog/internal/utils/helpers"
)

// UserRepo — то, что auth-сервису нужно от хранилища пользователей.
type UserRepo interface {
	CreateUser(ctx context.Context, user *models.User) error
	IsEmailTaken(ctx context.Context, email string) (bool, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetAll(ctx context.Context) ([]*models.UserListItem, error)
	SetResetToken(ctx context.Context, userID int64, token string, expiry time.Time) error
	GetByValidResetToken(ctx context.Context, token string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	SaveRefreshToken(ctx context.Context, userID int64, token string) error
	IsRefreshTokenValid(ctx context.Context, userID int64, token string) (bool, error)
	DeleteRefreshToken(ctx context.Context, userID int64, token string) error
}

type AuthService struct {
	repo UserRepo
	cfg  *config.Config
}

func NewAuthService(repo UserRepo, cfg *config.Config) *AuthService {
	return &AuthService{repo: repo, cfg: cfg}
}

// Единое сообщение для неверной почты и неверного пароля:
// не подсказываем, какая половина не совпала.
const msgBadCredentials = "неверная почта или пароль"

func (s *AuthService) accessTTL() time.Duration {
	d, err := time.ParseDuration(s.cfg.AccessTokenTTL)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}

func (s *AuthService) refreshTTL() time.Duration {
	d, err := time.ParseDuration(s.cfg.RefreshTokenTTL)
	if err != nil {
		return 720 * time.Hour
	}
	return d
}

// Login проверяет пару почта/пароль и выдаёт пару токенов.
func (s *AuthService) Login(ctx context.Context, email, password string) (accessToken, refreshToken string, user *models.User, err error) {
	log := logger.WithCtx(ctx)

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Warn("Вход: пользователь не найден", zap.String("email", email))
			return "", "", nil, apperrors.Wrap(apperrors.ErrUnauthorized, msgBadCredentials)
		}
		log.Error("Вход: ошибка repo", zap.Error(err))
		return "", "", nil, err
	}

	if !utils.CheckPasswordHash(password, u.PasswordHash) {
		log.Warn("Вход: неверный пароль", zap.Int64("user_id", u.ID))
		return "", "", nil, apperrors.Wrap(apperrors.ErrUnauthorized, msgBadCredentials)
	}

	accessToken, err = utils.GenerateToken(s.cfg.JWTSecret, u.ID, u.Role, u.Name, s.accessTTL(), "access")
	if err != nil {
		return "", "", nil, err
	}
	refreshToken, err = utils.GenerateToken(s.cfg.JWTSecret, u.ID, u.Role, u.Name, s.refreshTTL(), "refresh")
	if err != nil {
		return "", "", nil, err
	}
	if err := s.repo.SaveRefreshToken(ctx, u.ID, refreshToken); err != nil {
		log.Error("Вход: не удалось сохранить refresh-токен", zap.Error(err))
		return "", "", nil, err
	}

	log.Info("Успешный вход", zap.Int64("user_id", u.ID), zap.String("role", u.Role))
	return accessToken, refreshToken, u, nil
}

// Refresh обменивает действующий refresh-токен на новую пару.
// Старый токен при этом гасится (ротация).
func (s *AuthService) Refresh(ctx context.Context, userID int64, token string) (accessToken, refreshToken string, err error) {
	log := logger.WithCtx(ctx)

	valid, err := s.repo.IsRefreshTokenValid(ctx, userID, token)
	if err != nil {
		log.Error("Refresh: ошибка repo", zap.Error(err))
		return "", "", err
	}
	if !valid {
		log.Warn("Refresh: токен не найден", zap.Int64("user_id", userID))
		return "", "", apperrors.Wrap(apperrors.ErrUnauthorized, "недействительный refresh-токен")
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", apperrors.Wrap(apperrors.ErrUnauthorized, "недействительный refresh-токен")
		}
		return "", "", err
	}

	accessToken, err = utils.GenerateToken(s.cfg.JWTSecret, u.ID, u.Role, u.Name, s.accessTTL(), "access")
	if err != nil {
		return "", "", err
	}
	refreshToken, err = utils.GenerateToken(s.cfg.JWTSecret, u.ID, u.Role, u.Name, s.refreshTTL(), "refresh")
	if err != nil {
		return "", "", err
	}

	if err := s.repo.DeleteRefreshToken(ctx, userID, token); err != nil {
		return "", "", err
	}
	if err := s.repo.SaveRefreshToken(ctx, u.ID, refreshToken); err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (s *AuthService) Logout(ctx context.Context, userID int64, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.repo.DeleteRefreshToken(ctx, userID, refreshToken)
}

func (s *AuthService) Me(ctx context.Context, userID int64) (*models.User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "пользователь не найден")
		}
		return nil, err
	}
	return u, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]*models.UserListItem, error) {
	users, err := s.repo.GetAll(ctx)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка получения списка пользователей (repo)", zap.Error(err))
		return nil, err
	}
	if users == nil {
		users = []*models.UserListItem{}
	}
	return users, nil
}

// InviteUser создаёт автора с временным паролем и шлёт приглашение на почту.
func (s *AuthService) InviteUser(ctx context.Context, name, email string) (*models.User, error) {
	log := logger.WithCtx(ctx)

	if name == "" || email == "" {
		return nil, apperrors.Wrap(apperrors.ErrValidation, "имя и почта обязательны")
	}

	taken, err := s.repo.IsEmailTaken(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		log.Warn("Приглашение: почта уже занята", zap.String("email", email))
		return nil, apperrors.Wrap(apperrors.ErrValidation, "пользователь с такой почтой уже существует")
	}

	tempPassword := utils.GenerateTempPassword()
	hash, err := utils.HashPassword(tempPassword)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAuthor,
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.Wrap(apperrors.ErrValidation, "пользователь с такой почтой уже существует")
		}
		log.Error("Приглашение: ошибка создания пользователя (repo)", zap.Error(err))
		return nil, err
	}

	loginLink := s.cfg.SiteURL + "/login"
	EmailQueue <- EmailJob{
		To:      email,
		Subject: "Приглашение в " + s.cfg.SiteName,
		Body:    helpers.BuildInviteHTML(name, email, tempPassword, loginLink),
		IsHTML:  true,
	}

	log.Info("Автор приглашён", zap.Int64("user_id", u.ID), zap.String("email", email))
	return u, nil
}

// ForgotPassword всегда отвечает успехом — существование почты не раскрываем.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	log := logger.WithCtx(ctx)

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Info("Сброс пароля: почта не найдена, отвечаем успехом", zap.String("email", email))
			return nil
		}
		log.Error("Сброс пароля: ошибка repo", zap.Error(err))
		return err
	}

	token := utils.GenerateResetToken()
	ttl, err := time.ParseDuration(s.cfg.PasswordResetTTL)
	if err != nil {
		ttl = time.Hour
	}
	if err := s.repo.SetResetToken(ctx, u.ID, token, time.Now().Add(ttl)); err != nil {
		log.Error("Сброс пароля: не удалось сохранить токен", zap.Error(err))
		return err
	}

	resetLink := s.cfg.SiteURL + "/reset-password?token=" + token
	EmailQueue <- EmailJob{
		To:      u.Email,
		Subject: "Сброс пароля — " + s.cfg.SiteName,
		Body:    helpers.BuildPasswordResetHTML(resetLink),
		IsHTML:  true,
	}

	log.Info("Письмо сброса пароля поставлено в очередь", zap.Int64("user_id", u.ID))
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	log := logger.WithCtx(ctx)

	if len(newPassword) < 8 {
		return apperrors.Wrap(apperrors.ErrValidation, "пароль должен быть не короче 8 символов")
	}

	u, err := s.repo.GetByValidResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Warn("Сброс пароля: токен недействителен или просрочен")
			return apperrors.Wrap(apperrors.ErrValidation, "токен недействителен или просрочен")
		}
		return err
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, u.ID, hash); err != nil {
		log.Error("Сброс пароля: не удалось обновить пароль", zap.Error(err))
		return err
	}

	log.Info("Пароль сброшен", zap.Int64("user_id", u.ID))
	return nil
}
