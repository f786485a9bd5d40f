package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"boringblog/internal/logger"
	"boringblog/internal/models"

	"go.uber.org/zap"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, name, email, password_hash, role, reset_token, reset_token_expiry, created_at, updated_at`

func (r *UserRepository) scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	if err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&u.ResetToken, &u.ResetTokenExpiry, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	logger.Log.Info("Создание пользователя (repo)", zap.String("email", user.Email))
	query := `
	INSERT INTO users (name, email, password_hash, role)
	VALUES ($1, lower($2), $3, $4)
	RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

// IsEmailTaken — проверка без учёта регистра.
func (r *UserRepository) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = lower($1))`
	var exists bool
	err := r.db.QueryRow(ctx, query, email).Scan(&exists)
	if err != nil {
		logger.Log.Error("Ошибка проверки email (repo)", zap.Error(err))
	}
	return exists, err
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *UserRepository) GetAll(ctx context.Context) ([]*models.UserListItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, email, role, created_at FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.UserListItem
	for rows.Next() {
		var u models.UserListItem
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

// ListNames — имена авторов для sitemap. Админы в публичной навигации
// не участвуют, их страницы не публикуем.
func (r *UserRepository) ListNames(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT name FROM users WHERE role <> 'ADMIN' ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ----- Сброс пароля -----

func (r *UserRepository) SetResetToken(ctx context.Context, userID int64, token string, expiry time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET reset_token=$1, reset_token_expiry=$2, updated_at=now() WHERE id=$3`,
		token, expiry, userID)
	return err
}

// GetByValidResetToken возвращает пользователя с живым (непросроченным) токеном.
func (r *UserRepository) GetByValidResetToken(ctx context.Context, token string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		WHERE reset_token = $1 AND reset_token_expiry > now()`
	return r.scanUser(r.db.QueryRow(ctx, query, token))
}

// UpdatePassword меняет хеш и гасит токен сброса.
func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET password_hash=$1, reset_token=NULL, reset_token_expiry=NULL, updated_at=now()
		WHERE id=$2`, passwordHash, userID)
	return err
}

// ----- Refresh-токены -----

func (r *UserRepository) SaveRefreshToken(ctx context.Context, userID int64, token string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO refresh_tokens (user_id, token) VALUES ($1,$2) ON CONFLICT DO NOTHING`,
		userID, token)
	return err
}

func (r *UserRepository) IsRefreshTokenValid(ctx context.Context, userID int64, token string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM refresh_tokens WHERE user_id=$1 AND token=$2)`,
		userID, token).Scan(&exists)
	return exists, err
}

func (r *UserRepository) DeleteRefreshToken(ctx context.Context, userID int64, token string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM refresh_tokens WHERE user_id=$1 AND token=$2`, userID, token)
	return err
}
