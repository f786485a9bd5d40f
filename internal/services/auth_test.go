package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"boringblog/internal/apperrors"
	"boringblog/internal/config"
	"boringblog/internal/models"
	"boringblog/internal/utils"
)

// Мок-репозиторий пользователей (заглушка)
type mockUserRepo struct {
	users    map[string]*models.User // по email
	lastUser *models.User
	tokens   map[int64]map[string]bool
	nextID   int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:  map[string]*models.User{},
		tokens: map[int64]map[string]bool{},
		nextID: 1,
	}
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *models.User) error {
	user.ID = m.nextID
	m.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.users[user.Email] = user
	m.lastUser = user
	return nil
}

func (m *mockUserRepo) IsEmailTaken(_ context.Context, email string) (bool, error) {
	_, ok := m.users[email]
	return ok, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockUserRepo) GetAll(_ context.Context) ([]*models.UserListItem, error) {
	var out []*models.UserListItem
	for _, u := range m.users {
		out = append(out, &models.UserListItem{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role})
	}
	return out, nil
}

func (m *mockUserRepo) SetResetToken(_ context.Context, userID int64, token string, expiry time.Time) error {
	for _, u := range m.users {
		if u.ID == userID {
			u.ResetToken = &token
			u.ResetTokenExpiry = &expiry
			return nil
		}
	}
	return errors.New("not found")
}

func (m *mockUserRepo) GetByValidResetToken(_ context.Context, token string) (*models.User, error) {
	for _, u := range m.users {
		if u.ResetToken != nil && *u.ResetToken == token &&
			u.ResetTokenExpiry != nil && u.ResetTokenExpiry.After(time.Now()) {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, userID int64, passwordHash string) error {
	for _, u := range m.users {
		if u.ID == userID {
			u.PasswordHash = passwordHash
			u.ResetToken = nil
			u.ResetTokenExpiry = nil
			return nil
		}
	}
	return errors.New("not found")
}

func (m *mockUserRepo) SaveRefreshToken(_ context.Context, userID int64, token string) error {
	if m.tokens[userID] == nil {
		m.tokens[userID] = map[string]bool{}
	}
	m.tokens[userID][token] = true
	return nil
}

func (m *mockUserRepo) IsRefreshTokenValid(_ context.Context, userID int64, token string) (bool, error) {
	return m.tokens[userID][token], nil
}

func (m *mockUserRepo) DeleteRefreshToken(_ context.Context, userID int64, token string) error {
	delete(m.tokens[userID], token)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		AccessTokenTTL:   "15m",
		RefreshTokenTTL:  "720h",
		PasswordResetTTL: "1h",
		SiteURL:          "http://localhost:8080",
		SiteName:         "Блог",
	}
}

func seedUser(repo *mockUserRepo, email, password, role string) *models.User {
	hash, _ := utils.HashPassword(password)
	u := &models.User{Name: "Тест", Email: email, PasswordHash: hash, Role: role}
	_ = repo.CreateUser(context.Background(), u)
	return u
}

func drainEmailQueue() {
	for {
		select {
		case <-EmailQueue:
		default:
			return
		}
	}
}

func TestLogin_Success(t *testing.T) {
	repo := newMockUserRepo()
	seedUser(repo, "user@example.com", "secret123", models.RoleAuthor)
	svc := NewAuthService(repo, testConfig())

	access, refresh, user, err := svc.Login(context.Background(), "user@example.com", "secret123")
	if err != nil {
		t.Fatalf("ошибка входа: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatal("токены не выданы")
	}
	if user == nil || user.Role != models.RoleAuthor {
		t.Fatalf("пользователь не вернулся: %+v", user)
	}
	valid, _ := repo.IsRefreshTokenValid(context.Background(), user.ID, refresh)
	if !valid {
		t.Fatal("refresh-токен не сохранён")
	}
}

func TestLogin_GenericMessageForBothFailures(t *testing.T) {
	repo := newMockUserRepo()
	seedUser(repo, "user@example.com", "secret123", models.RoleAuthor)
	svc := NewAuthService(repo, testConfig())

	_, _, _, errNoUser := svc.Login(context.Background(), "nobody@example.com", "whatever")
	_, _, _, errBadPass := svc.Login(context.Background(), "user@example.com", "wrong")

	if !errors.Is(errNoUser, apperrors.ErrUnauthorized) || !errors.Is(errBadPass, apperrors.ErrUnauthorized) {
		t.Fatalf("обе ошибки должны быть 401: %v / %v", errNoUser, errBadPass)
	}
	// сообщение не раскрывает, какая половина пары не совпала
	if apperrors.Message(errNoUser) != apperrors.Message(errBadPass) {
		t.Fatalf("сообщения различаются: %q vs %q",
			apperrors.Message(errNoUser), apperrors.Message(errBadPass))
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	repo := newMockUserRepo()
	u := seedUser(repo, "user@example.com", "secret123", models.RoleAuthor)
	svc := NewAuthService(repo, testConfig())

	_, refresh, _, err := svc.Login(context.Background(), "user@example.com", "secret123")
	if err != nil {
		t.Fatalf("ошибка входа: %v", err)
	}

	_, newRefresh, err := svc.Refresh(context.Background(), u.ID, refresh)
	if err != nil {
		t.Fatalf("ошибка обновления: %v", err)
	}

	// старый токен погашен, новый действует
	if valid, _ := repo.IsRefreshTokenValid(context.Background(), u.ID, refresh); valid {
		t.Fatal("старый refresh-токен должен быть отозван")
	}
	if valid, _ := repo.IsRefreshTokenValid(context.Background(), u.ID, newRefresh); !valid {
		t.Fatal("новый refresh-токен должен действовать")
	}

	// повторное использование старого — 401
	if _, _, err := svc.Refresh(context.Background(), u.ID, refresh); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("повтор старого токена должен давать 401, получено %v", err)
	}
}

func TestInviteUser_CreatesAuthorAndQueuesEmail(t *testing.T) {
	drainEmailQueue()
	repo := newMockUserRepo()
	svc := NewAuthService(repo, testConfig())

	u, err := svc.InviteUser(context.Background(), "Новый автор", "new@example.com")
	if err != nil {
		t.Fatalf("ошибка приглашения: %v", err)
	}
	if u.Role != models.RoleAuthor {
		t.Fatalf("приглашённый должен получить роль AUTHOR, получено %q", u.Role)
	}
	if repo.lastUser.PasswordHash == "" {
		t.Fatal("временный пароль не захеширован")
	}

	select {
	case job := <-EmailQueue:
		if job.To != "new@example.com" || !job.IsHTML {
			t.Fatalf("письмо собрано неверно: %+v", job)
		}
	default:
		t.Fatal("письмо-приглашение не поставлено в очередь")
	}
}

func TestInviteUser_EmailTaken(t *testing.T) {
	repo := newMockUserRepo()
	seedUser(repo, "busy@example.com", "secret123", models.RoleAuthor)
	svc := NewAuthService(repo, testConfig())

	_, err := svc.InviteUser(context.Background(), "Кто-то", "busy@example.com")
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("занятая почта должна давать 400, получено %v", err)
	}
}

func TestForgotPassword_AlwaysSucceeds(t *testing.T) {
	drainEmailQueue()
	repo := newMockUserRepo()
	u := seedUser(repo, "user@example.com", "secret123", models.RoleAuthor)
	svc := NewAuthService(repo, testConfig())

	// неизвестная почта — успех без письма
	if err := svc.ForgotPassword(context.Background(), "nobody@example.com"); err != nil {
		t.Fatalf("неизвестная почта не должна давать ошибку: %v", err)
	}
	select {
	case job := <-EmailQueue:
		t.Fatalf("письмо не должно отправляться на незнакомую почту: %+v", job)
	default:
	}

	// известная почта — токен сохранён, письмо в очереди
	if err := svc.ForgotPassword(context.Background(), "user@example.com"); err != nil {
		t.Fatalf("ошибка запроса сброса: %v", err)
	}
	if u.ResetToken == nil || u.ResetTokenExpiry == nil {
		t.Fatal("токен сброса не сохранён")
	}
	select {
	case job := <-EmailQueue:
		if job.To != "user@example.com" {
			t.Fatalf("письмо ушло не туда: %+v", job)
		}
	default:
		t.Fatal("письмо сброса не поставлено в очередь")
	}
}

func TestResetPassword(t *testing.T) {
	drainEmailQueue()
	repo := newMockUserRepo()
	u := seedUser(repo, "user@example.com", "old-secret", models.RoleAuthor)
	svc := NewAuthService(repo, testConfig())

	if err := svc.ForgotPassword(context.Background(), "user@example.com"); err != nil {
		t.Fatalf("ошибка запроса сброса: %v", err)
	}
	token := *u.ResetToken

	// слишком короткий пароль
	if err := svc.ResetPassword(context.Background(), token, "short"); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("короткий пароль должен давать 400, получено %v", err)
	}

	// успешный сброс гасит токен
	if err := svc.ResetPassword(context.Background(), token, "new-secret-123"); err != nil {
		t.Fatalf("ошибка сброса: %v", err)
	}
	if u.ResetToken != nil {
		t.Fatal("токен сброса должен быть погашен")
	}
	if !utils.CheckPasswordHash("new-secret-123", u.PasswordHash) {
		t.Fatal("пароль не обновился")
	}

	// повторное использование токена — отказ
	if err := svc.ResetPassword(context.Background(), token, "another-secret"); !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("использованный токен должен давать 400, получено %v", err)
	}
}
