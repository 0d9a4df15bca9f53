package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/bigkaa/gofilehub/internal/domain/model"
	"github.com/bigkaa/gofilehub/internal/repository"
	"github.com/bigkaa/gofilehub/internal/session"
)

// --- Mock UserRepository ---

// mockUserRepo — мок репозитория пользователей.
type mockUserRepo struct {
	createFn            func(ctx context.Context, u *model.User) error
	getByEmailAndHashFn func(ctx context.Context, email, passwordHash string) (*model.User, error)
	getByIDFn           func(ctx context.Context, id string) (*model.User, error)
	countFn             func(ctx context.Context) (int64, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u *model.User) error {
	return m.createFn(ctx, u)
}

func (m *mockUserRepo) GetByEmailAndHash(ctx context.Context, email, passwordHash string) (*model.User, error) {
	return m.getByEmailAndHashFn(ctx, email, passwordHash)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockUserRepo) Count(ctx context.Context) (int64, error) {
	return m.countFn(ctx)
}

// --- Mock Sessions ---

// mockSessions — мок хранилища сессий.
type mockSessions struct {
	createFn  func(ctx context.Context, userID string) (string, error)
	resolveFn func(ctx context.Context, token string) (string, error)
	revokeFn  func(ctx context.Context, token string) error
}

func (m *mockSessions) Create(ctx context.Context, userID string) (string, error) {
	if m.createFn != nil {
		return m.createFn(ctx, userID)
	}
	return "token-1", nil
}

func (m *mockSessions) Resolve(ctx context.Context, token string) (string, error) {
	return m.resolveFn(ctx, token)
}

func (m *mockSessions) Revoke(ctx context.Context, token string) error {
	return m.revokeFn(ctx, token)
}

// --- Тесты HashPassword ---

// TestHashPassword проверяет известный SHA-1 вектор.
func TestHashPassword(t *testing.T) {
	// sha1("password") — известное значение
	want := "5baa61e4c9b93f3f0682250b6cf8331b7ee68fd8"
	if got := HashPassword("password"); got != want {
		t.Errorf("HashPassword = %q, ожидался %q", got, want)
	}
}

// --- Тесты Connect ---

// TestConnect_Success проверяет создание сессии по верным учётным данным.
func TestConnect_Success(t *testing.T) {
	users := &mockUserRepo{
		getByEmailAndHashFn: func(_ context.Context, email, hash string) (*model.User, error) {
			if email != "bob@example.com" {
				t.Errorf("email = %q, ожидался bob@example.com", email)
			}
			if hash != HashPassword("secret") {
				t.Errorf("hash = %q, ожидался хэш пароля secret", hash)
			}
			return &model.User{ID: "u1", Email: email}, nil
		},
	}
	sessions := &mockSessions{
		createFn: func(_ context.Context, userID string) (string, error) {
			if userID != "u1" {
				t.Errorf("userID = %q, ожидался u1", userID)
			}
			return "fresh-token", nil
		},
	}

	svc := NewAuthService(users, sessions, slog.Default())
	token, err := svc.Connect(context.Background(), "bob@example.com", "secret")
	if err != nil {
		t.Fatalf("Connect ошибка: %v", err)
	}
	if token != "fresh-token" {
		t.Errorf("token = %q, ожидался fresh-token", token)
	}
}

// TestConnect_WrongCredentials проверяет, что несуществующий email
// и неверный пароль неразличимы.
func TestConnect_WrongCredentials(t *testing.T) {
	users := &mockUserRepo{
		getByEmailAndHashFn: func(_ context.Context, _, _ string) (*model.User, error) {
			return nil, repository.ErrNotFound
		},
	}

	svc := NewAuthService(users, &mockSessions{}, slog.Default())
	_, err := svc.Connect(context.Background(), "bob@example.com", "wrong")
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("ошибка = %v, ожидалась ErrUnauthorized", err)
	}
}

// TestConnect_EmptyCredentials проверяет отказ без обращения к базе.
func TestConnect_EmptyCredentials(t *testing.T) {
	users := &mockUserRepo{
		getByEmailAndHashFn: func(_ context.Context, _, _ string) (*model.User, error) {
			t.Fatal("обращение к базе при пустых учётных данных")
			return nil, nil
		},
	}

	svc := NewAuthService(users, &mockSessions{}, slog.Default())

	for _, creds := range [][2]string{{"", "secret"}, {"bob@example.com", ""}, {"", ""}} {
		_, err := svc.Connect(context.Background(), creds[0], creds[1])
		if !errors.Is(err, ErrUnauthorized) {
			t.Errorf("creds %v: ошибка = %v, ожидалась ErrUnauthorized", creds, err)
		}
	}
}

// --- Тесты Disconnect ---

// TestDisconnect_UnknownToken проверяет ErrUnauthorized для
// неизвестного или истёкшего токена.
func TestDisconnect_UnknownToken(t *testing.T) {
	sessions := &mockSessions{
		revokeFn: func(_ context.Context, _ string) error {
			return session.ErrNotFound
		},
	}

	svc := NewAuthService(&mockUserRepo{}, sessions, slog.Default())
	err := svc.Disconnect(context.Background(), "stale-token")
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("ошибка = %v, ожидалась ErrUnauthorized", err)
	}
}

// TestDisconnect_Success проверяет успешный отзыв сессии.
func TestDisconnect_Success(t *testing.T) {
	revokedToken := ""
	sessions := &mockSessions{
		revokeFn: func(_ context.Context, token string) error {
			revokedToken = token
			return nil
		},
	}

	svc := NewAuthService(&mockUserRepo{}, sessions, slog.Default())
	if err := svc.Disconnect(context.Background(), "live-token"); err != nil {
		t.Fatalf("Disconnect ошибка: %v", err)
	}
	if revokedToken != "live-token" {
		t.Errorf("отозван токен %q, ожидался live-token", revokedToken)
	}
}

// --- Тесты UserService ---

// TestRegister_DuplicateEmail проверяет ValidationError "Already exist".
func TestRegister_DuplicateEmail(t *testing.T) {
	users := &mockUserRepo{
		createFn: func(_ context.Context, _ *model.User) error {
			return repository.ErrConflict
		},
	}

	svc := NewUserService(users, &mockJobs{}, slog.Default())
	_, err := svc.Register(context.Background(), "bob@example.com", "secret")

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("ошибка = %v, ожидалась ValidationError", err)
	}
	if vErr.Reason != ReasonAlreadyExist {
		t.Errorf("Reason = %q, ожидался %q", vErr.Reason, ReasonAlreadyExist)
	}
}

// TestRegister_MissingFields проверяет обязательность email и пароля.
func TestRegister_MissingFields(t *testing.T) {
	svc := NewUserService(&mockUserRepo{}, &mockJobs{}, slog.Default())

	_, err := svc.Register(context.Background(), "", "secret")
	var vErr *ValidationError
	if !errors.As(err, &vErr) || vErr.Reason != ReasonMissingEmail {
		t.Errorf("ошибка = %v, ожидалась ValidationError %q", err, ReasonMissingEmail)
	}

	_, err = svc.Register(context.Background(), "bob@example.com", "")
	if !errors.As(err, &vErr) || vErr.Reason != ReasonMissingPassword {
		t.Errorf("ошибка = %v, ожидалась ValidationError %q", err, ReasonMissingPassword)
	}
}

// TestRegister_StoresHashNotPassword проверяет, что пароль хранится
// только в виде SHA-1 хэша.
func TestRegister_StoresHashNotPassword(t *testing.T) {
	var stored *model.User

	users := &mockUserRepo{
		createFn: func(_ context.Context, u *model.User) error {
			u.ID = "u1"
			stored = u
			return nil
		},
	}

	svc := NewUserService(users, &mockJobs{}, slog.Default())
	user, err := svc.Register(context.Background(), "bob@example.com", "secret")
	if err != nil {
		t.Fatalf("Register ошибка: %v", err)
	}

	if stored.PasswordHash != HashPassword("secret") {
		t.Errorf("PasswordHash = %q, ожидался SHA-1 хэш", stored.PasswordHash)
	}
	if stored.PasswordHash == "secret" {
		t.Error("пароль сохранён открытым текстом")
	}
	if user.ID != "u1" {
		t.Errorf("ID = %q, ожидался u1", user.ID)
	}
}

// TestRegister_WelcomeFailureDoesNotFailRegistration проверяет, что сбой
// публикации приветствия не отменяет регистрацию.
func TestRegister_WelcomeFailureDoesNotFailRegistration(t *testing.T) {
	users := &mockUserRepo{
		createFn: func(_ context.Context, u *model.User) error {
			u.ID = "u1"
			return nil
		},
	}
	jobs := &mockJobs{
		welcomeFn: func(_ context.Context, _ model.WelcomeJob) error {
			return fmt.Errorf("брокер недоступен")
		},
	}

	svc := NewUserService(users, jobs, slog.Default())
	if _, err := svc.Register(context.Background(), "bob@example.com", "secret"); err != nil {
		t.Fatalf("Register ошибка: %v, сбой очереди не должен отменять регистрацию", err)
	}
}

// TestMe_DeletedUser проверяет ErrUnauthorized для пользователя,
// удалённого после создания сессии.
func TestMe_DeletedUser(t *testing.T) {
	users := &mockUserRepo{
		getByIDFn: func(_ context.Context, _ string) (*model.User, error) {
			return nil, repository.ErrNotFound
		},
	}

	svc := NewUserService(users, &mockJobs{}, slog.Default())
	_, err := svc.Me(context.Background(), "ghost")
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("ошибка = %v, ожидалась ErrUnauthorized", err)
	}
}
