package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"crm_backend/internal/auth/repository"
	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"
)

type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]repository.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]repository.User)}
}

func (f *fakeUserStore) Create(_ context.Context, email, name, passwordHash string, roles []string) (repository.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user := repository.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(email),
		Name:         name,
		PasswordHash: passwordHash,
		Roles:        roles,
		CreatedAt:    time.Now(),
	}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (repository.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == strings.ToLower(email) {
			return user, nil
		}
	}
	return repository.User{}, apperr.NotFound("user not found")
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (repository.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return repository.User{}, apperr.NotFound("user not found")
	}
	return user, nil
}

type testConfig struct {
	adminEmail    string
	adminPassword string
}

func (testConfig) GetJWTAccessSecret() string        { return "access-secret" }
func (testConfig) GetJWTRefreshSecret() string       { return "refresh-secret" }
func (testConfig) GetAccessTokenTTL() time.Duration  { return 15 * time.Minute }
func (testConfig) GetRefreshTokenTTL() time.Duration { return 720 * time.Hour }
func (c testConfig) GetAdminEmail() string           { return c.adminEmail }
func (c testConfig) GetAdminPassword() string        { return c.adminPassword }

func newTestService(cfg testConfig) (*Service, *fakeUserStore) {
	repo := newFakeUserStore()
	return New(repo, cfg, logger.New("test")), repo
}

func seedUser(t *testing.T, repo *fakeUserStore, email, password string, roles []string) repository.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	user, err := repo.Create(context.Background(), email, "Test User", string(hash), roles)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestLoginSuccess(t *testing.T) {
	svc, repo := newTestService(testConfig{})
	seedUser(t, repo, "sales@example.test", "s3cret-pass", []string{"admin"})

	pair, user, err := svc.Login(context.Background(), "sales@example.test", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("Login() returned empty tokens")
	}
	if user.Email != "sales@example.test" {
		t.Errorf("user email = %q", user.Email)
	}

	claims := parseClaims(t, pair.AccessToken, "access-secret")
	if claims["type"] != "access" {
		t.Errorf("access token type = %v", claims["type"])
	}
	if claims["sub"] != user.ID.String() {
		t.Errorf("access token sub = %v, want %s", claims["sub"], user.ID)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, repo := newTestService(testConfig{})
	seedUser(t, repo, "sales@example.test", "s3cret-pass", nil)

	_, _, err := svc.Login(context.Background(), "sales@example.test", "wrong")
	if apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Fatalf("Login() error = %v, want unauthorized", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _ := newTestService(testConfig{})

	_, _, err := svc.Login(context.Background(), "nobody@example.test", "whatever")
	if apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Fatalf("Login() error = %v, want unauthorized", err)
	}
}

func TestRefreshRotatesTokens(t *testing.T) {
	svc, repo := newTestService(testConfig{})
	seedUser(t, repo, "sales@example.test", "s3cret-pass", []string{"admin"})

	pair, _, err := svc.Login(context.Background(), "sales@example.test", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	refreshed, err := svc.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if refreshed.AccessToken == "" || refreshed.RefreshToken == "" {
		t.Fatal("Refresh() returned empty tokens")
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, repo := newTestService(testConfig{})
	seedUser(t, repo, "sales@example.test", "s3cret-pass", nil)

	pair, _, err := svc.Login(context.Background(), "sales@example.test", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if _, err := svc.Refresh(context.Background(), pair.AccessToken); apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Fatalf("Refresh() error = %v, want unauthorized", err)
	}
}

func TestRefreshRejectsGarbage(t *testing.T) {
	svc, _ := newTestService(testConfig{})
	if _, err := svc.Refresh(context.Background(), "not-a-token"); apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Fatalf("Refresh() error = %v, want unauthorized", err)
	}
}

func TestEnsureDefaultAdmin(t *testing.T) {
	cfg := testConfig{adminEmail: "admin@example.test", adminPassword: "admin-pass"}
	svc, repo := newTestService(cfg)

	if err := svc.EnsureDefaultAdmin(context.Background()); err != nil {
		t.Fatalf("EnsureDefaultAdmin() error = %v", err)
	}
	admin, err := repo.GetByEmail(context.Background(), "admin@example.test")
	if err != nil {
		t.Fatalf("admin not created: %v", err)
	}
	if len(admin.Roles) != 1 || admin.Roles[0] != "admin" {
		t.Errorf("admin roles = %v", admin.Roles)
	}

	// Seeding again does not create a duplicate.
	if err := svc.EnsureDefaultAdmin(context.Background()); err != nil {
		t.Fatalf("EnsureDefaultAdmin() second run error = %v", err)
	}
	if len(repo.users) != 1 {
		t.Errorf("got %d users, want 1", len(repo.users))
	}
}

func TestEnsureDefaultAdminSkipsWithoutPassword(t *testing.T) {
	svc, repo := newTestService(testConfig{adminEmail: "admin@example.test"})
	if err := svc.EnsureDefaultAdmin(context.Background()); err != nil {
		t.Fatalf("EnsureDefaultAdmin() error = %v", err)
	}
	if len(repo.users) != 0 {
		t.Errorf("got %d users, want 0", len(repo.users))
	}
}

func parseClaims(t *testing.T, raw, secret string) jwt.MapClaims {
	t.Helper()
	parsed, err := jwt.Parse(raw, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("parse token: %v", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("unexpected claims type")
	}
	return claims
}
