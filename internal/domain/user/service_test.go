package user

import (
	"context"
	"sync"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dk-code-insights/storefront/internal/config"
	"github.com/dk-code-insights/storefront/internal/pkg/auth"
)

type fakeRepo struct {
	mu    sync.Mutex
	users map[string]*User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[string]*User)}
}

func (f *fakeRepo) Create(_ context.Context, u *User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return ErrEmailTaken
		}
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeRepo) FindByID(_ context.Context, id string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, ErrUserNotFound
}

func (f *fakeRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (f *fakeRepo) Save(_ context.Context, u *User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func newTestService() (*Service, *fakeRepo) {
	cfg := &config.Config{
		App: config.AppConfig{Name: "test"},
		JWT: config.JWTConfig{Secret: "0123456789abcdef0123456789abcdef", AccessTokenExpiry: time.Hour},
	}
	log, _ := logtest.NewNullLogger()
	repo := newFakeRepo()
	return NewService(repo, auth.NewPasswordManager(bcrypt.MinCost), auth.NewJWTManager(cfg), log), repo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	reg, err := svc.Register(ctx, &RegisterRequest{Email: " Jane@Example.com ", Password: "Secret123", FirstName: "Jane", LastName: "Doe"})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", reg.User.Email)
	assert.NotEmpty(t, reg.AccessToken)
	assert.Equal(t, int64(3600), reg.ExpiresIn)

	_, err = svc.Register(ctx, &RegisterRequest{Email: "jane@example.com", Password: "Secret123"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	login, err := svc.Login(ctx, &LoginRequest{Email: "JANE@example.com", Password: "Secret123"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)
	assert.NotNil(t, login.User.LastLoginAt)

	_, err = svc.Login(ctx, &LoginRequest{Email: "jane@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, &LoginRequest{Email: "nobody@example.com", Password: "Secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	refreshed, err := svc.RefreshToken(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, refreshed.User.ID)

	_, err = svc.RefreshToken(ctx, login.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	svc, repo := newTestService()

	_, err := svc.Register(context.Background(), &RegisterRequest{Email: "a@example.com", Password: "weak"})
	assert.Error(t, err)
	assert.Empty(t, repo.users)
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	reg, err := svc.Register(ctx, &RegisterRequest{Email: "a@example.com", Password: "Secret123", FirstName: "Ann"})
	require.NoError(t, err)

	city, phone := " Cape Town ", "+27 21 000 0000"
	u, err := svc.UpdateProfile(ctx, reg.User.ID, &UpdateProfileRequest{City: &city, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Ann", u.FirstName)
	assert.Equal(t, "Cape Town", u.City)
	assert.Equal(t, phone, u.Phone)

	_, err = svc.GetProfile(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserFormatting(t *testing.T) {
	u := &User{FirstName: " Ann ", LastName: "", Address: "1 Long St", City: "Cape Town", Country: "South Africa"}
	assert.Equal(t, "Ann", u.FullName())
	assert.Equal(t, "1 Long St, Cape Town, South Africa", u.PostalAddress())
	assert.Equal(t, "", (&User{}).FullName())
}
