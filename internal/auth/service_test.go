package auth

import (
	"context"
	"testing"
	"time"

	"charterly/internal/shared/config"
	"charterly/internal/users"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	byEmail map[string]*users.User
	byID    map[string]*users.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]*users.User),
		byID:    make(map[string]*users.User),
	}
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, user *users.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.byEmail[user.Email] = user
	r.byID[user.ID.String()] = user
	return nil
}

func (r *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*users.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetUserByID(ctx context.Context, id string) (*users.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) UpdateUserPassword(ctx context.Context, userID string, hashedPassword string) error {
	user, ok := r.byID[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.Password = hashedPassword
	return nil
}

func (r *fakeUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, ok := r.byEmail[email]
	return ok, nil
}

func testAuthConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			JWTExpiresIn:     15 * time.Minute,
			RefreshExpiresIn: 7 * 24 * time.Hour,
		},
	}
}

func registerReq() *RegisterRequest {
	return &RegisterRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "correct-horse",
	}
}

func TestRegisterAlwaysCreatesCustomerAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, testAuthConfig())

	resp, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	assert.Equal(t, string(users.RoleUser), resp.User.Role)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	stored, err := repo.GetUserByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, users.RoleUser, stored.Role)
	assert.NotEqual(t, "correct-horse", stored.Password, "password must be stored hashed")
}

func TestRegisterDuplicateEmailRejected(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, testAuthConfig())

	_, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerReq())
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLoginWrongPasswordRejected(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, testAuthConfig())

	_, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &LoginRequest{
		Email:    "ada@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// An unknown email maps to the same error, not a distinct not-found.
	_, err = svc.Login(context.Background(), &LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, testAuthConfig())

	resp, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	// The access token is not a refresh token, even though it verifies.
	_, err = svc.RefreshToken(context.Background(), resp.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	pair, err := svc.RefreshToken(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
}

func TestChangePasswordVerifiesCurrent(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, testAuthConfig())

	resp, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)
	userID := resp.User.ID

	err = svc.ChangePassword(context.Background(), userID, &ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "new-password",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = svc.ChangePassword(context.Background(), userID, &ChangePasswordRequest{
		CurrentPassword: "correct-horse",
		NewPassword:     "new-password",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &LoginRequest{
		Email:    "ada@example.com",
		Password: "new-password",
	})
	assert.NoError(t, err)
}

func TestGetProfile(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo, testAuthConfig())

	resp, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	profile, err := svc.GetProfile(context.Background(), resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.FirstName)
	assert.Equal(t, "ada@example.com", profile.Email)

	_, err = svc.GetProfile(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrUserNotFound)
}
