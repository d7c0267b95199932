package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/data"
	domainauth "github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/auth"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/model"
	mocks "github.com/glide-ceylon/gidz-uni-path-sub000/internal/mocks/auth"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/ports"
)

// staticAdminDirectory is a test helper serving one account.
type staticAdminDirectory struct {
	account  *model.AdminUser
	password string
	err      error
}

func (d *staticAdminDirectory) VerifyCredentials(_ context.Context, email, password string) (*model.AdminUser, error) {
	if d.err != nil {
		return nil, d.err
	}
	if d.account == nil || d.account.Email != email || d.password != password {
		return nil, data.ErrAdminUserNotFound
	}
	return d.account, nil
}

func testAdminAccount() *model.AdminUser {
	return &model.AdminUser{
		ID:        "33333333-3333-3333-3333-333333333333",
		Email:     "staff@example.com",
		FirstName: "Nuwan",
		LastName:  "Silva",
		Role:      domainauth.RoleSuperAdmin,
		Active:    true,
	}
}

func TestLocalAdminAuth_LoginAndValidate(t *testing.T) {
	sessions := mocks.NewMemorySessionStore()
	service := NewLocalAdminAuthService(LocalAdminAuthOptions{
		Accounts: &staticAdminDirectory{account: testAdminAccount(), password: "s3cret!!"},
		Sessions: sessions,
	})

	ctx := context.Background()
	profile, token, err := service.Login(ctx, ports.AdminLoginInput{
		Email:    "staff@example.com",
		Password: "s3cret!!",
	})

	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, domainauth.RoleSuperAdmin, profile.Role)

	validated, err := service.Validate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, profile, validated)
}

func TestLocalAdminAuth_Login_WrongPassword(t *testing.T) {
	service := NewLocalAdminAuthService(LocalAdminAuthOptions{
		Accounts: &staticAdminDirectory{account: testAdminAccount(), password: "s3cret!!"},
		Sessions: mocks.NewMemorySessionStore(),
	})

	_, _, err := service.Login(context.Background(), ports.AdminLoginInput{
		Email:    "staff@example.com",
		Password: "wrong",
	})

	assert.ErrorIs(t, err, ports.ErrSessionInvalid)
}

func TestLocalAdminAuth_Login_StoreFailureIsNotRejection(t *testing.T) {
	service := NewLocalAdminAuthService(LocalAdminAuthOptions{
		Accounts: &staticAdminDirectory{err: errors.New("database down")},
		Sessions: mocks.NewMemorySessionStore(),
	})

	_, _, err := service.Login(context.Background(), ports.AdminLoginInput{
		Email:    "staff@example.com",
		Password: "s3cret!!",
	})

	require.Error(t, err)
	assert.NotErrorIs(t, err, ports.ErrSessionInvalid)
}

func TestLocalAdminAuth_Validate_UnknownToken(t *testing.T) {
	service := NewLocalAdminAuthService(LocalAdminAuthOptions{
		Accounts: &staticAdminDirectory{},
		Sessions: mocks.NewMemorySessionStore(),
	})

	_, err := service.Validate(context.Background(), "no-such-token")

	assert.ErrorIs(t, err, ports.ErrSessionInvalid)
}

func TestLocalAdminAuth_Validate_ExpiredSessionCleaned(t *testing.T) {
	sessions := mocks.NewMemorySessionStore()
	tp := data.NewFixedTimeProvider(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	service := NewLocalAdminAuthService(LocalAdminAuthOptions{
		Accounts:     &staticAdminDirectory{account: testAdminAccount(), password: "s3cret!!"},
		Sessions:     sessions,
		SessionTTL:   time.Hour,
		TimeProvider: tp,
	})

	ctx := context.Background()
	_, token, err := service.Login(ctx, ports.AdminLoginInput{
		Email:    "staff@example.com",
		Password: "s3cret!!",
	})
	require.NoError(t, err)

	tp.AddTime(2 * time.Hour)

	_, err = service.Validate(ctx, token)
	assert.ErrorIs(t, err, ports.ErrSessionInvalid)

	_, err = sessions.Get(ctx, token)
	assert.ErrorIs(t, err, mocks.ErrNotFound, "expired session should be deleted")
}

func TestLocalAdminAuth_RememberMe_ExtendsSession(t *testing.T) {
	sessions := mocks.NewMemorySessionStore()
	tp := data.NewFixedTimeProvider(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	service := NewLocalAdminAuthService(LocalAdminAuthOptions{
		Accounts:     &staticAdminDirectory{account: testAdminAccount(), password: "s3cret!!"},
		Sessions:     sessions,
		SessionTTL:   time.Hour,
		RememberTTL:  24 * time.Hour,
		TimeProvider: tp,
	})

	ctx := context.Background()
	_, token, err := service.Login(ctx, ports.AdminLoginInput{
		Email:      "staff@example.com",
		Password:   "s3cret!!",
		RememberMe: true,
	})
	require.NoError(t, err)

	sess, err := sessions.Get(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, tp.Now().Add(24*time.Hour), sess.ExpiresAt)
}

func TestLocalAdminAuth_Logout(t *testing.T) {
	sessions := mocks.NewMemorySessionStore()
	service := NewLocalAdminAuthService(LocalAdminAuthOptions{
		Accounts: &staticAdminDirectory{account: testAdminAccount(), password: "s3cret!!"},
		Sessions: sessions,
	})

	ctx := context.Background()
	_, token, err := service.Login(ctx, ports.AdminLoginInput{
		Email:    "staff@example.com",
		Password: "s3cret!!",
	})
	require.NoError(t, err)

	require.NoError(t, service.Logout(ctx, token))

	_, err = service.Validate(ctx, token)
	assert.ErrorIs(t, err, ports.ErrSessionInvalid)

	// Logging out an empty token is a no-op.
	assert.NoError(t, service.Logout(ctx, ""))
}
