package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"digital_wallet/internal/apperr"
	"digital_wallet/internal/domain"
	"digital_wallet/internal/store"
	"digital_wallet/internal/testutil"
	"digital_wallet/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockRevoker struct {
	mock.Mock
}

func (m *mockRevoker) RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error {
	return m.Called(ctx, jti, expiresAt).Error(0)
}

func newService(t *testing.T) (*Service, *gorm.DB, *utils.TokenManager, *mockRevoker) {
	t.Helper()
	gdb := testutil.NewDB(t)
	tokens := utils.NewTokenManager("secret", time.Hour)
	revoker := &mockRevoker{}
	return NewService(store.New(gdb), tokens, revoker), gdb, tokens, revoker
}

func register(t *testing.T, svc *Service, email string) string {
	t.Helper()
	token, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Alice",
		Email:    email,
		Password: "password123",
		PinCode:  "123456",
	})
	require.NoError(t, err)
	return token
}

func TestRegisterCreatesUserWithEmptyWallet(t *testing.T) {
	svc, gdb, tokens, _ := newService(t)

	token := register(t, svc, "alice@example.com")

	claims, err := tokens.Parse(token)
	require.NoError(t, err)

	var user domain.User
	require.NoError(t, gdb.Preload("Wallet").First(&user, claims.UserID).Error)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "password123", user.Password)
	assert.True(t, utils.CheckSecret(user.Password, "password123"))
	assert.Zero(t, user.Wallet.Balance)
	assert.True(t, utils.CheckSecret(user.Wallet.PinCode, "123456"))
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, gdb, _, _ := newService(t)
	register(t, svc, "alice@example.com")

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Other",
		Email:    "alice@example.com",
		Password: "password123",
		PinCode:  "654321",
	})

	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.KindValidation, ae.Kind)
	assert.Equal(t, []string{"The email has already been taken."}, ae.Fields["email"])

	var n int64
	require.NoError(t, gdb.Model(&domain.Wallet{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestLogin(t *testing.T) {
	svc, _, tokens, _ := newService(t)
	register(t, svc, "alice@example.com")

	token, err := svc.Login(context.Background(), "alice@example.com", "password123")
	require.NoError(t, err)
	_, err = tokens.Parse(token)
	assert.NoError(t, err)

	_, err = svc.Login(context.Background(), "alice@example.com", "wrong")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, err = svc.Login(context.Background(), "nobody@example.com", "password123")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _, tokens, revoker := newService(t)
	claims, err := tokens.Parse(register(t, svc, "alice@example.com"))
	require.NoError(t, err)

	revoker.On("RevokeToken", mock.Anything, claims.ID, claims.ExpiresAt.Time).Return(nil).Once()

	require.NoError(t, svc.Logout(context.Background(), claims))
	revoker.AssertExpectations(t)
}

func TestLogoutRevocationFailure(t *testing.T) {
	svc, _, tokens, revoker := newService(t)
	claims, err := tokens.Parse(register(t, svc, "alice@example.com"))
	require.NoError(t, err)

	revoker.On("RevokeToken", mock.Anything, claims.ID, mock.Anything).Return(errors.New("redis down"))

	err = svc.Logout(context.Background(), claims)
	assert.Equal(t, apperr.KindStorage, apperr.KindOf(err))
}

func TestLogoutRequiresTokenID(t *testing.T) {
	svc, _, _, revoker := newService(t)

	err := svc.Logout(context.Background(), &utils.Claims{UserID: 1, RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})

	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	revoker.AssertNotCalled(t, "RevokeToken", mock.Anything, mock.Anything, mock.Anything)
}
