package api

import (
	"context"

	"digital_wallet/internal/auth"
	"digital_wallet/internal/domain"
	"digital_wallet/internal/utils"
	"digital_wallet/internal/wallet"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type mockWallet struct {
	mock.Mock
}

func (m *mockWallet) GetBalance(ctx context.Context, userID uint, pin string) (domain.Amount, error) {
	args := m.Called(ctx, userID, pin)
	return args.Get(0).(domain.Amount), args.Error(1)
}

func (m *mockWallet) Deposit(ctx context.Context, userID uint, amount decimal.Decimal) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, amount)
	tx, _ := args.Get(0).(*domain.Transaction)
	return tx, args.Error(1)
}

func (m *mockWallet) Transfer(ctx context.Context, senderID uint, in wallet.TransferInput) (*wallet.TransferReceipt, error) {
	args := m.Called(ctx, senderID, in)
	receipt, _ := args.Get(0).(*wallet.TransferReceipt)
	return receipt, args.Error(1)
}

func (m *mockWallet) ChangePin(ctx context.Context, userID uint, in wallet.ChangePinInput) error {
	return m.Called(ctx, userID, in).Error(0)
}

func (m *mockWallet) ListTransactions(ctx context.Context, viewerID uint, r wallet.HistoryRange) ([]wallet.HistoryEntry, error) {
	args := m.Called(ctx, viewerID, r)
	entries, _ := args.Get(0).([]wallet.HistoryEntry)
	return entries, args.Error(1)
}

type mockAuth struct {
	mock.Mock
}

func (m *mockAuth) Register(ctx context.Context, in auth.RegisterInput) (string, error) {
	args := m.Called(ctx, in)
	return args.String(0), args.Error(1)
}

func (m *mockAuth) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *mockAuth) Logout(ctx context.Context, claims *utils.Claims) error {
	return m.Called(ctx, claims).Error(0)
}
