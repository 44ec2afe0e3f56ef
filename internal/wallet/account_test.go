package wallet

import (
	"context"
	"testing"

	"digital_wallet/internal/apperr"
	"digital_wallet/internal/domain"
	"digital_wallet/internal/store"
	"digital_wallet/internal/testutil"
	"digital_wallet/internal/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBalance(t *testing.T) {
	gdb := testutil.NewDB(t)
	svc := NewService(store.New(gdb), nil, nil)
	user := testutil.CreateUser(t, gdb, "alice@example.com", domain.MustAmount("42.5"), pin)

	balance, err := svc.GetBalance(context.Background(), user.ID, pin)
	require.NoError(t, err)
	assert.Equal(t, domain.MustAmount("42.5"), balance)

	_, err = svc.GetBalance(context.Background(), user.ID, "000000")
	assert.ErrorIs(t, err, apperr.ErrInvalidPin)

	_, err = svc.GetBalance(context.Background(), 9999, pin)
	assert.ErrorIs(t, err, apperr.ErrWalletNotFound)
}

func TestDeposit(t *testing.T) {
	gdb := testutil.NewDB(t)
	metrics, cache := &fakeRecorder{}, &fakeCache{}
	svc := NewService(store.New(gdb), cache, metrics)
	user := testutil.CreateUser(t, gdb, "alice@example.com", domain.MustAmount("10"), pin)

	entry, err := svc.Deposit(context.Background(), user.ID, decimal.RequireFromString("15.25"))
	require.NoError(t, err)

	assert.NotZero(t, entry.ID)
	assert.Equal(t, domain.TransactionDeposit, entry.Type)
	assert.Equal(t, user.Wallet.ID, entry.WalletID)
	assert.Nil(t, entry.RecipientUserID)
	assert.Equal(t, domain.MustAmount("25.25"), testutil.Balance(t, gdb, user.ID))
	assert.Equal(t, 1, metrics.deposits)
	assert.Equal(t, []uint{user.ID}, cache.invalidated)
}

func TestDepositZeroIsRecorded(t *testing.T) {
	gdb := testutil.NewDB(t)
	svc := NewService(store.New(gdb), nil, nil)
	user := testutil.CreateUser(t, gdb, "alice@example.com", domain.MustAmount("10"), pin)

	entry, err := svc.Deposit(context.Background(), user.ID, decimal.Zero)
	require.NoError(t, err)

	assert.Zero(t, entry.Amount)
	assert.Equal(t, domain.MustAmount("10"), testutil.Balance(t, gdb, user.ID))
	assert.Equal(t, int64(1), testutil.LedgerSize(t, gdb))
}

func TestDepositRejectsInvalidAmounts(t *testing.T) {
	for _, amount := range []string{"-1", "-0.01", "10.001"} {
		t.Run(amount, func(t *testing.T) {
			gdb := testutil.NewDB(t)
			svc := NewService(store.New(gdb), nil, nil)
			user := testutil.CreateUser(t, gdb, "alice@example.com", domain.MustAmount("10"), pin)

			_, err := svc.Deposit(context.Background(), user.ID, decimal.RequireFromString(amount))

			assert.ErrorIs(t, err, apperr.ErrInvalidAmount)
			assert.Equal(t, domain.MustAmount("10"), testutil.Balance(t, gdb, user.ID))
			assert.Zero(t, testutil.LedgerSize(t, gdb))
		})
	}
}

func TestDepositWithoutWallet(t *testing.T) {
	gdb := testutil.NewDB(t)
	svc := NewService(store.New(gdb), nil, nil)

	_, err := svc.Deposit(context.Background(), 9999, decimal.RequireFromString("5"))

	assert.ErrorIs(t, err, apperr.ErrWalletNotFound)
	assert.Zero(t, testutil.LedgerSize(t, gdb))
}

func TestChangePin(t *testing.T) {
	gdb := testutil.NewDB(t)
	svc := NewService(store.New(gdb), nil, nil)
	user := testutil.CreateUser(t, gdb, "alice@example.com", domain.MustAmount("10"), "111111")

	err := svc.ChangePin(context.Background(), user.ID, ChangePinInput{
		OldPin:        "111111",
		NewPin:        "222222",
		ConfirmNewPin: "222222",
		Password:      "password",
	})
	require.NoError(t, err)

	_, err = svc.GetBalance(context.Background(), user.ID, "111111")
	assert.ErrorIs(t, err, apperr.ErrInvalidPin)
	balance, err := svc.GetBalance(context.Background(), user.ID, "222222")
	require.NoError(t, err)
	assert.Equal(t, domain.MustAmount("10"), balance)
}

func TestChangePinRejections(t *testing.T) {
	tests := []struct {
		name    string
		in      ChangePinInput
		want    *apperr.Error
		message string
		field   string
	}{
		{
			name:    "wrong password checked before old pin",
			in:      ChangePinInput{OldPin: "999999", NewPin: "222222", ConfirmNewPin: "222222", Password: "wrong"},
			want:    apperr.ErrInvalidPassword,
			message: "Invalid password",
		},
		{
			name:    "wrong old pin",
			in:      ChangePinInput{OldPin: "999999", NewPin: "222222", ConfirmNewPin: "222222", Password: "password"},
			want:    apperr.ErrInvalidOldPin,
			message: "Invalid old PIN code",
		},
		{
			name:  "new pin equals old pin",
			in:    ChangePinInput{OldPin: "111111", NewPin: "111111", ConfirmNewPin: "111111", Password: "password"},
			want:  apperr.ErrValidation,
			field: "new_pin_code",
		},
		{
			name:  "confirmation mismatch",
			in:    ChangePinInput{OldPin: "111111", NewPin: "222222", ConfirmNewPin: "333333", Password: "password"},
			want:  apperr.ErrValidation,
			field: "confirm_new_pin_code",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gdb := testutil.NewDB(t)
			svc := NewService(store.New(gdb), nil, nil)
			user := testutil.CreateUser(t, gdb, "alice@example.com", 0, "111111")

			err := svc.ChangePin(context.Background(), user.ID, tt.in)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			var ae *apperr.Error
			require.ErrorAs(t, err, &ae)
			if tt.message != "" {
				assert.Equal(t, tt.message, ae.Message)
			}
			if tt.field != "" {
				assert.Contains(t, ae.Fields, tt.field)
			}

			var w domain.Wallet
			require.NoError(t, gdb.Where("user_id = ?", user.ID).First(&w).Error)
			assert.True(t, utils.CheckSecret(w.PinCode, "111111"), "PIN must be unchanged")
		})
	}
}
