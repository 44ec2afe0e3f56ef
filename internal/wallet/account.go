package wallet

import (
	"context" // Request contexts
	"errors"  // Error inspection
	"time"    // Log timestamps

	"digital_wallet/internal/apperr" // Error kinds
	"digital_wallet/internal/domain" // Domain models
	"digital_wallet/internal/store"  // Ledger store
	"digital_wallet/internal/utils"  // Secret hashing

	"github.com/shopspring/decimal" // Decimal amounts
	"github.com/sirupsen/logrus"    // Logging library
)

// ChangePinInput carries a PIN rotation request.
type ChangePinInput struct {
	OldPin        string
	NewPin        string
	ConfirmNewPin string
	Password      string
}

// parseAmount converts a requested amount, rejecting sub-cent precision
func parseAmount(op string, d decimal.Decimal) (domain.Amount, error) {
	a, err := domain.AmountFromDecimal(d)
	if err != nil {
		e := apperr.New(op, apperr.ErrInvalidAmount)
		e.Err = err // Keeps ErrTooPrecise visible to callers
		return 0, e
	}
	return a, nil
}

// walletError maps a wallet lookup failure
func walletError(op string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.New(op, apperr.ErrWalletNotFound)
	}
	return err
}

// GetBalance returns the balance of the user's wallet after verifying the PIN.
func (s *Service) GetBalance(ctx context.Context, userID uint, pin string) (domain.Amount, error) {
	const op = "wallet.GetBalance"
	w, err := s.store.WalletByUserID(ctx, userID)
	if err != nil {
		return 0, apperr.Storage(op, walletError(op, err))
	}
	if !utils.CheckSecret(w.PinCode, pin) {
		logrus.WithField("user_id", userID).Warn("Balance query with invalid PIN")
		return 0, apperr.New(op, apperr.ErrInvalidPin)
	}
	return w.Balance, nil
}

// Deposit credits amount to the user's wallet and records a deposit entry.
// Zero amounts are accepted and still recorded.
func (s *Service) Deposit(ctx context.Context, userID uint, amount decimal.Decimal) (*domain.Transaction, error) {
	const op = "wallet.Deposit"
	a, err := parseAmount(op, amount)
	if err != nil {
		return nil, err
	}
	if a < 0 {
		return nil, apperr.New(op, apperr.ErrInvalidAmount) // Zero is allowed
	}

	var entry domain.Transaction
	err = s.store.Atomic(ctx, func(tx store.Tx) error {
		w, err := tx.LockWalletByUserID(ctx, userID) // Serialise with transfers from this wallet
		if err != nil {
			return walletError(op, err)
		}
		if err := tx.AdjustBalance(ctx, w.ID, a); err != nil {
			return err
		}
		entry = domain.Transaction{WalletID: w.ID, Type: domain.TransactionDeposit, Amount: a}
		return tx.AppendTransaction(ctx, &entry)
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": userID,      // User ID
			"amount":  a.String(),  // Deposit amount
			"error":   err.Error(), // Error message
		}).Error("Deposit failed")
		return nil, apperr.Storage(op, err)
	}

	s.metrics.DepositCompleted(a)
	s.invalidate(ctx, userID)
	logrus.WithFields(logrus.Fields{
		"user_id":        userID,                          // User ID
		"amount":         a.String(),                      // Deposit amount
		"transaction_id": entry.ID,                        // Ledger entry
		"type":           domain.TransactionDeposit,       // Transaction type
		"timestamp":      time.Now().Format(time.RFC3339), // Current timestamp
	}).Info("Deposit transaction")
	return &entry, nil
}

// ChangePin replaces the wallet PIN. The account password is checked before the old PIN.
func (s *Service) ChangePin(ctx context.Context, userID uint, in ChangePinInput) error {
	const op = "wallet.ChangePin"
	fields := map[string][]string{}
	if in.NewPin == in.OldPin {
		fields["new_pin_code"] = []string{"The new pin code field and old pin code must be different."}
	}
	if in.ConfirmNewPin != in.NewPin {
		fields["confirm_new_pin_code"] = []string{"The confirm new pin code field must match new pin code."}
	}
	if len(fields) > 0 {
		return apperr.ValidationFields(op, fields) // Nothing touched yet
	}

	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return apperr.Storage(op, walletError(op, err))
	}
	if !utils.CheckSecret(user.Password, in.Password) {
		logrus.WithField("user_id", userID).Warn("PIN change with invalid password")
		return apperr.New(op, apperr.ErrInvalidPassword)
	}
	newHash, err := utils.HashSecret(in.NewPin)
	if err != nil {
		return apperr.Storage(op, err)
	}

	err = s.store.Atomic(ctx, func(tx store.Tx) error {
		w, err := tx.LockWalletByUserID(ctx, userID)
		if err != nil {
			return walletError(op, err)
		}
		if !utils.CheckSecret(w.PinCode, in.OldPin) {
			return apperr.New(op, apperr.ErrInvalidOldPin)
		}
		return tx.SetPinCode(ctx, w.ID, newHash) // Old PIN stops working on commit
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Warn("PIN change failed")
		return apperr.Storage(op, err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":   userID,
		"timestamp": time.Now().Format(time.RFC3339),
	}).Info("PIN code changed")
	return nil
}
