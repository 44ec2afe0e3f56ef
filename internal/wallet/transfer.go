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

// RecipientRef identifies the recipient by email or by user ID. Email wins when both are set.
type RecipientRef struct {
	Email  string
	UserID uint
}

// TransferInput carries a transfer request.
type TransferInput struct {
	Recipient RecipientRef
	Amount    decimal.Decimal
	Pin       string
}

// TransferReceipt describes a committed transfer.
type TransferReceipt struct {
	Transaction   domain.Transaction
	Fee           domain.Amount // burned, never credited or recorded as a ledger line
	Debit         domain.Amount // Amount + Fee
	SenderBalance domain.Amount // sender balance after commit
}

// Transfer moves amount from the sender's wallet to the recipient's wallet.
//
// Checks run in order and stop at the first failure: amount positive, PIN,
// balance covers the nominal amount, recipient wallet exists. The sender is
// debited amount plus TransferFee, the recipient credited amount, and one
// transfer entry with the nominal amount is appended. All of it happens in
// one unit of work with both wallet rows locked, so a failed transfer leaves
// no trace.
func (s *Service) Transfer(ctx context.Context, senderID uint, in TransferInput) (*TransferReceipt, error) {
	const op = "wallet.Transfer"
	amount, err := parseAmount(op, in.Amount)
	if err != nil {
		s.metrics.TransferRejected(apperr.KindInvalidAmount.String())
		return nil, err
	}
	if amount <= 0 {
		s.metrics.TransferRejected(apperr.KindInvalidAmount.String())
		return nil, apperr.New(op, apperr.ErrInvalidAmount)
	}
	fee := TransferFee(amount)     // Zero up to the threshold
	debit := TransferDebit(amount) // Removed from the sender

	var receipt TransferReceipt
	err = s.store.Atomic(ctx, func(tx store.Tx) error {
		p, err := lockParties(ctx, tx, senderID, in.Recipient)
		if err != nil {
			return walletError(op, err)
		}
		sender, recipient := p.sender, p.recipient
		if !utils.CheckSecret(sender.PinCode, in.Pin) {
			return apperr.New(op, apperr.ErrInvalidPin)
		}
		if sender.Balance < amount {
			return apperr.New(op, apperr.ErrInsufficientBalance)
		}
		if recipient == nil {
			return apperr.New(op, apperr.ErrRecipientNotFound)
		}
		// The fee may push the debit past a balance that covered the nominal amount.
		if sender.Balance < debit {
			return apperr.New(op, apperr.ErrInsufficientBalance)
		}

		if err := tx.AdjustBalance(ctx, sender.ID, -debit); err != nil { // Amount plus fee
			return err
		}
		if err := tx.AdjustBalance(ctx, recipient.ID, amount); err != nil { // Nominal amount only
			return err
		}
		recipientUserID := recipient.UserID
		receipt.Transaction = domain.Transaction{
			WalletID:        sender.ID,
			Type:            domain.TransactionTransfer,
			Amount:          amount,
			RecipientUserID: &recipientUserID,
		}
		if err := tx.AppendTransaction(ctx, &receipt.Transaction); err != nil {
			return err
		}

		after, err := tx.WalletByUserID(ctx, senderID) // Balance after both adjustments
		if err != nil {
			return err
		}
		receipt.SenderBalance = after.Balance
		return nil
	})
	if err != nil {
		kind := apperr.KindOf(err)
		s.metrics.TransferRejected(kind.String())
		entry := logrus.WithFields(logrus.Fields{
			"from_user_id": senderID,        // Sender user ID
			"recipient":    in.Recipient,    // Recipient reference
			"amount":       amount.String(), // Transfer amount
			"reason":       kind.String(),   // Failure kind
			"error":        err.Error(),     // Error message
		})
		if kind == apperr.KindStorage {
			entry.Error("Transfer failed")
		} else {
			entry.Warn("Transfer rejected")
		}
		return nil, apperr.Storage(op, err) // Business errors pass through unchanged
	}

	receipt.Fee = fee
	receipt.Debit = debit
	receipt.Transaction.SourceUserID = senderID
	recipientID := *receipt.Transaction.RecipientUserID

	s.metrics.TransferCompleted(amount, fee)
	s.invalidate(ctx, senderID, recipientID)
	logrus.WithFields(logrus.Fields{
		"from_user_id":   senderID,                        // Sender user ID
		"to_user_id":     recipientID,                     // Recipient user ID
		"amount":         amount.String(),                 // Nominal amount
		"fee":            fee.String(),                    // Fee burned from the sender
		"debit":          debit.String(),                  // Total removed from the sender
		"transaction_id": receipt.Transaction.ID,          // Ledger entry
		"type":           domain.TransactionTransfer,      // Transaction type
		"timestamp":      time.Now().Format(time.RFC3339), // Current timestamp
	}).Info("Transfer transaction")
	return &receipt, nil
}

// parties are the locked wallets of a transfer. recipient is nil when the
// recipient has no wallet.
type parties struct {
	sender    *domain.Wallet
	recipient *domain.Wallet
}

// lockParties locks the sender and recipient wallets in wallet ID order,
// so opposite transfers between the same two users cannot deadlock
func lockParties(ctx context.Context, tx store.Tx, senderID uint, ref RecipientRef) (*parties, error) {
	sender, err := tx.WalletByUserID(ctx, senderID) // Unlocked, only the wallet ID is used
	if err != nil {
		return nil, err
	}
	recipient, err := findRecipient(ctx, tx, ref)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	order := []*domain.Wallet{sender}
	if recipient != nil && recipient.ID != sender.ID {
		order = append(order, recipient)
		if recipient.ID < sender.ID {
			order[0], order[1] = recipient, sender // Lowest wallet ID first
		}
	}

	p := &parties{}
	for _, w := range order {
		locked, err := tx.LockWalletByUserID(ctx, w.UserID)
		if errors.Is(err, store.ErrNotFound) && w.UserID != senderID {
			continue // Recipient wallet vanished, reported as a missing recipient
		} else if err != nil {
			return nil, err
		}
		if w.UserID == senderID {
			p.sender = locked
		} else {
			p.recipient = locked
		}
	}
	if recipient != nil && recipient.ID == sender.ID {
		p.recipient = p.sender // Self-transfer
	}
	return p, nil
}

// findRecipient resolves the recipient wallet without locking it
func findRecipient(ctx context.Context, tx store.Tx, ref RecipientRef) (*domain.Wallet, error) {
	userID := ref.UserID
	if ref.Email != "" {
		u, err := tx.UserByEmail(ctx, ref.Email)
		if err != nil {
			return nil, err
		}
		userID = u.ID
	}
	if userID == 0 {
		return nil, store.ErrNotFound
	}
	return tx.WalletByUserID(ctx, userID)
}
