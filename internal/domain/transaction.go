package domain

import "time"

// TransactionType is the absolute kind of a ledger entry as stored
type TransactionType string

const (
	TransactionDeposit  TransactionType = "deposit"  // Owner credited their own wallet
	TransactionTransfer TransactionType = "transfer" // Funds moved from the source wallet to another user
)

// Status is a transaction's classification from one viewer's point of view
type Status string

const (
	StatusDeposit  Status = "deposit"
	StatusReceived Status = "received"
	StatusSent     Status = "sent"
	StatusUnknown  Status = "unknown"
)

// Transaction Model. Rows are append-only.
type Transaction struct {
	ID              uint            `gorm:"primaryKey" json:"id"`                     // Primary key
	WalletID        uint            `gorm:"not null;index" json:"wallet_id"`          // Source wallet (the owner's own wallet for deposits)
	Type            TransactionType `gorm:"size:20;not null" json:"type"`             // deposit or transfer
	Amount          Amount          `gorm:"not null" json:"amount"`                   // Nominal amount, fees excluded
	RecipientUserID *uint           `gorm:"index" json:"recipient_user_id,omitempty"` // Set for transfers only
	CreatedAt       time.Time       `gorm:"index;not null" json:"created_at"`         // Immutable creation time
	SourceUserID    uint            `gorm:"->;-:migration" json:"source_user_id"`     // Owner of WalletID, read through a join
}

// Classify returns the status of tx as seen by viewerID
func Classify(tx Transaction, viewerID uint) Status {
	switch tx.Type {
	case TransactionDeposit:
		return StatusDeposit
	case TransactionTransfer:
		if tx.RecipientUserID != nil && *tx.RecipientUserID == viewerID {
			return StatusReceived
		}
		return StatusSent
	default:
		return StatusUnknown
	}
}

// CounterpartyID returns the other party of a transfer relative to viewerID.
// sourceOwnerID is the owner of the wallet the transfer was debited from.
func CounterpartyID(tx Transaction, viewerID, sourceOwnerID uint) *uint {
	if tx.Type != TransactionTransfer {
		return nil
	}
	if Classify(tx, viewerID) == StatusReceived {
		id := sourceOwnerID
		return &id
	}
	return tx.RecipientUserID
}
