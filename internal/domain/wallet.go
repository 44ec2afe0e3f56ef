package domain

import "time"

// Wallet Model
type Wallet struct {
	ID        uint      `gorm:"primaryKey" json:"id"`              // Primary key
	UserID    uint      `gorm:"uniqueIndex;not null" json:"-"`     // Foreign key to User, one wallet per user
	Balance   Amount    `gorm:"not null;default:0" json:"balance"` // Balance in cents, never negative
	PinCode   string    `gorm:"not null" json:"-"`                 // bcrypt hash of the six digit PIN
	CreatedAt time.Time `json:"-"`                                 // Creation time
	UpdatedAt time.Time `json:"-"`                                 // Last balance or PIN change
}
