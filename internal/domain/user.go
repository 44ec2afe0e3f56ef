package domain

import "time"

// User Model
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                                   // Primary key
	Name      string    `gorm:"size:255;not null" json:"name"`                          // Display name
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`             // Unique login email
	Password  string    `gorm:"not null" json:"-"`                                      // Hashed password
	Wallet    Wallet    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"` // One-to-one relationship with Wallet
	CreatedAt time.Time `json:"created_at"`                                             // Registration time
	UpdatedAt time.Time `json:"-"`                                                      // Last update
}

// UserSummary is the public view of a user shown as a transaction counterparty
type UserSummary struct {
	ID    uint   `json:"id"`    // User ID
	Name  string `json:"name"`  // Display name
	Email string `json:"email"` // Email address
}

// Summary returns the public fields of the user
func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}
