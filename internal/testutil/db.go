// Package testutil holds helpers shared by package tests.
package testutil

import (
	"fmt"
	"testing"

	"digital_wallet/internal/db"
	"digital_wallet/internal/domain"
	"digital_wallet/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDB opens a private in-memory SQLite database with the schema migrated.
// It also lowers the bcrypt cost for the duration of the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), db.GormConfig(true))
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))

	utils.HashCost = bcrypt.MinCost
	t.Cleanup(func() { utils.HashCost = bcrypt.DefaultCost })
	return gdb
}

// CreateUser inserts a user with a wallet holding balance and the given PIN.
// The account password is always "password".
func CreateUser(t *testing.T, gdb *gorm.DB, email string, balance domain.Amount, pin string) *domain.User {
	t.Helper()
	password, err := utils.HashSecret("password")
	require.NoError(t, err)
	pinHash, err := utils.HashSecret(pin)
	require.NoError(t, err)

	user := &domain.User{
		Name:     email,
		Email:    email,
		Password: password,
		Wallet:   domain.Wallet{Balance: balance, PinCode: pinHash},
	}
	require.NoError(t, gdb.Create(user).Error)
	return user
}

// Balance reads a user's current wallet balance.
func Balance(t *testing.T, gdb *gorm.DB, userID uint) domain.Amount {
	t.Helper()
	var w domain.Wallet
	require.NoError(t, gdb.Where("user_id = ?", userID).First(&w).Error)
	return w.Balance
}

// LedgerSize counts all transaction rows.
func LedgerSize(t *testing.T, gdb *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, gdb.Model(&domain.Transaction{}).Count(&n).Error)
	return n
}
