package db

import (
	"context"   // Store calls
	"errors"    // Error inspection
	"fmt"       // Demo identities
	"math/rand" // Random balances

	"digital_wallet/internal/domain" // Domain models
	"digital_wallet/internal/store"  // Ledger store
	"digital_wallet/internal/utils"  // Hashing

	"github.com/sirupsen/logrus" // Logging library
)

// Demo account defaults
const (
	SeedPassword   = "password" // Password of every demo user
	SeedPin        = "123456"   // Wallet PIN of every demo user
	seedMinBalance = 100_00     // 100.00
	seedMaxBalance = 10_000_00  // 10000.00
)

// Seed creates count demo users named demoN@example.com, each with a wallet holding a random
// balance between 100 and 10000. Existing demo users are left alone. Returns how many were created.
func Seed(ctx context.Context, st store.Store, count int, rng *rand.Rand) (int, error) {
	password, err := utils.HashSecret(SeedPassword)
	if err != nil {
		return 0, err
	}
	pin, err := utils.HashSecret(SeedPin)
	if err != nil {
		return 0, err
	}

	created := 0
	for i := 1; i <= count; i++ {
		email := fmt.Sprintf("demo%d@example.com", i)
		if _, err := st.UserByEmail(ctx, email); err == nil {
			continue // Already seeded
		} else if !errors.Is(err, store.ErrNotFound) {
			return created, err
		}

		balance := domain.Amount(seedMinBalance + rng.Int63n(seedMaxBalance-seedMinBalance+1))
		user := domain.User{
			Name:     fmt.Sprintf("Demo User %d", i),
			Email:    email,
			Password: password,
			Wallet:   domain.Wallet{Balance: balance, PinCode: pin},
		}
		if err := st.Atomic(ctx, func(tx store.Tx) error {
			return tx.CreateUser(ctx, &user)
		}); err != nil {
			return created, err
		}
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,
			"email":   email,
			"balance": balance.String(),
		}).Info("Seeded demo user")
		created++
	}
	return created, nil
}
