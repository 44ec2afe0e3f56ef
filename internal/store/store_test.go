package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"digital_wallet/internal/domain"
	"digital_wallet/internal/store"
	"digital_wallet/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicCommits(t *testing.T) {
	gdb := testutil.NewDB(t)
	s := store.New(gdb)
	ctx := context.Background()
	alice := testutil.CreateUser(t, gdb, "alice@example.com", 10000, "123456")

	err := s.Atomic(ctx, func(tx store.Tx) error {
		w, err := tx.LockWalletByUserID(ctx, alice.ID)
		if err != nil {
			return err
		}
		if err := tx.AdjustBalance(ctx, w.ID, 500); err != nil {
			return err
		}
		return tx.AppendTransaction(ctx, &domain.Transaction{WalletID: w.ID, Type: domain.TransactionDeposit, Amount: 500})
	})
	require.NoError(t, err)

	assert.Equal(t, domain.Amount(10500), testutil.Balance(t, gdb, alice.ID))
	assert.Equal(t, int64(1), testutil.LedgerSize(t, gdb))
}

func TestAtomicRollsBackOnError(t *testing.T) {
	gdb := testutil.NewDB(t)
	s := store.New(gdb)
	ctx := context.Background()
	alice := testutil.CreateUser(t, gdb, "alice@example.com", 10000, "123456")
	boom := errors.New("boom")

	err := s.Atomic(ctx, func(tx store.Tx) error {
		w, err := tx.LockWalletByUserID(ctx, alice.ID)
		require.NoError(t, err)
		require.NoError(t, tx.AdjustBalance(ctx, w.ID, -2500))
		require.NoError(t, tx.AppendTransaction(ctx, &domain.Transaction{WalletID: w.ID, Type: domain.TransactionDeposit, Amount: 1}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, domain.Amount(10000), testutil.Balance(t, gdb, alice.ID))
	assert.Zero(t, testutil.LedgerSize(t, gdb))
}

func TestLookupsReturnErrNotFound(t *testing.T) {
	gdb := testutil.NewDB(t)
	s := store.New(gdb)
	ctx := context.Background()

	_, err := s.UserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.UserByID(ctx, 99)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.WalletByUserID(ctx, 99)
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = s.Atomic(ctx, func(tx store.Tx) error {
		_, err := tx.LockWalletByUserID(ctx, 99)
		return err
	})
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = s.Atomic(ctx, func(tx store.Tx) error { return tx.AdjustBalance(ctx, 99, 1) })
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	gdb := testutil.NewDB(t)
	s := store.New(gdb)
	ctx := context.Background()
	testutil.CreateUser(t, gdb, "alice@example.com", 0, "123456")

	err := s.Atomic(ctx, func(tx store.Tx) error {
		return tx.CreateUser(ctx, &domain.User{Name: "A", Email: "alice@example.com", Password: "x", Wallet: domain.Wallet{PinCode: "y"}})
	})
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestUsersByIDs(t *testing.T) {
	gdb := testutil.NewDB(t)
	s := store.New(gdb)
	a := testutil.CreateUser(t, gdb, "a@example.com", 0, "123456")
	b := testutil.CreateUser(t, gdb, "b@example.com", 0, "123456")

	users, err := s.UsersByIDs(context.Background(), []uint{a.ID, b.ID, 999})
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, "b@example.com", users[b.ID].Email)

	empty, err := s.UsersByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestListTransactionsScopesToViewerAndRange(t *testing.T) {
	gdb := testutil.NewDB(t)
	s := store.New(gdb)
	ctx := context.Background()
	alice := testutil.CreateUser(t, gdb, "alice@example.com", 0, "123456")
	bob := testutil.CreateUser(t, gdb, "bob@example.com", 0, "123456")
	carol := testutil.CreateUser(t, gdb, "carol@example.com", 0, "123456")

	now := time.Now().UTC().Truncate(time.Second)
	bobID, carolID := bob.ID, carol.ID
	rows := []domain.Transaction{
		{WalletID: alice.Wallet.ID, Type: domain.TransactionDeposit, Amount: 100, CreatedAt: now.Add(-3 * time.Hour)},
		{WalletID: alice.Wallet.ID, Type: domain.TransactionTransfer, Amount: 200, RecipientUserID: &bobID, CreatedAt: now.Add(-2 * time.Hour)},
		{WalletID: bob.Wallet.ID, Type: domain.TransactionTransfer, Amount: 300, RecipientUserID: &carolID, CreatedAt: now.Add(-time.Hour)},
		{WalletID: carol.Wallet.ID, Type: domain.TransactionDeposit, Amount: 400, CreatedAt: now.Add(-time.Hour)},
		{WalletID: alice.Wallet.ID, Type: domain.TransactionDeposit, Amount: 500, CreatedAt: now.Add(-100 * 24 * time.Hour)},
	}
	require.NoError(t, gdb.Create(&rows).Error)

	got, err := s.ListTransactions(ctx, bob.ID, now.Add(-24*time.Hour), now)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.Amount(200), got[0].Amount)
	assert.Equal(t, alice.ID, got[0].SourceUserID)
	assert.Equal(t, domain.Amount(300), got[1].Amount)
	assert.Equal(t, bob.ID, got[1].SourceUserID)

	got, err = s.ListTransactions(ctx, alice.ID, now.Add(-24*time.Hour), now)
	require.NoError(t, err)
	require.Len(t, got, 2, "old deposit falls outside the range")
	assert.Equal(t, domain.TransactionDeposit, got[0].Type)

	got, err = s.ListTransactions(ctx, alice.ID, now.Add(-3*time.Hour), now.Add(-2*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1, "range is half-open")
	assert.Equal(t, domain.Amount(100), got[0].Amount)
}

func TestSetPinCode(t *testing.T) {
	gdb := testutil.NewDB(t)
	s := store.New(gdb)
	ctx := context.Background()
	alice := testutil.CreateUser(t, gdb, "alice@example.com", 0, "123456")

	require.NoError(t, s.Atomic(ctx, func(tx store.Tx) error {
		return tx.SetPinCode(ctx, alice.Wallet.ID, "new-hash")
	}))
	w, err := s.WalletByUserID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", w.PinCode)
}

func TestPing(t *testing.T) {
	assert.NoError(t, store.New(testutil.NewDB(t)).Ping(context.Background()))
}
