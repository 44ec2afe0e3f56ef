// Package store is the ledger store: durable users, wallets and transactions
// behind a unit of work that commits multi-row changes atomically.
package store

import (
	"context" // Request contexts
	"errors"  // Error values
	"fmt"     // Error wrapping
	"time"    // History ranges

	"digital_wallet/internal/domain" // Domain models

	"gorm.io/gorm"        // GORM ORM library
	"gorm.io/gorm/clause" // Row locking clauses
)

var (
	// ErrNotFound is returned when a looked-up row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("duplicate record")
)

// Reader holds the queries available both inside and outside a unit of work.
type Reader interface {
	UserByID(ctx context.Context, id uint) (*domain.User, error)
	UserByEmail(ctx context.Context, email string) (*domain.User, error)
	UsersByIDs(ctx context.Context, ids []uint) (map[uint]domain.User, error)
	WalletByUserID(ctx context.Context, userID uint) (*domain.Wallet, error)
	// ListTransactions returns entries where userID is the recipient or owns
	// the source wallet, created in [from, to), oldest first.
	ListTransactions(ctx context.Context, userID uint, from, to time.Time) ([]domain.Transaction, error)
}

// Tx is a unit of work. Writes become visible only when the surrounding Atomic call commits.
type Tx interface {
	Reader
	// LockWalletByUserID loads a wallet and holds its row lock until commit or rollback.
	LockWalletByUserID(ctx context.Context, userID uint) (*domain.Wallet, error)
	CreateUser(ctx context.Context, user *domain.User) error
	AdjustBalance(ctx context.Context, walletID uint, delta domain.Amount) error
	SetPinCode(ctx context.Context, walletID uint, hash string) error
	AppendTransaction(ctx context.Context, tx *domain.Transaction) error
}

// Store is the ledger store entry point.
type Store interface {
	Reader
	// Atomic runs fn in one database transaction. A non-nil return rolls back every write.
	Atomic(ctx context.Context, fn func(tx Tx) error) error
	Ping(ctx context.Context) error
}

// GormStore implements Store on GORM.
type GormStore struct {
	repo
}

// New creates a store over an open GORM connection.
func New(db *gorm.DB) *GormStore {
	return &GormStore{repo{db: db}}
}

// Atomic implements Store.
func (s *GormStore) Atomic(ctx context.Context, fn func(tx Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&repo{db: tx}) // Queries inside fn run on the transaction
	})
}

// Ping implements Store.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// repo runs queries against either the pool or an open transaction.
type repo struct {
	db *gorm.DB
}

func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound // Callers compare against the sentinel directly
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, ErrDuplicate) // Needs TranslateError in the gorm config
	default:
		return fmt.Errorf("%s: %w", op, err) // Driver error with the operation name
	}
}

func (r *repo) UserByID(ctx context.Context, id uint) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate("user by id", err)
	}
	return &u, nil
}

func (r *repo) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate("user by email", err)
	}
	return &u, nil
}

func (r *repo) UsersByIDs(ctx context.Context, ids []uint) (map[uint]domain.User, error) {
	out := make(map[uint]domain.User, len(ids))
	if len(ids) == 0 {
		return out, nil // Skip the query for an empty IN list
	}
	var users []domain.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, translate("users by ids", err)
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func (r *repo) WalletByUserID(ctx context.Context, userID uint) (*domain.Wallet, error) {
	var w domain.Wallet
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&w).Error; err != nil {
		return nil, translate("wallet by user", err)
	}
	return &w, nil
}

func (r *repo) ListTransactions(ctx context.Context, userID uint, from, to time.Time) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	err := r.db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Select("transactions.*, wallets.user_id AS source_user_id").                        // Source wallet owner
		Joins("JOIN wallets ON wallets.id = transactions.wallet_id").                       // Resolve the owner
		Where("transactions.recipient_user_id = ? OR wallets.user_id = ?", userID, userID). // Received or sent/deposited
		Where("transactions.created_at >= ? AND transactions.created_at < ?", from, to).    // Half-open range
		Order("transactions.created_at, transactions.id").                                  // Oldest first, stable
		Find(&txs).Error
	if err != nil {
		return nil, translate("list transactions", err)
	}
	return txs, nil
}

func (r *repo) LockWalletByUserID(ctx context.Context, userID uint) (*domain.Wallet, error) {
	var w domain.Wallet
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}). // SELECT ... FOR UPDATE, ignored by SQLite
		Where("user_id = ?", userID).
		First(&w).Error
	if err != nil {
		return nil, translate("lock wallet", err)
	}
	return &w, nil
}

func (r *repo) CreateUser(ctx context.Context, user *domain.User) error {
	return translate("create user", r.db.WithContext(ctx).Create(user).Error)
}

func (r *repo) AdjustBalance(ctx context.Context, walletID uint, delta domain.Amount) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Wallet{}).
		Where("id = ?", walletID).
		Update("balance", gorm.Expr("balance + ?", int64(delta))) // Relative update, no read-modify-write
	if res.Error != nil {
		return translate("adjust balance", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound // Unknown wallet
	}
	return nil
}

func (r *repo) SetPinCode(ctx context.Context, walletID uint, hash string) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Wallet{}).
		Where("id = ?", walletID).
		Update("pin_code", hash)
	if res.Error != nil {
		return translate("set pin code", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repo) AppendTransaction(ctx context.Context, tx *domain.Transaction) error {
	return translate("append transaction", r.db.WithContext(ctx).Create(tx).Error)
}
