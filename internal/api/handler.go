// Package api is the HTTP surface: gin handlers, request binding and error rendering.
package api

import (
	"context"  // Request contexts
	"errors"   // Error inspection
	"net/http" // HTTP status codes

	"digital_wallet/internal/apperr"     // Error kinds
	"digital_wallet/internal/auth"       // Authentication service types
	"digital_wallet/internal/domain"     // Domain models
	"digital_wallet/internal/middleware" // Authenticated user lookup
	"digital_wallet/internal/utils"      // Token claims
	"digital_wallet/internal/wallet"     // Wallet service types

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Decimal amounts
	"github.com/sirupsen/logrus"    // Logging library
)

// WalletService is implemented by wallet.Service.
type WalletService interface {
	GetBalance(ctx context.Context, userID uint, pin string) (domain.Amount, error)
	Deposit(ctx context.Context, userID uint, amount decimal.Decimal) (*domain.Transaction, error)
	Transfer(ctx context.Context, senderID uint, in wallet.TransferInput) (*wallet.TransferReceipt, error)
	ChangePin(ctx context.Context, userID uint, in wallet.ChangePinInput) error
	ListTransactions(ctx context.Context, viewerID uint, r wallet.HistoryRange) ([]wallet.HistoryEntry, error)
}

// AuthService is implemented by auth.Service.
type AuthService interface {
	Register(ctx context.Context, in auth.RegisterInput) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, claims *utils.Claims) error
}

// Keys that validation errors are reported under. They differ per route.
const (
	errorKey  = "error"
	errorsKey = "errors"
)

// respondError renders err. Field errors go under validationKey, everything else under "error".
func respondError(c *gin.Context, err error, validationKey string) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		ae = apperr.New(c.FullPath(), apperr.ErrStorage) // Unclassified errors are internal
		ae.Err = err
	}
	switch ae.Kind {
	case apperr.KindValidation:
		c.JSON(http.StatusBadRequest, gin.H{validationKey: ae.Fields}) // Field -> messages
	case apperr.KindUnauthorized:
		c.JSON(http.StatusUnauthorized, gin.H{"error": ae.Message}) // Bad credentials or token
	case apperr.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": ae.Message}) // Missing wallet
	case apperr.KindStorage:
		logrus.WithFields(logrus.Fields{
			"path":  c.FullPath(), // Route
			"error": err.Error(),  // Underlying cause, never sent to the client
		}).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": apperr.ErrStorage.Message}) // Generic message only
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": ae.Message}) // Business rule rejection
	}
}

// currentUser returns the authenticated user ID or aborts with 401
func currentUser(c *gin.Context) (uint, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"}) // No user in context
	}
	return userID, ok
}
