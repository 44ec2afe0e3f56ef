package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"time"     // Date parsing

	"digital_wallet/internal/apperr" // Error taxonomy
	"digital_wallet/internal/domain" // Domain models
	"digital_wallet/internal/wallet" // Wallet service inputs

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Decimal amounts
)

// DateTimeLayout renders and accepts timestamps in history requests and responses
const DateTimeLayout = "2006-01-02 15:04:05"

// dateLayouts are the accepted start_date and end_date formats, most specific first
var dateLayouts = []string{time.RFC3339, DateTimeLayout, "2006-01-02"}

// BalanceRequest is the balance query body
type BalanceRequest struct {
	PinCode string `json:"pin_code" binding:"required,pin"`
}

// TransactionsQuery is the history query string
type TransactionsQuery struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

// DepositRequest is the deposit body
type DepositRequest struct {
	Amount *decimal.Decimal `json:"amount" binding:"required"`
}

// TransferRequest is the transfer body. The recipient is named by email or by user ID.
type TransferRequest struct {
	RecipientEmail string           `json:"recipient_email" binding:"required_without=RecipientID,omitempty,email"`
	RecipientID    uint             `json:"recipient_id" binding:"required_without=RecipientEmail"`
	Amount         *decimal.Decimal `json:"amount" binding:"required"`
	PinCode        string           `json:"pin_code" binding:"required,pin"`
}

// ChangePinRequest is the PIN rotation body
type ChangePinRequest struct {
	OldPinCode        string `json:"old_pin_code" binding:"required,pin"`
	NewPinCode        string `json:"new_pin_code" binding:"required,nefield=OldPinCode,pin"`
	ConfirmNewPinCode string `json:"confirm_new_pin_code" binding:"required,eqfield=NewPinCode"`
	Password          string `json:"password" binding:"required"`
}

// TransactionResponse is one history entry as rendered to the viewer
type TransactionResponse struct {
	ID               uint                   `json:"id"`
	Type             domain.TransactionType `json:"type"`
	Status           domain.Status          `json:"status"`
	Amount           domain.Amount          `json:"amount"`
	CounterpartyUser *domain.UserSummary    `json:"counterparty_user"`
	CreatedAt        string                 `json:"created_at"`
}

// BalanceHandler returns the wallet balance after checking the PIN
func BalanceHandler(svc WalletService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var req BalanceRequest
		if err := bindJSON(c, &req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{errorsKey: fieldErrors(err)})
			return
		}
		balance, err := svc.GetBalance(c.Request.Context(), userID, req.PinCode)
		if err != nil {
			respondError(c, err, errorsKey)
			return
		}
		c.JSON(http.StatusOK, gin.H{"balance": balance})
	}
}

// parseDate accepts RFC3339, date-time or date-only values, the latter two as UTC
func parseDate(s string) (*time.Time, bool) {
	if s == "" {
		return nil, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, true
		}
	}
	return nil, false
}

// TransactionHistoryHandler lists the caller's transactions in a date range
func TransactionHistoryHandler(svc WalletService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var q TransactionsQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{errorsKey: fieldErrors(err)})
			return
		}
		fields := map[string][]string{}
		start, ok := parseDate(q.StartDate)
		if !ok {
			fields["start_date"] = []string{"The start date field must be a valid date."}
		}
		end, ok := parseDate(q.EndDate)
		if !ok {
			fields["end_date"] = []string{"The end date field must be a valid date."}
		}
		if len(fields) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{errorsKey: fields})
			return
		}

		entries, err := svc.ListTransactions(c.Request.Context(), userID, wallet.HistoryRange{Start: start, End: end})
		if err != nil {
			respondError(c, err, errorsKey)
			return
		}
		data := make([]TransactionResponse, 0, len(entries))
		for _, e := range entries {
			data = append(data, TransactionResponse{
				ID:               e.ID,
				Type:             e.Type,
				Status:           e.Status,
				Amount:           e.Amount,
				CounterpartyUser: e.Counterparty,
				CreatedAt:        e.CreatedAt.UTC().Format(DateTimeLayout),
			})
		}
		c.JSON(http.StatusOK, gin.H{"data": data})
	}
}

// DepositHandler credits the caller's wallet
func DepositHandler(svc WalletService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var req DepositRequest
		if err := bindJSON(c, &req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{errorsKey: fieldErrors(err)})
			return
		}
		_, err := svc.Deposit(c.Request.Context(), userID, *req.Amount)
		if apperr.KindOf(err) == apperr.KindInvalidAmount {
			msg := "The amount field must be at least 0."
			if errors.Is(err, domain.ErrTooPrecise) {
				msg = "The amount field must have at most 2 decimal places."
			}
			c.JSON(http.StatusBadRequest, gin.H{errorsKey: map[string][]string{"amount": {msg}}})
			return
		} else if err != nil {
			respondError(c, err, errorsKey)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Deposit successful"})
	}
}

// TransferHandler moves funds from the caller to another user's wallet
func TransferHandler(svc WalletService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var req TransferRequest
		if err := bindJSON(c, &req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{errorsKey: fieldErrors(err)})
			return
		}
		_, err := svc.Transfer(c.Request.Context(), userID, wallet.TransferInput{
			Recipient: wallet.RecipientRef{Email: req.RecipientEmail, UserID: req.RecipientID},
			Amount:    *req.Amount,
			Pin:       req.PinCode,
		})
		if err != nil {
			respondError(c, err, errorsKey)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Transfer successful"})
	}
}

// ChangePinHandler rotates the caller's wallet PIN
func ChangePinHandler(svc WalletService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var req ChangePinRequest
		if err := bindJSON(c, &req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{errorKey: fieldErrors(err)})
			return
		}
		err := svc.ChangePin(c.Request.Context(), userID, wallet.ChangePinInput{
			OldPin:        req.OldPinCode,
			NewPin:        req.NewPinCode,
			ConfirmNewPin: req.ConfirmNewPinCode,
			Password:      req.Password,
		})
		if err != nil {
			respondError(c, err, errorKey)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "PIN code changed successfully"})
	}
}
