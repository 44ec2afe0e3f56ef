// Package apperr defines the error taxonomy shared by the wallet and auth services.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers and for HTTP status mapping.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindUnauthorized
	KindInvalidAmount
	KindInvalidPin
	KindInvalidPassword
	KindInsufficientBalance
	KindRecipientNotFound
	KindNotFound
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindInvalidAmount:
		return "invalid_amount"
	case KindInvalidPin:
		return "invalid_pin"
	case KindInvalidPassword:
		return "invalid_password"
	case KindInsufficientBalance:
		return "insufficient_balance"
	case KindRecipientNotFound:
		return "recipient_not_found"
	case KindNotFound:
		return "not_found"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// Error is a classified failure. Message is safe to show to API clients.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Fields  map[string][]string // per-field messages for KindValidation
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s [%s]: %s -> %v", e.Kind, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Kind, e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is checks. Services return copies carrying an Op.
var (
	ErrValidation          = &Error{Kind: KindValidation, Message: "The given data was invalid."}
	ErrUnauthorized        = &Error{Kind: KindUnauthorized, Message: "Unauthorized"}
	ErrInvalidAmount       = &Error{Kind: KindInvalidAmount, Message: "Invalid amount"}
	ErrInvalidPin          = &Error{Kind: KindInvalidPin, Message: "Invalid PIN code"}
	ErrInvalidOldPin       = &Error{Kind: KindInvalidPin, Message: "Invalid old PIN code"}
	ErrInvalidPassword     = &Error{Kind: KindInvalidPassword, Message: "Invalid password"}
	ErrInsufficientBalance = &Error{Kind: KindInsufficientBalance, Message: "Insufficient balance"}
	ErrRecipientNotFound   = &Error{Kind: KindRecipientNotFound, Message: "Recipient wallet not found"}
	ErrWalletNotFound      = &Error{Kind: KindNotFound, Message: "Wallet not found"}
	ErrStorage             = &Error{Kind: KindStorage, Message: "Internal server error"}
)

// New copies a sentinel and tags it with op.
func New(op string, sentinel *Error) *Error {
	cp := *sentinel
	cp.Op = op
	return &cp
}

// Validation builds a validation error with a single field message.
func Validation(op, field, msg string) *Error {
	return ValidationFields(op, map[string][]string{field: {msg}})
}

// ValidationFields builds a validation error from a field message map.
func ValidationFields(op string, fields map[string][]string) *Error {
	e := New(op, ErrValidation)
	e.Fields = fields
	return e
}

// Storage wraps a store failure. A nil err yields nil.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err // already classified inside a unit of work
	}
	e := New(op, ErrStorage)
	e.Err = err
	return e
}

// KindOf returns the Kind of err, or KindStorage for unclassified errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindStorage
}
