package wallet

import (
	"digital_wallet/internal/domain" // Amounts

	"github.com/shopspring/decimal" // Fee arithmetic
)

var (
	// FeeThreshold is the largest amount transferred without a fee.
	FeeThreshold = domain.MustAmount("25")
	feeFlat      = decimal.RequireFromString("2.5") // Flat part of the fee
	feeRate      = decimal.RequireFromString("0.1") // 10% of the amount
)

// TransferFee returns the fee charged to the sender on top of amount:
// nothing up to FeeThreshold, otherwise 2.50 plus 10% of amount,
// rounded half away from zero to the cent.
func TransferFee(amount domain.Amount) domain.Amount {
	if amount <= FeeThreshold {
		return 0 // Small transfers are free
	}
	fee := feeFlat.Add(amount.Decimal().Mul(feeRate)).Round(2)
	return domain.Amount(fee.Shift(2).IntPart())
}

// TransferDebit is the fee-adjusted amount removed from the sender.
func TransferDebit(amount domain.Amount) domain.Amount {
	return amount + TransferFee(amount)
}
