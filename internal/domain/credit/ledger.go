package credit

import (
	"github.com/elektromeistras/creditledger/internal/domain/partner"
	"github.com/elektromeistras/creditledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Balance change reasons recorded on customer balance events
const (
	BalanceReasonPickupConfirmed = "pickup_confirmed"
	BalanceReasonReturnConfirmed = "return_confirmed"
	BalanceReasonReversal        = "reversal"
)

// ProjectedBalance computes the balance the customer would have if a
// transaction of the given type and amount were confirmed. Pure, no
// side effects; used to surface over-limit warnings before confirmation.
func ProjectedBalance(customer *partner.Customer, txType TransactionType, totalAmount decimal.Decimal) decimal.Decimal {
	if txType == TransactionTypeReturn {
		return customer.CurrentBalance.Sub(totalAmount)
	}
	return customer.CurrentBalance.Add(totalAmount)
}

// IsOverLimit reports whether the projected balance strictly exceeds
// the customer's credit limit. A projected balance exactly equal to the
// limit is not over limit. This check is advisory: an over-limit pickup
// is still created as PENDING, the human confirming with a signature is
// the authorization gate. Returns are never limit-checked.
func IsOverLimit(customer *partner.Customer, projectedBalance decimal.Decimal) bool {
	return projectedBalance.GreaterThan(customer.CreditLimit)
}

// ApplyConfirmed applies the signed amount of a confirmed transaction
// to the customer's balance. Must be called exactly once per
// transaction, in the same unit of work as the status flip to
// CONFIRMED; the lifecycle's single PENDING->CONFIRMED transition is
// what prevents double application.
func ApplyConfirmed(customer *partner.Customer, tx *CreditTransaction) error {
	if customer == nil || tx == nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Customer and transaction are required")
	}
	if customer.ID != tx.CustomerID {
		return shared.NewDomainError("VALIDATION_ERROR", "Transaction does not belong to this customer")
	}
	if len(tx.Lines) == 0 {
		return shared.NewDomainError("EMPTY_TRANSACTION", "A transaction with zero lines has no balance effect")
	}
	if !tx.IsConfirmed() {
		return shared.NewDomainError("INVALID_STATE", "Only confirmed transactions affect the balance")
	}

	if tx.IsPickup() {
		return customer.IncreaseBalance(tx.TotalAmount, BalanceReasonPickupConfirmed)
	}
	return customer.DecreaseBalance(tx.TotalAmount, BalanceReasonReturnConfirmed)
}

// ReverseConfirmed inverts the balance effect of a previously applied
// transaction. Used only by the out-of-band admin reversal path; not
// reachable through the normal pickup/return flow.
func ReverseConfirmed(customer *partner.Customer, tx *CreditTransaction) error {
	if customer == nil || tx == nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Customer and transaction are required")
	}
	if customer.ID != tx.CustomerID {
		return shared.NewDomainError("VALIDATION_ERROR", "Transaction does not belong to this customer")
	}
	if len(tx.Lines) == 0 {
		return shared.NewDomainError("EMPTY_TRANSACTION", "A transaction with zero lines has no balance effect")
	}
	if !tx.IsConfirmed() {
		return shared.NewDomainError("INVALID_STATE", "Only confirmed transactions can be reversed")
	}
	if !tx.Reversed {
		return shared.NewDomainError("INVALID_STATE", "Transaction must be marked as reversed before the balance is compensated")
	}

	if tx.IsPickup() {
		return customer.DecreaseBalance(tx.TotalAmount, BalanceReasonReversal)
	}
	return customer.IncreaseBalance(tx.TotalAmount, BalanceReasonReversal)
}
