// Package accounting holds the balance math shared by the statement and
// reconciliation services. It is the single source of truth for the
// total/paid/balance triple; presentation layers must not re-derive it.
package accounting

import (
	"github.com/shopspring/decimal"

	"github.com/finbooks/account_recon_app/internal/core/domain"
)

// BalanceLine is the computed balance triple for one document, in the
// party's base currency. Full precision is kept internally; rounding
// happens only at presentation time.
type BalanceLine struct {
	Total   decimal.Decimal `json:"total"`
	Paid    decimal.Decimal `json:"paid"`
	Balance decimal.Decimal `json:"balance"`
}

// ComputeBalance derives the balance triple for a single document.
//
// Invoices and debit notes carry positive totals, payments negative ones.
// The sign flip lets a single running-balance accumulator treat every row
// uniformly: add Balance to the prior running total.
//
// Credit notes are invoice-shaped; their balance is the (negative) unused
// credit, so Paid follows the same total-minus-balance identity.
func ComputeBalance(doc domain.Document) BalanceLine {
	var total decimal.Decimal
	switch doc.Kind {
	case domain.KindPayment:
		// A payment reduces what the party owes; its settled amount enters
		// the statement negated, and the signed outstanding remainder is the
		// unapplied portion.
		total = doc.GrandTotal.Neg()
	default:
		total = doc.GrandTotal
	}
	balance := doc.OutstandingAmount
	return BalanceLine{
		Total:   total,
		Paid:    total.Sub(balance),
		Balance: balance,
	}
}

// SumBalances computes the element-wise sum of ComputeBalance over the given
// documents. Cancelled documents are skipped. A group may mix invoices and
// payments, so each member is computed by its own kind.
func SumBalances(docs []domain.Document) BalanceLine {
	sum := BalanceLine{Total: decimal.Zero, Paid: decimal.Zero, Balance: decimal.Zero}
	for i := range docs {
		if docs[i].IsCancelled() {
			continue
		}
		line := ComputeBalance(docs[i])
		sum.Total = sum.Total.Add(line.Total)
		sum.Paid = sum.Paid.Add(line.Paid)
		sum.Balance = sum.Balance.Add(line.Balance)
	}
	return sum
}

// RoundForDisplay rounds an internal amount to two decimals for presentation.
func RoundForDisplay(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
