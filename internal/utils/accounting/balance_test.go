package accounting_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/finbooks/account_recon_app/internal/core/domain"
	"github.com/finbooks/account_recon_app/internal/utils/accounting"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeBalance(t *testing.T) {
	testCases := []struct {
		name            string
		doc             domain.Document
		expectedTotal   string
		expectedPaid    string
		expectedBalance string
	}{
		{
			name: "unpaid invoice",
			doc: domain.Document{
				Kind:              domain.KindInvoice,
				GrandTotal:        dec("1000"),
				OutstandingAmount: dec("1000"),
			},
			expectedTotal:   "1000",
			expectedPaid:    "0",
			expectedBalance: "1000",
		},
		{
			name: "partially settled invoice",
			doc: domain.Document{
				Kind:              domain.KindInvoice,
				GrandTotal:        dec("1000"),
				OutstandingAmount: dec("400"),
			},
			expectedTotal:   "1000",
			expectedPaid:    "600",
			expectedBalance: "400",
		},
		{
			name: "payment partially allocated",
			doc: domain.Document{
				Kind:              domain.KindPayment,
				GrandTotal:        dec("1000"),
				OutstandingAmount: dec("-200"),
			},
			expectedTotal:   "-1000",
			expectedPaid:    "-800",
			expectedBalance: "-200",
		},
		{
			name: "payment fully allocated",
			doc: domain.Document{
				Kind:              domain.KindPayment,
				GrandTotal:        dec("500"),
				OutstandingAmount: dec("0"),
			},
			expectedTotal:   "-500",
			expectedPaid:    "-500",
			expectedBalance: "0",
		},
		{
			name: "credit note with unused credit",
			doc: domain.Document{
				Kind:              domain.KindCreditNote,
				GrandTotal:        dec("300"),
				OutstandingAmount: dec("-300"),
			},
			expectedTotal:   "300",
			expectedPaid:    "600",
			expectedBalance: "-300",
		},
		{
			name: "debit note still owed",
			doc: domain.Document{
				Kind:              domain.KindDebitNote,
				GrandTotal:        dec("150"),
				OutstandingAmount: dec("150"),
			},
			expectedTotal:   "150",
			expectedPaid:    "0",
			expectedBalance: "150",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			line := accounting.ComputeBalance(tc.doc)
			assert.True(t, dec(tc.expectedTotal).Equal(line.Total), "total: got %s", line.Total)
			assert.True(t, dec(tc.expectedPaid).Equal(line.Paid), "paid: got %s", line.Paid)
			assert.True(t, dec(tc.expectedBalance).Equal(line.Balance), "balance: got %s", line.Balance)
		})
	}
}

func TestComputeBalanceIdentityHolds(t *testing.T) {
	docs := []domain.Document{
		{Kind: domain.KindInvoice, GrandTotal: dec("1234.56"), OutstandingAmount: dec("234.56")},
		{Kind: domain.KindPayment, GrandTotal: dec("1234.56"), OutstandingAmount: dec("-0.01")},
		{Kind: domain.KindCreditNote, GrandTotal: dec("99.99"), OutstandingAmount: dec("-50")},
		{Kind: domain.KindDebitNote, GrandTotal: dec("10"), OutstandingAmount: dec("0")},
	}
	for _, doc := range docs {
		line := accounting.ComputeBalance(doc)
		assert.True(t, line.Total.Equal(line.Paid.Add(line.Balance)),
			"paid %s + balance %s must equal total %s", line.Paid, line.Balance, line.Total)
	}
}

func TestSumBalances(t *testing.T) {
	docs := []domain.Document{
		{Kind: domain.KindInvoice, GrandTotal: dec("1000"), OutstandingAmount: dec("1000"), Status: domain.StatusSubmitted},
		{Kind: domain.KindPayment, GrandTotal: dec("1000"), OutstandingAmount: dec("-200"), Status: domain.StatusSubmitted},
	}

	sum := accounting.SumBalances(docs)

	assert.True(t, sum.Total.Equal(dec("0")), "total: got %s", sum.Total)
	assert.True(t, sum.Paid.Equal(dec("-800")), "paid: got %s", sum.Paid)
	assert.True(t, sum.Balance.Equal(dec("800")), "balance: got %s", sum.Balance)
}

func TestSumBalancesSkipsCancelled(t *testing.T) {
	docs := []domain.Document{
		{Kind: domain.KindInvoice, GrandTotal: dec("500"), OutstandingAmount: dec("500"), Status: domain.StatusSubmitted},
		{Kind: domain.KindInvoice, GrandTotal: dec("9999"), OutstandingAmount: dec("9999"), Status: domain.StatusCancelled},
	}

	sum := accounting.SumBalances(docs)

	assert.True(t, sum.Total.Equal(dec("500")))
	assert.True(t, sum.Balance.Equal(dec("500")))
}

func TestSumBalancesEmpty(t *testing.T) {
	sum := accounting.SumBalances(nil)
	assert.True(t, sum.Total.IsZero())
	assert.True(t, sum.Paid.IsZero())
	assert.True(t, sum.Balance.IsZero())
}

func TestRoundForDisplay(t *testing.T) {
	assert.True(t, dec("10.01").Equal(accounting.RoundForDisplay(dec("10.005"))))
	assert.True(t, dec("-0.33").Equal(accounting.RoundForDisplay(dec("-0.333"))))
	assert.True(t, dec("5").Equal(accounting.RoundForDisplay(dec("5"))))
}
