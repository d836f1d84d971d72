package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/finbooks/account_recon_app/internal/core/domain"
)

func TestNetAmount(t *testing.T) {
	members := []domain.Document{
		{Kind: domain.KindInvoice, OutstandingAmount: decimal.RequireFromString("1000"), Status: domain.StatusSubmitted},
		{Kind: domain.KindCreditNote, OutstandingAmount: decimal.RequireFromString("-200"), Status: domain.StatusSubmitted},
		{Kind: domain.KindPayment, OutstandingAmount: decimal.RequireFromString("-800"), Status: domain.StatusSubmitted},
	}

	net := domain.NetAmount(members)
	assert.True(t, net.IsZero(), "net: got %s", net)
}

func TestNetAmountSkipsCancelled(t *testing.T) {
	members := []domain.Document{
		{Kind: domain.KindInvoice, OutstandingAmount: decimal.RequireFromString("1000"), Status: domain.StatusSubmitted},
		{Kind: domain.KindInvoice, OutstandingAmount: decimal.RequireFromString("5000"), Status: domain.StatusCancelled},
	}

	net := domain.NetAmount(members)
	assert.True(t, net.Equal(decimal.RequireFromString("1000")), "net: got %s", net)
}

func TestClassifyNet(t *testing.T) {
	threshold := domain.DefaultBalancedThreshold

	testCases := []struct {
		name     string
		net      string
		expected domain.GroupStatus
	}{
		{name: "exact zero", net: "0", expected: domain.GroupBalanced},
		{name: "rounding noise positive", net: "0.01", expected: domain.GroupBalanced},
		{name: "rounding noise negative", net: "-0.019", expected: domain.GroupBalanced},
		{name: "at threshold is pending", net: "0.02", expected: domain.GroupPending},
		{name: "well above threshold", net: "200", expected: domain.GroupPending},
		{name: "well below threshold", net: "-800", expected: domain.GroupPending},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.ClassifyNet(decimal.RequireFromString(tc.net), threshold)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestGroupContains(t *testing.T) {
	g := domain.ReconciliationGroup{
		ReconciliationID: "rec-1",
		MemberRefs: []domain.DocumentRef{
			{VoucherNo: "SINV-001", Kind: domain.KindInvoice},
			{VoucherNo: "PAY-001", Kind: domain.KindPayment},
		},
	}

	assert.True(t, g.Contains("SINV-001"))
	assert.True(t, g.Contains("PAY-001"))
	assert.False(t, g.Contains("SINV-002"))
}
