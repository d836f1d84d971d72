package classify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/finbooks/account_recon_app/internal/core/domain"
	"github.com/finbooks/account_recon_app/internal/utils/classify"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		name      string
		hint      string
		voucherNo string
		isReturn  bool
		expected  domain.DocumentKind
	}{
		{
			name:      "payment hint",
			hint:      "Payment",
			voucherNo: "PAY-2025-001",
			expected:  domain.KindPayment,
		},
		{
			name:      "payment entry hint with whitespace",
			hint:      "  payment entry ",
			voucherNo: "PE-0042",
			expected:  domain.KindPayment,
		},
		{
			name:      "bank payment hint",
			hint:      "Bank Payment",
			voucherNo: "BP-17",
			expected:  domain.KindPayment,
		},
		{
			name:      "credit note hint",
			hint:      "Credit Note",
			voucherNo: "SINV-0001",
			expected:  domain.KindCreditNote,
		},
		{
			name:      "credit_note hint with underscore",
			hint:      "credit_note",
			voucherNo: "SINV-0002",
			expected:  domain.KindCreditNote,
		},
		{
			name:      "return flag forces credit note",
			hint:      "Sales Invoice",
			voucherNo: "SINV-0003",
			isReturn:  true,
			expected:  domain.KindCreditNote,
		},
		{
			name:      "CN marker in voucher number",
			hint:      "",
			voucherNo: "CN-2025-009",
			expected:  domain.KindCreditNote,
		},
		{
			name:      "CN marker mid voucher",
			hint:      "",
			voucherNo: "ACME-CN-12",
			expected:  domain.KindCreditNote,
		},
		{
			name:      "debit note hint",
			hint:      "Debit Note",
			voucherNo: "PINV-0001",
			expected:  domain.KindDebitNote,
		},
		{
			name:      "DN marker in voucher number",
			hint:      "",
			voucherNo: "DN-0007",
			expected:  domain.KindDebitNote,
		},
		{
			name:      "plain invoice hint",
			hint:      "Sales Invoice",
			voucherNo: "SINV-0004",
			expected:  domain.KindInvoice,
		},
		{
			name:      "unknown hint falls back to invoice",
			hint:      "Journal Entry",
			voucherNo: "JE-99",
			expected:  domain.KindInvoice,
		},
		{
			name:      "empty everything falls back to invoice",
			hint:      "",
			voucherNo: "",
			expected:  domain.KindInvoice,
		},
		{
			name:      "CN embedded in a longer token is not a marker",
			hint:      "",
			voucherNo: "ACNE-001",
			expected:  domain.KindInvoice,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := classify.Classify(tc.hint, tc.voucherNo, tc.isReturn)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	first := classify.Classify("payment", "PAY-1", false)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, classify.Classify("payment", "PAY-1", false))
	}
}
