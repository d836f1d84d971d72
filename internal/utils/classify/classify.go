// Package classify is a best-effort adapter for legacy document feeds that
// carry only weak, free-text type hints. It runs once at ingestion; the
// engine itself trusts the closed domain.DocumentKind thereafter and never
// re-derives the kind from strings.
package classify

import (
	"regexp"
	"strings"

	"github.com/finbooks/account_recon_app/internal/core/domain"
)

// Known payment type markers seen in upstream feeds.
var paymentMarkers = map[string]struct{}{
	"payment":       {},
	"payment entry": {},
	"bank payment":  {},
	"cash payment":  {},
}

var (
	creditNoteHint   = regexp.MustCompile(`(?i)credit[\s_-]*note`)
	debitNoteHint    = regexp.MustCompile(`(?i)debit[\s_-]*note`)
	creditNoteMarker = regexp.MustCompile(`(?i)(^|[^A-Z0-9])CN([^A-Z0-9]|$)`)
	debitNoteMarker  = regexp.MustCompile(`(?i)(^|[^A-Z0-9])DN([^A-Z0-9]|$)`)
)

// Classify derives a DocumentKind from a heterogeneous type hint, the voucher
// number and the upstream return flag. Pure and deterministic: same input,
// same answer. Unrecognized input falls back to Invoice.
func Classify(hint, voucherNo string, isReturn bool) domain.DocumentKind {
	normalized := strings.ToLower(strings.TrimSpace(hint))
	if _, ok := paymentMarkers[normalized]; ok {
		return domain.KindPayment
	}
	if creditNoteHint.MatchString(hint) || isReturn || creditNoteMarker.MatchString(voucherNo) {
		return domain.KindCreditNote
	}
	if debitNoteHint.MatchString(hint) || debitNoteMarker.MatchString(voucherNo) {
		return domain.KindDebitNote
	}
	return domain.KindInvoice
}
