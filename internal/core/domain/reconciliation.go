package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultBalancedThreshold is the absolute net amount below which a group is
// considered balanced. The 0.02 cutoff absorbs floating rounding noise in the
// party's base currency; it is a policy constant, overridable via config.
var DefaultBalancedThreshold = decimal.RequireFromString("0.02")

// GroupStatus classifies a reconciliation group by its net amount.
type GroupStatus string

const (
	// GroupPending means the group still needs more documents to net to zero.
	GroupPending GroupStatus = "PENDING"
	// GroupBalanced means the group's member balances net to (almost) zero.
	GroupBalanced GroupStatus = "BALANCED"
)

// ReconciliationGroup is a named bundle of documents whose net effect is
// expected to trend toward zero. The group exclusively owns the
// ReconciliationID tag on its member documents.
type ReconciliationGroup struct {
	ReconciliationID string        `json:"reconciliationId"`
	Party            string        `json:"party"`
	Company          string        `json:"company"`
	MemberRefs       []DocumentRef `json:"memberRefs"` // addition order, not posting date
	PostingDate      time.Time     `json:"postingDate"`
	AuditFields
}

// Contains reports whether the given voucher number belongs to the group.
func (g *ReconciliationGroup) Contains(voucherNo string) bool {
	for _, ref := range g.MemberRefs {
		if ref.VoucherNo == voucherNo {
			return true
		}
	}
	return false
}

// NetAmount derives the group's net effect: the sum of signed outstanding
// amounts across the given member documents. Cancelled documents do not count.
func NetAmount(members []Document) decimal.Decimal {
	net := decimal.Zero
	for i := range members {
		if members[i].IsCancelled() {
			continue
		}
		net = net.Add(members[i].OutstandingAmount)
	}
	return net
}

// ClassifyNet maps a net amount to a group status given the balanced threshold.
func ClassifyNet(net, threshold decimal.Decimal) GroupStatus {
	if net.Abs().LessThan(threshold) {
		return GroupBalanced
	}
	return GroupPending
}

// DissolveOutcome is the result of a dissolve request. When conflicts are
// present and the call was unforced, nothing was mutated and the caller is
// expected to surface the conflicts to a human before retrying with force.
type DissolveOutcome struct {
	Dissolved            []Document `json:"dissolved"`
	Conflicts            []Document `json:"conflicts"`
	RequiresConfirmation bool       `json:"requiresConfirmation"`
}
