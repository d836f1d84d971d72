package services

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/finbooks/account_recon_app/internal/core/domain"
	portsrepo "github.com/finbooks/account_recon_app/internal/core/ports/repositories"
	portssvc "github.com/finbooks/account_recon_app/internal/core/ports/services"
	"github.com/finbooks/account_recon_app/internal/dto"
	"github.com/finbooks/account_recon_app/internal/utils/accounting"
)

// statementService builds the chronological, running-balance statement view.
type statementService struct {
	docRepo   portsrepo.DocumentRepositoryFacade
	reconRepo portsrepo.ReconciliationRepositoryFacade
}

// NewStatementService creates a new StatementService.
func NewStatementService(docRepo portsrepo.DocumentRepositoryFacade, reconRepo portsrepo.ReconciliationRepositoryFacade) portssvc.StatementSvcFacade {
	return &statementService{docRepo: docRepo, reconRepo: reconRepo}
}

var _ portssvc.StatementSvcFacade = (*statementService)(nil)

// BuildStatement implements portssvc.StatementSvcFacade.
func (s *statementService) BuildStatement(ctx context.Context, party, company string) ([]domain.StatementRow, error) {
	docs, err := s.docRepo.ListDocumentsByParty(ctx, party, company)
	if err != nil {
		return nil, err
	}
	groups, _, err := s.reconRepo.ListGroupsByParty(ctx, party, company, 0, nil)
	if err != nil {
		return nil, err
	}
	return buildStatementRows(docs, groups), nil
}

// buildStatementRows assembles the display rows: group summaries first in
// their own chronological order, then loose documents by posting date. One
// accumulator runs across all rows; member rows inside a summary do not
// contribute again, the group's outstanding sum already accounts for them.
func buildStatementRows(docs []domain.Document, groups []domain.ReconciliationGroup) []domain.StatementRow {
	byRef := make(map[domain.DocumentRef]*domain.Document, len(docs))
	memberRefs := make(map[domain.DocumentRef]bool)
	for i := range docs {
		byRef[docs[i].Ref()] = &docs[i]
	}
	for _, g := range groups {
		for _, ref := range g.MemberRefs {
			memberRefs[ref] = true
		}
	}

	sorted := make([]domain.ReconciliationGroup, len(groups))
	copy(sorted, groups)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].PostingDate.Equal(sorted[j].PostingDate) {
			return sorted[i].PostingDate.Before(sorted[j].PostingDate)
		}
		return sorted[i].ReconciliationID < sorted[j].ReconciliationID
	})

	rows := make([]domain.StatementRow, 0, len(groups)+len(docs))
	running := decimal.Zero

	for i := range sorted {
		g := &sorted[i]
		members := make([]domain.Document, 0, len(g.MemberRefs))
		for _, ref := range g.MemberRefs { // addition order
			if doc, ok := byRef[ref]; ok && !doc.IsCancelled() {
				members = append(members, *doc)
			}
		}
		sums := accounting.SumBalances(members)
		running = running.Add(sums.Balance)

		summary := domain.GroupSummaryRow{
			ReconciliationID: g.ReconciliationID,
			PostingDate:      g.PostingDate,
			TotalSum:         sums.Total,
			PaidSum:          sums.Paid,
			OutstandingSum:   sums.Balance,
			RunningBalance:   running,
			MemberCount:      len(members),
			Members:          make([]domain.DocumentRow, 0, len(members)),
		}
		for j := range members {
			row := toDocumentRow(&members[j])
			// Expansion reveals member rows without perturbing the running
			// total twice; they display the balance already folded in above.
			row.RunningBalance = running
			summary.Members = append(summary.Members, row)
		}
		rows = append(rows, domain.StatementRow{Type: domain.RowGroupSummary, Group: &summary})
	}

	loose := make([]domain.Document, 0, len(docs))
	for i := range docs {
		if docs[i].IsCancelled() || memberRefs[docs[i].Ref()] {
			continue
		}
		loose = append(loose, docs[i])
	}
	sortDocumentsChronologically(loose)

	for i := range loose {
		row := toDocumentRow(&loose[i])
		running = running.Add(row.Balance)
		row.RunningBalance = running
		rows = append(rows, domain.StatementRow{Type: domain.RowDocument, Document: &row})
	}

	return rows
}

// BuildFilteredStatement implements portssvc.StatementSvcFacade.
func (s *statementService) BuildFilteredStatement(ctx context.Context, party, company string, filter dto.StatementFilter) ([]domain.StatementRow, error) {
	docs, err := s.docRepo.ListDocumentsByParty(ctx, party, company)
	if err != nil {
		return nil, err
	}
	return buildFilteredRows(docs, filter), nil
}

// buildFilteredRows flattens the statement for an active search: no summary
// rows, every document (group members included) shown individually, and a
// purely informational running balance recomputed against the filtered set.
func buildFilteredRows(docs []domain.Document, filter dto.StatementFilter) []domain.StatementRow {
	matched := make([]domain.Document, 0, len(docs))
	for i := range docs {
		if docs[i].IsCancelled() {
			continue
		}
		if matchesFilter(&docs[i], &filter) {
			matched = append(matched, docs[i])
		}
	}
	sortDocumentsChronologically(matched)

	rows := make([]domain.StatementRow, 0, len(matched))
	running := decimal.Zero
	for i := range matched {
		row := toDocumentRow(&matched[i])
		running = running.Add(row.Balance)
		row.RunningBalance = running
		rows = append(rows, domain.StatementRow{Type: domain.RowDocument, Document: &row})
	}
	return rows
}

func matchesFilter(doc *domain.Document, filter *dto.StatementFilter) bool {
	if q := strings.ToLower(strings.TrimSpace(filter.Query)); q != "" {
		if !strings.Contains(strings.ToLower(doc.VoucherNo), q) &&
			!strings.Contains(strings.ToLower(doc.Description), q) {
			return false
		}
	}
	if filter.From != nil && doc.PostingDate.Before(*filter.From) {
		return false
	}
	if filter.To != nil && doc.PostingDate.After(*filter.To) {
		return false
	}
	if filter.Amount != nil {
		line := accounting.ComputeBalance(*doc)
		amount := *filter.Amount
		if !line.Total.Abs().Equal(amount.Abs()) && !line.Balance.Abs().Equal(amount.Abs()) {
			return false
		}
	}
	return true
}

func toDocumentRow(doc *domain.Document) domain.DocumentRow {
	line := accounting.ComputeBalance(*doc)
	return domain.DocumentRow{
		VoucherNo:   doc.VoucherNo,
		Kind:        doc.Kind,
		PostingDate: doc.PostingDate,
		Total:       line.Total,
		Paid:        line.Paid,
		Balance:     line.Balance,
		Description: doc.Description,
	}
}

func sortDocumentsChronologically(docs []domain.Document) {
	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].PostingDate.Equal(docs[j].PostingDate) {
			return docs[i].PostingDate.Before(docs[j].PostingDate)
		}
		return docs[i].VoucherNo < docs[j].VoucherNo
	})
}
