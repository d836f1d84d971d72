package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finbooks/account_recon_app/internal/apperrors"
	"github.com/finbooks/account_recon_app/internal/core/domain"
	portsrepo "github.com/finbooks/account_recon_app/internal/core/ports/repositories"
	"github.com/finbooks/account_recon_app/internal/utils/pagination"
)

const documentColumns = `voucher_no, kind, party, company, posting_date, grand_total, outstanding_amount, doc_status, reconciliation_id, description, created_at, created_by, last_updated_at, last_updated_by`

type PgxDocumentRepository struct {
	BaseRepository
}

// newPgxDocumentRepository creates a new repository for ledger document data.
func newPgxDocumentRepository(pool *pgxpool.Pool) portsrepo.DocumentRepositoryFacade {
	return &PgxDocumentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.DocumentRepositoryFacade = (*PgxDocumentRepository)(nil)

func scanDocument(row pgx.Row) (*domain.Document, error) {
	var doc domain.Document
	err := row.Scan(
		&doc.VoucherNo,
		&doc.Kind,
		&doc.Party,
		&doc.Company,
		&doc.PostingDate,
		&doc.GrandTotal,
		&doc.OutstandingAmount,
		&doc.Status,
		&doc.ReconciliationID,
		&doc.Description,
		&doc.CreatedAt,
		&doc.CreatedBy,
		&doc.LastUpdatedAt,
		&doc.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// FindDocumentsByRefs implements portsrepo.DocumentReader.
func (r *PgxDocumentRepository) FindDocumentsByRefs(ctx context.Context, party, company string, refs []domain.DocumentRef) ([]domain.Document, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %s FROM documents
		WHERE party = $1 AND company = $2 AND voucher_no = $3 AND kind = $4;
	`, documentColumns)

	batch := &pgx.Batch{}
	for _, ref := range refs {
		batch.Queue(query, party, company, ref.VoucherNo, ref.Kind)
	}

	br := r.Pool.SendBatch(ctx, batch)
	defer br.Close()

	docs := make([]domain.Document, 0, len(refs))
	for range refs {
		doc, err := scanDocument(br.QueryRow())
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue // absent refs are the caller's concern
			}
			return nil, apperrors.NewAppError(500, "failed to fetch document", err)
		}
		docs = append(docs, *doc)
	}
	if err := br.Close(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to close document batch", err)
	}

	if err := r.loadAllocations(ctx, docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// ListDocumentsByParty implements portsrepo.DocumentReader. Draft documents
// never enter the statement feed.
func (r *PgxDocumentRepository) ListDocumentsByParty(ctx context.Context, party, company string) ([]domain.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM documents
		WHERE party = $1 AND company = $2 AND doc_status <> $3
		ORDER BY posting_date ASC, voucher_no ASC;
	`, documentColumns)

	rows, err := r.Pool.Query(ctx, query, party, company, domain.StatusDraft)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list documents", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan document", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate documents", err)
	}

	if err := r.loadAllocations(ctx, docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// ListReconciliationCandidates implements portsrepo.DocumentReader.
func (r *PgxDocumentRepository) ListReconciliationCandidates(ctx context.Context, party, company string, limit int, nextToken *string) ([]domain.Document, *string, error) {
	if limit <= 0 {
		limit = 50
	}

	args := []any{party, company, domain.StatusSubmitted}
	query := fmt.Sprintf(`
		SELECT %s FROM documents
		WHERE party = $1 AND company = $2 AND doc_status = $3
		  AND reconciliation_id IS NULL AND outstanding_amount <> 0
	`, documentColumns)

	if nextToken != nil && *nextToken != "" {
		afterDate, afterVoucher, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (posting_date, voucher_no) > ($4, $5)`
		args = append(args, afterDate, afterVoucher)
	}

	query += fmt.Sprintf(` ORDER BY posting_date ASC, voucher_no ASC LIMIT %d;`, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list candidates", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan candidate", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to iterate candidates", err)
	}

	var token *string
	if len(docs) > limit {
		docs = docs[:limit]
		last := docs[len(docs)-1]
		t := pagination.EncodeToken(last.PostingDate, last.VoucherNo)
		token = &t
	}

	if err := r.loadAllocations(ctx, docs); err != nil {
		return nil, nil, err
	}
	return docs, token, nil
}

// UpsertDocuments implements portsrepo.DocumentWriter. Re-ingesting a voucher
// refreshes its amounts but never clobbers an existing reconciliation tag.
func (r *PgxDocumentRepository) UpsertDocuments(ctx context.Context, docs []domain.Document) error {
	if len(docs) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	upsertQuery := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULL, $9, $10, $11, $12, $13)
		ON CONFLICT (voucher_no, kind) DO UPDATE SET
			party = EXCLUDED.party,
			company = EXCLUDED.company,
			posting_date = EXCLUDED.posting_date,
			grand_total = EXCLUDED.grand_total,
			outstanding_amount = EXCLUDED.outstanding_amount,
			doc_status = EXCLUDED.doc_status,
			description = EXCLUDED.description,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	batch := &pgx.Batch{}
	for i := range docs {
		doc := &docs[i]
		batch.Queue(upsertQuery,
			doc.VoucherNo,
			doc.Kind,
			doc.Party,
			doc.Company,
			doc.PostingDate,
			doc.GrandTotal,
			doc.OutstandingAmount,
			doc.Status,
			doc.Description,
			doc.CreatedAt,
			doc.CreatedBy,
			doc.LastUpdatedAt,
			doc.LastUpdatedBy,
		)
		batch.Queue(`DELETE FROM allocations WHERE payment_voucher_no = $1 AND payment_kind = $2;`, doc.VoucherNo, doc.Kind)
		for _, alloc := range doc.Allocations {
			batch.Queue(
				`INSERT INTO allocations (payment_voucher_no, payment_kind, invoice_voucher_no, amount) VALUES ($1, $2, $3, $4);`,
				doc.VoucherNo, doc.Kind, alloc.InvoiceVoucherNo, alloc.Amount,
			)
		}
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to upsert documents", err)
	}

	return r.Commit(ctx, tx)
}

// loadAllocations attaches allocation records to payment documents in place.
func (r *PgxDocumentRepository) loadAllocations(ctx context.Context, docs []domain.Document) error {
	vouchers := make([]string, 0)
	index := make(map[string][]int)
	for i := range docs {
		if docs[i].Kind != domain.KindPayment {
			continue
		}
		if _, seen := index[docs[i].VoucherNo]; !seen {
			vouchers = append(vouchers, docs[i].VoucherNo)
		}
		index[docs[i].VoucherNo] = append(index[docs[i].VoucherNo], i)
	}
	if len(vouchers) == 0 {
		return nil
	}

	// The voucher number space is not unique across kinds; scope to payment
	// rows so a same-voucher document of another kind cannot contribute.
	rows, err := r.Pool.Query(ctx, `
		SELECT payment_voucher_no, invoice_voucher_no, amount
		FROM allocations
		WHERE payment_voucher_no = ANY($1) AND payment_kind = $2
		ORDER BY invoice_voucher_no ASC;
	`, vouchers, domain.KindPayment)
	if err != nil {
		return apperrors.NewAppError(500, "failed to load allocations", err)
	}
	defer rows.Close()

	for rows.Next() {
		var paymentVoucher, invoiceVoucher string
		var amount decimal.Decimal
		if err := rows.Scan(&paymentVoucher, &invoiceVoucher, &amount); err != nil {
			return apperrors.NewAppError(500, "failed to scan allocation", err)
		}
		for _, i := range index[paymentVoucher] {
			docs[i].Allocations = append(docs[i].Allocations, domain.Allocation{
				InvoiceVoucherNo: invoiceVoucher,
				Amount:           amount,
			})
		}
	}
	return rows.Err()
}
