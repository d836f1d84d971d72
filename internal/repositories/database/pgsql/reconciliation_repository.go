package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbooks/account_recon_app/internal/apperrors"
	"github.com/finbooks/account_recon_app/internal/core/domain"
	portsrepo "github.com/finbooks/account_recon_app/internal/core/ports/repositories"
	"github.com/finbooks/account_recon_app/internal/utils/pagination"
)

type PgxReconciliationRepository struct {
	BaseRepository
}

// newPgxReconciliationRepository creates a new repository for reconciliation groups.
func newPgxReconciliationRepository(pool *pgxpool.Pool) portsrepo.ReconciliationRepositoryFacade {
	return &PgxReconciliationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReconciliationRepositoryFacade = (*PgxReconciliationRepository)(nil)

// CreateGroup implements portsrepo.ReconciliationWriter. Member documents are
// locked and re-validated inside the transaction; if any was claimed since
// the caller's read, the whole operation fails and nothing persists.
func (r *PgxReconciliationRepository) CreateGroup(ctx context.Context, group domain.ReconciliationGroup) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	_, err = tx.Exec(ctx, `
		INSERT INTO reconciliations (reconciliation_id, party, company, posting_date, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`,
		group.ReconciliationID,
		group.Party,
		group.Company,
		group.PostingDate,
		group.CreatedAt,
		group.CreatedBy,
		group.LastUpdatedAt,
		group.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert reconciliation group", err)
	}

	if err := attachMembersInTx(ctx, tx, group.ReconciliationID, group.Party, group.Company, group.MemberRefs, 0); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// AttachDocuments implements portsrepo.ReconciliationWriter.
func (r *PgxReconciliationRepository) AttachDocuments(ctx context.Context, reconciliationID string, refs []domain.DocumentRef) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var party, company string
	var nextPosition int
	err = tx.QueryRow(ctx, `
		SELECT g.party, g.company, COALESCE(MAX(m.position) + 1, 0)
		FROM reconciliations g
		LEFT JOIN reconciliation_members m ON m.reconciliation_id = g.reconciliation_id
		WHERE g.reconciliation_id = $1
		GROUP BY g.party, g.company;
	`, reconciliationID).Scan(&party, &company, &nextPosition)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: reconciliation group %s", apperrors.ErrNotFound, reconciliationID)
		}
		return apperrors.NewAppError(500, "failed to load reconciliation group", err)
	}

	if err := attachMembersInTx(ctx, tx, reconciliationID, party, company, refs, nextPosition); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// attachMembersInTx locks each target document, re-validates it is still
// unattached, then tags it and records its membership position.
func attachMembersInTx(ctx context.Context, tx pgx.Tx, reconciliationID, party, company string, refs []domain.DocumentRef, startPosition int) error {
	for i, ref := range refs {
		var existing *string
		err := tx.QueryRow(ctx, `
			SELECT reconciliation_id FROM documents
			WHERE party = $1 AND company = $2 AND voucher_no = $3 AND kind = $4
			FOR UPDATE;
		`, party, company, ref.VoucherNo, ref.Kind).Scan(&existing)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: document %s (%s)", apperrors.ErrNotFound, ref.VoucherNo, ref.Kind)
			}
			return apperrors.NewAppError(500, "failed to lock document "+ref.VoucherNo, err)
		}
		if existing != nil {
			return fmt.Errorf("%w: document %s", apperrors.ErrConcurrentModification, ref.VoucherNo)
		}

		_, err = tx.Exec(ctx, `
			UPDATE documents SET reconciliation_id = $1
			WHERE party = $2 AND company = $3 AND voucher_no = $4 AND kind = $5;
		`, reconciliationID, party, company, ref.VoucherNo, ref.Kind)
		if err != nil {
			return apperrors.NewAppError(500, "failed to tag document "+ref.VoucherNo, err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO reconciliation_members (reconciliation_id, voucher_no, kind, position)
			VALUES ($1, $2, $3, $4);
		`, reconciliationID, ref.VoucherNo, ref.Kind, startPosition+i)
		if err != nil {
			return apperrors.NewAppError(500, "failed to record group member "+ref.VoucherNo, err)
		}
	}
	return nil
}

// DetachAndDelete implements portsrepo.ReconciliationWriter. Documents not in
// the detach list keep their tag (deliberately left attached conflicts).
func (r *PgxReconciliationRepository) DetachAndDelete(ctx context.Context, reconciliationID string, detach []domain.DocumentRef) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	for _, ref := range detach {
		tag, err := tx.Exec(ctx, `
			UPDATE documents SET reconciliation_id = NULL
			WHERE voucher_no = $1 AND kind = $2 AND reconciliation_id = $3;
		`, ref.VoucherNo, ref.Kind, reconciliationID)
		if err != nil {
			return apperrors.NewAppError(500, "failed to detach document "+ref.VoucherNo, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: document %s", apperrors.ErrConcurrentModification, ref.VoucherNo)
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM reconciliation_members WHERE reconciliation_id = $1;`, reconciliationID); err != nil {
		return apperrors.NewAppError(500, "failed to delete group members", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM reconciliations WHERE reconciliation_id = $1;`, reconciliationID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete reconciliation group", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: reconciliation group %s", apperrors.ErrNotFound, reconciliationID)
	}

	return r.Commit(ctx, tx)
}

// FindGroupByID implements portsrepo.ReconciliationReader.
func (r *PgxReconciliationRepository) FindGroupByID(ctx context.Context, reconciliationID string) (*domain.ReconciliationGroup, error) {
	var group domain.ReconciliationGroup
	err := r.Pool.QueryRow(ctx, `
		SELECT reconciliation_id, party, company, posting_date, created_at, created_by, last_updated_at, last_updated_by
		FROM reconciliations WHERE reconciliation_id = $1;
	`, reconciliationID).Scan(
		&group.ReconciliationID,
		&group.Party,
		&group.Company,
		&group.PostingDate,
		&group.CreatedAt,
		&group.CreatedBy,
		&group.LastUpdatedAt,
		&group.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: reconciliation group %s", apperrors.ErrNotFound, reconciliationID)
		}
		return nil, apperrors.NewAppError(500, "failed to fetch reconciliation group", err)
	}

	refs, err := r.loadMemberRefs(ctx, []string{reconciliationID})
	if err != nil {
		return nil, err
	}
	group.MemberRefs = refs[reconciliationID]
	return &group, nil
}

// ListGroupsByParty implements portsrepo.ReconciliationReader.
func (r *PgxReconciliationRepository) ListGroupsByParty(ctx context.Context, party, company string, limit int, nextToken *string) ([]domain.ReconciliationGroup, *string, error) {
	args := []any{party, company}
	query := `
		SELECT reconciliation_id, party, company, posting_date, created_at, created_by, last_updated_at, last_updated_by
		FROM reconciliations
		WHERE party = $1 AND company = $2
	`
	if nextToken != nil && *nextToken != "" {
		afterDate, afterID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (posting_date, reconciliation_id) > ($3, $4)`
		args = append(args, afterDate, afterID)
	}
	query += ` ORDER BY posting_date ASC, reconciliation_id ASC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit+1)
	}
	query += `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list reconciliation groups", err)
	}
	defer rows.Close()

	var groups []domain.ReconciliationGroup
	for rows.Next() {
		var g domain.ReconciliationGroup
		if err := rows.Scan(
			&g.ReconciliationID,
			&g.Party,
			&g.Company,
			&g.PostingDate,
			&g.CreatedAt,
			&g.CreatedBy,
			&g.LastUpdatedAt,
			&g.LastUpdatedBy,
		); err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan reconciliation group", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to iterate reconciliation groups", err)
	}

	var token *string
	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
		last := groups[len(groups)-1]
		t := pagination.EncodeToken(last.PostingDate, last.ReconciliationID)
		token = &t
	}

	if len(groups) > 0 {
		ids := make([]string, len(groups))
		for i := range groups {
			ids[i] = groups[i].ReconciliationID
		}
		refs, err := r.loadMemberRefs(ctx, ids)
		if err != nil {
			return nil, nil, err
		}
		for i := range groups {
			groups[i].MemberRefs = refs[groups[i].ReconciliationID]
		}
	}

	return groups, token, nil
}

// loadMemberRefs fetches membership in addition order for the given groups.
func (r *PgxReconciliationRepository) loadMemberRefs(ctx context.Context, reconciliationIDs []string) (map[string][]domain.DocumentRef, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT reconciliation_id, voucher_no, kind
		FROM reconciliation_members
		WHERE reconciliation_id = ANY($1)
		ORDER BY reconciliation_id ASC, position ASC;
	`, reconciliationIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to load group members", err)
	}
	defer rows.Close()

	out := make(map[string][]domain.DocumentRef, len(reconciliationIDs))
	for rows.Next() {
		var id string
		var ref domain.DocumentRef
		if err := rows.Scan(&id, &ref.VoucherNo, &ref.Kind); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan group member", err)
		}
		out[id] = append(out[id], ref)
	}
	return out, rows.Err()
}
