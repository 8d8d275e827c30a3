package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/satiscrm/crm-api/internal/entity"
)

type DealRepository struct {
	DB *sql.DB
}

func NewDealRepository(db *sql.DB) *DealRepository {
	return &DealRepository{DB: db}
}

func (r *DealRepository) FindByID(ctx context.Context, id string) (*entity.Deal, error) {
	query := `
		SELECT id, organization_id, name, value, currency, close_probability,
		       status, stage_id, lead_id, customer_id, owner_id,
		       created_at, updated_at
		FROM deals
		WHERE id = $1
	`

	var deal entity.Deal
	var stageID, leadID, customerID, ownerID sql.NullString

	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&deal.ID,
		&deal.OrganizationID,
		&deal.Name,
		&deal.Value,
		&deal.Currency,
		&deal.CloseProbability,
		&deal.Status,
		&stageID,
		&leadID,
		&customerID,
		&ownerID,
		&deal.CreatedAt,
		&deal.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrDealNotFound
		}
		return nil, err
	}

	deal.StageID = stageID.String
	deal.LeadID = leadID.String
	deal.CustomerID = customerID.String
	deal.OwnerID = ownerID.String
	return &deal, nil
}

func (r *DealRepository) UpdateStage(ctx context.Context, id, stageID string) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE deals SET stage_id = $2, updated_at = NOW() WHERE id = $1`, id, stageID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrDealNotFound
	}
	return nil
}

func (r *DealRepository) ListByOrganization(ctx context.Context, organizationID string) ([]*entity.Deal, error) {
	query := `
		SELECT id, organization_id, name, value, currency, close_probability,
		       status, stage_id, created_at, updated_at
		FROM deals
		WHERE organization_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.DB.QueryContext(ctx, query, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deals []*entity.Deal
	for rows.Next() {
		var deal entity.Deal
		var stageID sql.NullString
		if err := rows.Scan(
			&deal.ID,
			&deal.OrganizationID,
			&deal.Name,
			&deal.Value,
			&deal.Currency,
			&deal.CloseProbability,
			&deal.Status,
			&stageID,
			&deal.CreatedAt,
			&deal.UpdatedAt,
		); err != nil {
			return nil, err
		}
		deal.StageID = stageID.String
		deals = append(deals, &deal)
	}
	return deals, rows.Err()
}
