package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/satiscrm/crm-api/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	query := `
		SELECT id, unique_code, organization_id, company_name, company_country,
		       company_address, poc_name, poc_title, poc_email, poc_phone,
		       status, lead_score, estimated_value, owner_id, stale,
		       created_at, updated_at
		FROM leads
		WHERE id = $1
	`

	var lead entity.Lead
	var uniqueCode, country, address, title, email, phone, owner sql.NullString

	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&lead.ID,
		&uniqueCode,
		&lead.OrganizationID,
		&lead.CompanyName,
		&country,
		&address,
		&lead.POCName,
		&title,
		&email,
		&phone,
		&lead.Status,
		&lead.LeadScore,
		&lead.EstimatedValue,
		&owner,
		&lead.Stale,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrLeadNotFound
		}
		return nil, err
	}

	lead.UniqueCode = uniqueCode.String
	lead.CompanyCountry = country.String
	lead.CompanyAddress = address.String
	lead.POCTitle = title.String
	lead.POCEmail = email.String
	lead.POCPhone = phone.String
	lead.OwnerID = owner.String
	return &lead, nil
}

// Upsert inserts a captured lead or refreshes the contact fields of an
// existing one keyed by POC email within the organization.
func (r *LeadRepository) Upsert(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (
			id, organization_id, company_name, company_country, company_address,
			poc_name, poc_title, poc_email, poc_phone,
			status, lead_score, estimated_value, owner_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		ON CONFLICT (organization_id, poc_email)
		DO UPDATE SET
			company_name = EXCLUDED.company_name,
			poc_name     = COALESCE(NULLIF(EXCLUDED.poc_name, ''), leads.poc_name),
			poc_phone    = COALESCE(NULLIF(EXCLUDED.poc_phone, ''), leads.poc_phone),
			updated_at   = NOW()
		RETURNING id, status, created_at, updated_at
	`

	return r.DB.QueryRowContext(
		ctx,
		query,
		lead.ID,
		lead.OrganizationID,
		lead.CompanyName,
		nullString(lead.CompanyCountry),
		nullString(lead.CompanyAddress),
		lead.POCName,
		nullString(lead.POCTitle),
		nullString(lead.POCEmail),
		nullString(lead.POCPhone),
		lead.Status,
		lead.LeadScore,
		lead.EstimatedValue,
		nullString(lead.OwnerID),
	).Scan(
		&lead.ID,
		&lead.Status,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE leads SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}

// MarkStale flags open-funnel leads without movement since the cutoff and
// returns how many were flagged.
func (r *LeadRepository) MarkStale(ctx context.Context, olderThan time.Time) (int, error) {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE leads
		SET stale = TRUE, updated_at = NOW()
		WHERE stale = FALSE
		  AND updated_at < $1
		  AND status IN ('new', 'contacted', 'qualified')
	`, olderThan)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	return int(affected), err
}

// FindSimilar is the coarse pre-filter for duplicate detection: loose
// company-name match or exact email/phone match, capped.
func (r *LeadRepository) FindSimilar(ctx context.Context, organizationID, companyName, pocEmail, pocPhone string, limit int) ([]*entity.Lead, error) {
	query := `
		SELECT id, company_name, poc_name, poc_email, poc_phone
		FROM leads
		WHERE organization_id = $1
		  AND (company_name ILIKE '%' || $2 || '%'
		       OR ($3 <> '' AND poc_email = $3)
		       OR ($4 <> '' AND poc_phone = $4))
		LIMIT $5
	`

	rows, err := r.DB.QueryContext(ctx, query, organizationID, companyName, pocEmail, pocPhone, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*entity.Lead
	for rows.Next() {
		var lead entity.Lead
		var name, email, phone sql.NullString
		if err := rows.Scan(&lead.ID, &lead.CompanyName, &name, &email, &phone); err != nil {
			return nil, err
		}
		lead.POCName = name.String
		lead.POCEmail = email.String
		lead.POCPhone = phone.String
		leads = append(leads, &lead)
	}
	return leads, rows.Err()
}
