package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/satiscrm/crm-api/internal/entity"
)

type CustomerRepository struct {
	DB *sql.DB
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

func (r *CustomerRepository) Create(ctx context.Context, c *entity.Customer) error {
	query := `
		INSERT INTO customers (
			id, lead_id, organization_id, company_name, company_country,
			company_address, poc_name, poc_title, poc_email, poc_phone,
			status, conversion_date, first_deal_value, sales_cycle_length_days,
			owner_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := r.DB.ExecContext(ctx, query,
		c.ID,
		nullString(c.LeadID),
		c.OrganizationID,
		c.CompanyName,
		nullString(c.CompanyCountry),
		nullString(c.CompanyAddress),
		c.POCName,
		nullString(c.POCTitle),
		nullString(c.POCEmail),
		nullString(c.POCPhone),
		c.Status,
		c.ConversionDate,
		c.FirstDealValue,
		c.SalesCycleLengthDays,
		nullString(c.OwnerID),
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return entity.ErrCustomerExists
		}
		return err
	}
	return nil
}

// Delete exists for saga compensation: a conversion whose later steps fail
// removes the customer it just inserted.
func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	return err
}

func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*entity.Customer, error) {
	query := `
		SELECT id, lead_id, organization_id, company_name, poc_name, poc_email,
		       status, conversion_date, first_deal_value, sales_cycle_length_days,
		       created_at, updated_at
		FROM customers
		WHERE id = $1
	`

	var c entity.Customer
	var leadID, email sql.NullString

	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&c.ID,
		&leadID,
		&c.OrganizationID,
		&c.CompanyName,
		&c.POCName,
		&email,
		&c.Status,
		&c.ConversionDate,
		&c.FirstDealValue,
		&c.SalesCycleLengthDays,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrCustomerNotFound
		}
		return nil, err
	}

	c.LeadID = leadID.String
	c.POCEmail = email.String
	return &c, nil
}

// FindByCompanyName is the advisory duplicate-company check run before a
// conversion inserts anything.
func (r *CustomerRepository) FindByCompanyName(ctx context.Context, organizationID, companyName string) (*entity.Customer, error) {
	query := `
		SELECT id, organization_id, company_name, status
		FROM customers
		WHERE organization_id = $1 AND company_name = $2
		LIMIT 1
	`

	var c entity.Customer
	err := r.DB.QueryRowContext(ctx, query, organizationID, companyName).Scan(
		&c.ID,
		&c.OrganizationID,
		&c.CompanyName,
		&c.Status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrCustomerNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) FindSimilar(ctx context.Context, organizationID, companyName, pocEmail, pocPhone string, limit int) ([]*entity.Customer, error) {
	query := `
		SELECT id, company_name, poc_name, poc_email, poc_phone
		FROM customers
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

	var customers []*entity.Customer
	for rows.Next() {
		var c entity.Customer
		var name, email, phone sql.NullString
		if err := rows.Scan(&c.ID, &c.CompanyName, &name, &email, &phone); err != nil {
			return nil, err
		}
		c.POCName = name.String
		c.POCEmail = email.String
		c.POCPhone = phone.String
		customers = append(customers, &c)
	}
	return customers, rows.Err()
}
