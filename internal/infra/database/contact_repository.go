package database

import (
	"context"
	"database/sql"

	"github.com/satiscrm/crm-api/internal/entity"
)

type ContactRepository struct {
	DB *sql.DB
}

func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{DB: db}
}

func (r *ContactRepository) Create(ctx context.Context, c *entity.Contact) error {
	query := `
		INSERT INTO contacts (
			id, customer_id, organization_id, full_name, title, email, phone,
			is_primary, is_decision_maker, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.DB.ExecContext(ctx, query,
		c.ID,
		c.CustomerID,
		c.OrganizationID,
		c.FullName,
		nullString(c.Title),
		nullString(c.Email),
		nullString(c.Phone),
		c.IsPrimary,
		c.IsDecisionMaker,
		c.CreatedAt,
	)
	return err
}

func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	return err
}

func (r *ContactRepository) FindSimilar(ctx context.Context, organizationID, email, phone string, limit int) ([]*entity.Contact, error) {
	query := `
		SELECT id, full_name, title, email, phone
		FROM contacts
		WHERE organization_id = $1
		  AND (($2 <> '' AND email = $2) OR ($3 <> '' AND phone = $3))
		LIMIT $4
	`

	rows, err := r.DB.QueryContext(ctx, query, organizationID, email, phone, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []*entity.Contact
	for rows.Next() {
		var c entity.Contact
		var title, mail, tel sql.NullString
		if err := rows.Scan(&c.ID, &c.FullName, &title, &mail, &tel); err != nil {
			return nil, err
		}
		c.Title = title.String
		c.Email = mail.String
		c.Phone = tel.String
		contacts = append(contacts, &c)
	}
	return contacts, rows.Err()
}
