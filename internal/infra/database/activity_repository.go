package database

import (
	"context"
	"database/sql"

	"github.com/satiscrm/crm-api/internal/entity"
)

type ActivityRepository struct {
	DB *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

func (r *ActivityRepository) Create(ctx context.Context, a *entity.Activity) error {
	query := `
		INSERT INTO activities (
			id, organization_id, subject, activity_type, status, priority,
			lead_id, customer_id, deal_id, contact_id, owner_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.DB.ExecContext(ctx, query,
		a.ID,
		a.OrganizationID,
		a.Subject,
		a.ActivityType,
		a.Status,
		nullString(a.Priority),
		nullString(a.LeadID),
		nullString(a.CustomerID),
		nullString(a.DealID),
		nullString(a.ContactID),
		nullString(a.OwnerID),
		a.CreatedAt,
	)
	return err
}

// ListByOrganization returns the trailing thirty days of activities, scoped
// to one owner when ownerID is set.
func (r *ActivityRepository) ListByOrganization(ctx context.Context, organizationID string, ownerID string) ([]*entity.Activity, error) {
	query := `
		SELECT id, organization_id, subject, activity_type, status, owner_id, created_at
		FROM activities
		WHERE organization_id = $1
		  AND ($2 = '' OR owner_id = $2)
		  AND created_at > NOW() - INTERVAL '30 days'
		ORDER BY created_at DESC
	`

	rows, err := r.DB.QueryContext(ctx, query, organizationID, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []*entity.Activity
	for rows.Next() {
		var a entity.Activity
		var owner sql.NullString
		if err := rows.Scan(
			&a.ID,
			&a.OrganizationID,
			&a.Subject,
			&a.ActivityType,
			&a.Status,
			&owner,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		a.OwnerID = owner.String
		activities = append(activities, &a)
	}
	return activities, rows.Err()
}
