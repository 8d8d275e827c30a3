package database

import (
	"context"
	"database/sql"

	"github.com/satiscrm/crm-api/internal/entity"
)

type StageRepository struct {
	DB *sql.DB
}

func NewStageRepository(db *sql.DB) *StageRepository {
	return &StageRepository{DB: db}
}

func (r *StageRepository) ListActive(ctx context.Context) ([]*entity.PipelineStage, error) {
	query := `
		SELECT id, name, order_index, win_probability, is_active
		FROM pipeline_stages
		WHERE is_active = TRUE
		ORDER BY order_index ASC
	`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stages []*entity.PipelineStage
	for rows.Next() {
		var s entity.PipelineStage
		if err := rows.Scan(&s.ID, &s.Name, &s.OrderIndex, &s.WinProbability, &s.IsActive); err != nil {
			return nil, err
		}
		stages = append(stages, &s)
	}
	return stages, rows.Err()
}
