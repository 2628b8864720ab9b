package repository

import (
	"context"
	"database/sql"

	"github.com/mkroener/hall-booking/internal/model"
)

// HallRepo provides read access to the 'halls' table.  Halls are maintained
// out of band; the API only lists them for the booking form.
type HallRepo struct{ DB *sql.DB }

func NewHallRepo(db *sql.DB) *HallRepo { return &HallRepo{DB: db} }

// ListAll returns all halls ordered by id.
func (r *HallRepo) ListAll(ctx context.Context) ([]model.Hall, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT h_id, h_name, h_capacity FROM halls ORDER BY h_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	halls := make([]model.Hall, 0)
	for rows.Next() {
		var h model.Hall
		if err := rows.Scan(&h.ID, &h.Name, &h.Capacity); err != nil {
			return nil, err
		}
		halls = append(halls, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return halls, nil
}

// GetByID fetches a single hall.
func (r *HallRepo) GetByID(ctx context.Context, id uint64) (model.Hall, error) {
	var h model.Hall
	err := r.DB.QueryRowContext(ctx,
		`SELECT h_id, h_name, h_capacity FROM halls WHERE h_id = ? LIMIT 1`,
		id).Scan(&h.ID, &h.Name, &h.Capacity)
	if err == sql.ErrNoRows {
		return model.Hall{}, ErrHallNotFound
	}
	if err != nil {
		return model.Hall{}, err
	}
	return h, nil
}
