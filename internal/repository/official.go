package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/ktozkim/watchdog/internal/domain"
)

// OfficialFilter narrows an official listing query.
type OfficialFilter struct {
	City     string
	Position string
	Verified *bool
	Limit    int
	Offset   int
}

// OfficialRepository handles official data access operations.
type OfficialRepository struct {
	db *sqlx.DB
}

// NewOfficialRepository creates a new OfficialRepository.
func NewOfficialRepository(db *sqlx.DB) *OfficialRepository {
	return &OfficialRepository{db: db}
}

// List returns officials matching the filter plus the total match count
// ignoring pagination.
func (r *OfficialRepository) List(ctx context.Context, f OfficialFilter) ([]domain.Official, int, error) {
	var conds []string
	var args []any

	if f.City != "" {
		args = append(args, "%"+f.City+"%")
		conds = append(conds, fmt.Sprintf("city ILIKE $%d", len(args)))
	}
	if f.Position != "" {
		args = append(args, "%"+f.Position+"%")
		conds = append(conds, fmt.Sprintf("\"position\" ILIKE $%d", len(args)))
	}
	if f.Verified != nil {
		args = append(args, *f.Verified)
		conds = append(conds, fmt.Sprintf("verified = $%d", len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT count(*) FROM officials`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count officials: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(
		`SELECT id, first_name, last_name, "position", city, bio, verified, created_at, updated_at
		 FROM officials%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args))

	officials := []domain.Official{}
	if err := r.db.SelectContext(ctx, &officials, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list officials: %w", err)
	}
	return officials, total, nil
}

// FindByID retrieves an official by ID.
func (r *OfficialRepository) FindByID(ctx context.Context, id int64) (*domain.Official, error) {
	var official domain.Official
	err := r.db.GetContext(ctx, &official,
		`SELECT id, first_name, last_name, "position", city, bio, verified, created_at, updated_at
		 FROM officials WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find official by id %d: %w", id, err)
	}
	return &official, nil
}
