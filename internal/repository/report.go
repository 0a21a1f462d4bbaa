package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/ktozkim/watchdog/internal/domain"
)

const pgForeignKeyViolation = "23503"

const reportColumns = `id, user_id, official_id, allegation_type, title, description, evidence, status, created_at, updated_at`

// ReportFilter narrows a report listing query.
type ReportFilter struct {
	UserID         *int64
	OfficialID     *int64
	Status         string
	AllegationType string
	Limit          int
	Offset         int
}

// ReportRepository handles report data access operations.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create inserts a new report with status pending and returns it. A foreign
// key violation on official_id surfaces as domain.ErrInvalidInput.
func (r *ReportRepository) Create(ctx context.Context, report domain.Report) (*domain.Report, error) {
	var created domain.Report
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO reports (user_id, official_id, allegation_type, title, description, evidence)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+reportColumns,
		report.UserID, report.OfficialID, report.AllegationType, report.Title, report.Description, report.Evidence,
	).StructScan(&created)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return nil, fmt.Errorf("%w: unknown official", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("create report: %w", err)
	}
	return &created, nil
}

// List returns reports matching the filter plus the total match count
// ignoring pagination.
func (r *ReportRepository) List(ctx context.Context, f ReportFilter) ([]domain.Report, int, error) {
	var conds []string
	var args []any

	if f.UserID != nil {
		args = append(args, *f.UserID)
		conds = append(conds, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if f.OfficialID != nil {
		args = append(args, *f.OfficialID)
		conds = append(conds, fmt.Sprintf("official_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.AllegationType != "" {
		args = append(args, f.AllegationType)
		conds = append(conds, fmt.Sprintf("allegation_type = $%d", len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT count(*) FROM reports`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count reports: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(
		`SELECT `+reportColumns+` FROM reports%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args))

	reports := []domain.Report{}
	if err := r.db.SelectContext(ctx, &reports, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list reports: %w", err)
	}
	return reports, total, nil
}

// FindByID retrieves a report by ID.
func (r *ReportRepository) FindByID(ctx context.Context, id int64) (*domain.Report, error) {
	var report domain.Report
	err := r.db.GetContext(ctx, &report,
		`SELECT `+reportColumns+` FROM reports WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find report by id %d: %w", id, err)
	}
	return &report, nil
}
