package service

import (
	"context"

	"github.com/ktozkim/watchdog/internal/domain"
	"github.com/ktozkim/watchdog/internal/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// OfficialStore defines the official data access interface.
type OfficialStore interface {
	List(ctx context.Context, f repository.OfficialFilter) ([]domain.Official, int, error)
	FindByID(ctx context.Context, id int64) (*domain.Official, error)
}

// OfficialService exposes the public officials directory.
type OfficialService struct {
	officials OfficialStore
}

// NewOfficialService creates a new OfficialService.
func NewOfficialService(officials OfficialStore) *OfficialService {
	return &OfficialService{officials: officials}
}

// List returns officials matching the filter and the total match count.
// Pagination bounds are clamped before the query runs.
func (s *OfficialService) List(ctx context.Context, f repository.OfficialFilter) ([]domain.Official, int, error) {
	f.Limit, f.Offset = ClampPage(f.Limit, f.Offset)
	return s.officials.List(ctx, f)
}

// Get retrieves a single official.
func (s *OfficialService) Get(ctx context.Context, id int64) (*domain.Official, error) {
	return s.officials.FindByID(ctx, id)
}

// ClampPage bounds a limit/offset pair to sane values.
func ClampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
