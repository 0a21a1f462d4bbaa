package service

import (
	"context"
	"strings"

	"github.com/ktozkim/watchdog/internal/domain"
	"github.com/ktozkim/watchdog/internal/repository"
)

// ReportStore defines the report data access interface.
type ReportStore interface {
	Create(ctx context.Context, report domain.Report) (*domain.Report, error)
	List(ctx context.Context, f repository.ReportFilter) ([]domain.Report, int, error)
	FindByID(ctx context.Context, id int64) (*domain.Report, error)
}

// ReportInput carries the fields of a new allegation report.
type ReportInput struct {
	OfficialID     *int64
	AllegationType string
	Title          string
	Description    string
	Evidence       string
}

// ReportService handles allegation report submission and browsing.
type ReportService struct {
	reports ReportStore
}

// NewReportService creates a new ReportService.
func NewReportService(reports ReportStore) *ReportService {
	return &ReportService{reports: reports}
}

// Submit files a new report on behalf of the authenticated user. New reports
// always start in pending status.
func (s *ReportService) Submit(ctx context.Context, userID int64, in ReportInput) (*domain.Report, error) {
	report := domain.Report{
		UserID:         userID,
		OfficialID:     in.OfficialID,
		AllegationType: strings.TrimSpace(in.AllegationType),
		Title:          strings.TrimSpace(in.Title),
		Description:    strings.TrimSpace(in.Description),
	}
	if evidence := strings.TrimSpace(in.Evidence); evidence != "" {
		report.Evidence = &evidence
	}
	return s.reports.Create(ctx, report)
}

// List returns reports matching the filter and the total match count.
func (s *ReportService) List(ctx context.Context, f repository.ReportFilter) ([]domain.Report, int, error) {
	f.Limit, f.Offset = ClampPage(f.Limit, f.Offset)
	return s.reports.List(ctx, f)
}

// Get retrieves a single report.
func (s *ReportService) Get(ctx context.Context, id int64) (*domain.Report, error) {
	return s.reports.FindByID(ctx, id)
}
