package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ktozkim/watchdog/internal/domain"
	"github.com/ktozkim/watchdog/internal/repository"
	"github.com/ktozkim/watchdog/internal/service"
)

// stubUserStore is a minimal in-memory UserStore for handler tests.
type stubUserStore struct {
	nextID int64
	users  map[int64]domain.User
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{users: make(map[int64]domain.User)}
}

func (s *stubUserStore) FindByID(_ context.Context, id int64) (*domain.User, error) {
	if u, ok := s.users[id]; ok {
		return &u, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubUserStore) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubUserStore) FindByGoogleID(_ context.Context, googleID string) (*domain.User, error) {
	for _, u := range s.users {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubUserStore) Create(ctx context.Context, user domain.User) (*domain.User, error) {
	if _, err := s.FindByEmail(ctx, user.Email); err == nil {
		return nil, domain.ErrDuplicateUser
	}
	s.nextID++
	user.ID = s.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = user
	return &user, nil
}

func (s *stubUserStore) LinkGoogleAccount(_ context.Context, id int64, googleID string) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.GoogleID = &googleID
	u.AuthProvider = domain.AuthProviderGoogle
	s.users[id] = u
	return &u, nil
}

// stubReportStore records submitted reports in memory.
type stubReportStore struct {
	nextID  int64
	reports []domain.Report
}

func (s *stubReportStore) Create(_ context.Context, report domain.Report) (*domain.Report, error) {
	s.nextID++
	report.ID = s.nextID
	report.Status = domain.ReportStatusPending
	report.CreatedAt = time.Now()
	report.UpdatedAt = report.CreatedAt
	s.reports = append(s.reports, report)
	return &report, nil
}

func (s *stubReportStore) List(_ context.Context, f repository.ReportFilter) ([]domain.Report, int, error) {
	matched := []domain.Report{}
	for _, r := range s.reports {
		if f.UserID != nil && r.UserID != *f.UserID {
			continue
		}
		if f.Status != "" && string(r.Status) != f.Status {
			continue
		}
		matched = append(matched, r)
	}
	return matched, len(matched), nil
}

func (s *stubReportStore) FindByID(_ context.Context, id int64) (*domain.Report, error) {
	for _, r := range s.reports {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, domain.ErrNotFound
}

// stubOfficialStore serves a fixed officials slice.
type stubOfficialStore struct {
	officials []domain.Official
}

func (s *stubOfficialStore) List(_ context.Context, f repository.OfficialFilter) ([]domain.Official, int, error) {
	matched := []domain.Official{}
	for _, o := range s.officials {
		if f.Verified != nil && o.Verified != *f.Verified {
			continue
		}
		matched = append(matched, o)
	}
	return matched, len(matched), nil
}

func (s *stubOfficialStore) FindByID(_ context.Context, id int64) (*domain.Official, error) {
	for _, o := range s.officials {
		if o.ID == id {
			return &o, nil
		}
	}
	return nil, domain.ErrNotFound
}

type testApp struct {
	echo      *echo.Echo
	users     *stubUserStore
	reports   *stubReportStore
	officials *stubOfficialStore
	auth      *service.AuthService
}

// newTestApp wires the handlers and middleware the way cmd/server does,
// backed by in-memory stores.
func newTestApp(t *testing.T) *testApp {
	return newTestAppWithAuth(t, service.AuthConfig{JWTSecret: "test-secret"})
}

// newTestAppWithAuth is newTestApp with a caller-supplied auth config, for
// tests that stub the Google OAuth endpoints.
func newTestAppWithAuth(t *testing.T, cfg service.AuthConfig) *testApp {
	t.Helper()

	users := newStubUserStore()
	reports := &stubReportStore{}
	officials := &stubOfficialStore{}

	authSvc := service.NewAuthService(users, cfg)
	reportSvc := service.NewReportService(reports)
	officialSvc := service.NewOfficialService(officials)

	authHandler := NewAuthHandler(authSvc, "http://frontend.test")
	reportHandler := NewReportHandler(reportSvc)
	officialHandler := NewOfficialHandler(officialSvc)

	e := echo.New()
	e.HTTPErrorHandler = HTTPErrorHandler
	e.Validator = NewAppValidator()

	api := e.Group("/api")
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/google", authHandler.GoogleRedirect)
	auth.GET("/google/callback", authHandler.GoogleCallback)
	auth.GET("/me", authHandler.Me, RequireAuth(authSvc))

	api.GET("/officials", officialHandler.List)
	api.GET("/officials/:id", officialHandler.Get)

	api.GET("/reports", reportHandler.List, OptionalAuth(authSvc))
	api.GET("/reports/:id", reportHandler.Get)
	api.POST("/reports", reportHandler.Create, RequireAuth(authSvc))

	return &testApp{echo: e, users: users, reports: reports, officials: officials, auth: authSvc}
}

func (a *testApp) request(method, target, body, token string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.echo.ServeHTTP(rec, req)
	return rec
}
