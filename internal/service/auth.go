package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"

	"github.com/ktozkim/watchdog/internal/domain"
)

// bcryptCost matches the work factor the site has always hashed with.
const bcryptCost = 10

// dummyPasswordHash is compared against on login paths that cannot match
// (unknown email, OAuth-only account) so all failures pay the bcrypt cost.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserStore defines the user data access interface consumed by AuthService.
type UserStore interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*domain.User, error)
	Create(ctx context.Context, user domain.User) (*domain.User, error)
	LinkGoogleAccount(ctx context.Context, id int64, googleID string) (*domain.User, error)
}

// AuthConfig holds the credentials and URLs the auth flows need.
type AuthConfig struct {
	JWTSecret          string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string

	// GoogleTokenURL and GoogleUserInfoURL, when set, replace Google's real
	// endpoints. Tests point them at a local stub server.
	GoogleTokenURL    string
	GoogleUserInfoURL string
}

// AuthService implements local (email+password) and Google OAuth
// authentication over a UserStore.
type AuthService struct {
	users       UserStore
	tokens      *TokenService
	google      *oauth2.Config
	userInfoURL string
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, cfg AuthConfig) *AuthService {
	endpoint := googleoauth.Endpoint
	if cfg.GoogleTokenURL != "" {
		endpoint.TokenURL = cfg.GoogleTokenURL
	}
	userInfoURL := "https://www.googleapis.com/oauth2/v2/userinfo"
	if cfg.GoogleUserInfoURL != "" {
		userInfoURL = cfg.GoogleUserInfoURL
	}

	return &AuthService{
		users:  users,
		tokens: NewTokenService(cfg.JWTSecret),
		google: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			Endpoint:     endpoint,
			Scopes:       []string{"openid", "profile", "email"},
			RedirectURL:  cfg.GoogleCallbackURL,
		},
		userInfoURL: userInfoURL,
	}
}

// RegisterInput carries validated registration fields. Email is normalized
// and names trimmed by the caller before it reaches the service.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register creates a local-provider account and returns it with a fresh
// bearer token. A taken email yields domain.ErrDuplicateUser, whether found
// by lookup or by losing an insert race to the unique constraint.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	email := NormalizeEmail(in.Email)

	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return nil, "", domain.ErrDuplicateUser
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, "", fmt.Errorf("check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	hashStr := string(hash)
	user, err := s.users.Create(ctx, domain.User{
		Email:        email,
		PasswordHash: &hashStr,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		AuthProvider: domain.AuthProviderLocal,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUser) {
			return nil, "", domain.ErrDuplicateUser
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies an email+password pair and returns the user with a fresh
// bearer token. Unknown email, password-less account and wrong password all
// collapse into domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Equalize timing with the found-user path.
			_ = bcrypt.CompareHashAndPassword([]byte(dummyPasswordHash), []byte(password))
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	if user.PasswordHash == nil {
		_ = bcrypt.CompareHashAndPassword([]byte(dummyPasswordHash), []byte(password))
		return nil, "", domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GoogleAuthURL returns the Google OAuth consent URL for the given state.
func (s *AuthService) GoogleAuthURL(state string) string {
	return s.google.AuthCodeURL(state)
}

// GoogleCallback exchanges the authorization code, fetches the Google
// profile, reconciles it against the user store and returns the resolved
// user with a fresh bearer token.
//
// Reconciliation order: an existing google_id match wins outright (the stored
// row is not overwritten from the profile); otherwise an existing account
// with the same email is linked; otherwise a new google-provider account is
// created.
func (s *AuthService) GoogleCallback(ctx context.Context, code string) (*domain.User, string, error) {
	oauthToken, err := s.google.Exchange(ctx, code)
	if err != nil {
		return nil, "", fmt.Errorf("google token exchange: %w", err)
	}

	profile, err := s.fetchGoogleProfile(ctx, oauthToken.AccessToken)
	if err != nil {
		return nil, "", fmt.Errorf("fetch google profile: %w", err)
	}
	if profile.Email == "" {
		return nil, "", fmt.Errorf("google profile has no email")
	}

	user, err := s.reconcileGoogleProfile(ctx, profile)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) reconcileGoogleProfile(ctx context.Context, profile *googleProfile) (*domain.User, error) {
	user, err := s.users.FindByGoogleID(ctx, profile.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("find user by google id: %w", err)
	}

	email := NormalizeEmail(profile.Email)
	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		linked, err := s.users.LinkGoogleAccount(ctx, existing.ID, profile.ID)
		if err != nil {
			return nil, fmt.Errorf("link google account: %w", err)
		}
		return linked, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	googleID := profile.ID
	created, err := s.users.Create(ctx, domain.User{
		Email:        email,
		FirstName:    profile.GivenName,
		LastName:     profile.FamilyName,
		GoogleID:     &googleID,
		AuthProvider: domain.AuthProviderGoogle,
	})
	if err != nil {
		return nil, fmt.Errorf("create google user: %w", err)
	}
	return created, nil
}

// Identity is the authenticated caller attached to a request.
type Identity struct {
	UserID int64
	Email  string
}

// Authenticate verifies a bearer token and confirms the subject still exists.
// A cryptographically valid token for a deleted user is rejected with
// domain.ErrUnauthorized; broken or expired tokens with domain.ErrInvalidToken.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (Identity, error) {
	userID, email, err := s.tokens.Verify(tokenString)
	if err != nil {
		return Identity{}, err
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Identity{}, domain.ErrUnauthorized
		}
		return Identity{}, fmt.Errorf("resolve token subject: %w", err)
	}
	return Identity{UserID: userID, Email: email}, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// NormalizeEmail lowercases and trims an email address so lookups and the
// unique index agree on a single canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type googleProfile struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
}

func (s *AuthService) fetchGoogleProfile(ctx context.Context, accessToken string) (*googleProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google user info returned status %d", resp.StatusCode)
	}

	var profile googleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	return &profile, nil
}
