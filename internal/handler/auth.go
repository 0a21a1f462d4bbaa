package handler

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ktozkim/watchdog/internal/domain"
	"github.com/ktozkim/watchdog/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	auth        *service.AuthService
	frontendURL string
}

// NewAuthHandler creates a new AuthHandler. Redirects at the end of the OAuth
// flow land on frontendURL.
func NewAuthHandler(auth *service.AuthService, frontendURL string) *AuthHandler {
	return &AuthHandler{auth: auth, frontendURL: frontendURL}
}

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

// Register creates a local account from an email+password signup.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}

	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, token, err := h.auth.Register(c.Request().Context(), service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return err
	}

	return JSONMessage(c, http.StatusCreated, "User registered successfully", map[string]any{
		"user":  user.Summary(),
		"token": token,
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates an email+password pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, token, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return JSONMessage(c, http.StatusOK, "Login successful", map[string]any{
		"user":  user.Summary(),
		"token": token,
	})
}

// GoogleRedirect sends the user to Google's OAuth consent page.
func (h *AuthHandler) GoogleRedirect(c echo.Context) error {
	state := generateState()
	c.SetCookie(&http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600,
	})
	return c.Redirect(http.StatusTemporaryRedirect, h.auth.GoogleAuthURL(state))
}

// GoogleCallback handles the OAuth redirect back from Google. Success lands
// the browser on the frontend callback page with the token and a
// URL-encoded user summary; any failure redirects to the login page with an
// error flag instead of surfacing a hard error.
func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	if err := validateOAuthState(c); err != nil {
		slog.Warn("google oauth state rejected", "error", err)
		return h.redirectLoginError(c)
	}

	code := c.QueryParam("code")
	if code == "" {
		return h.redirectLoginError(c)
	}

	user, token, err := h.auth.GoogleCallback(c.Request().Context(), code)
	if err != nil {
		slog.Error("google oauth callback failed", "error", err)
		return h.redirectLoginError(c)
	}

	summary, err := json.Marshal(user.Summary())
	if err != nil {
		slog.Error("marshal user summary", "error", err)
		return h.redirectLoginError(c)
	}

	target := fmt.Sprintf("%s/auth/callback?token=%s&user=%s",
		h.frontendURL, url.QueryEscape(token), url.QueryEscape(string(summary)))
	return c.Redirect(http.StatusTemporaryRedirect, target)
}

func (h *AuthHandler) redirectLoginError(c echo.Context) error {
	return c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"/login?error=oauth_failed")
}

// Me returns the currently authenticated user.
func (h *AuthHandler) Me(c echo.Context) error {
	identity, ok := CurrentIdentity(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	user, err := h.auth.GetUser(c.Request().Context(), identity.UserID)
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, map[string]any{"user": user.Summary()})
}

func generateState() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "fallback-state"
	}
	return base64.URLEncoding.EncodeToString(b)
}

func validateOAuthState(c echo.Context) error {
	cookie, err := c.Cookie("oauth_state")
	if err != nil {
		return fmt.Errorf("missing oauth_state cookie")
	}

	queryState := c.QueryParam("state")
	if queryState == "" || queryState != cookie.Value {
		return fmt.Errorf("state mismatch")
	}
	return nil
}
