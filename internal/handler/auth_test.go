package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEnvelope(t *testing.T, body []byte) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(body, &env))
	return env
}

func dataField(t *testing.T, env Envelope, key string) any {
	t.Helper()
	data, ok := env.Data.(map[string]any)
	require.True(t, ok, "data is not an object")
	return data[key]
}

func TestAuth_RegisterLoginMe(t *testing.T) {
	app := newTestApp(t)

	// Register.
	rec := app.request(http.MethodPost, "/api/auth/register",
		`{"email":"t@x.com","password":"password123","firstName":"Test","lastName":"User"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	env := decodeEnvelope(t, rec.Body.Bytes())
	assert.True(t, env.Success)
	assert.Equal(t, "User registered successfully", env.Message)
	assert.NotEmpty(t, dataField(t, env, "token"))

	// Duplicate registration.
	rec = app.request(http.MethodPost, "/api/auth/register",
		`{"email":"t@x.com","password":"password123","firstName":"Test","lastName":"User"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env = decodeEnvelope(t, rec.Body.Bytes())
	assert.False(t, env.Success)
	assert.Equal(t, "User already exists", env.Message)

	// Login with the right password.
	rec = app.request(http.MethodPost, "/api/auth/login",
		`{"email":"t@x.com","password":"password123"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	env = decodeEnvelope(t, rec.Body.Bytes())
	token, _ := dataField(t, env, "token").(string)
	require.NotEmpty(t, token)

	// Login with the wrong password.
	rec = app.request(http.MethodPost, "/api/auth/login",
		`{"email":"t@x.com","password":"wrong"}`, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	env = decodeEnvelope(t, rec.Body.Bytes())
	assert.Equal(t, "Invalid credentials", env.Message)

	// Me with the login token.
	rec = app.request(http.MethodGet, "/api/auth/me", "", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	env = decodeEnvelope(t, rec.Body.Bytes())
	user, ok := dataField(t, env, "user").(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "t@x.com", user["email"])

	// Me without a token.
	rec = app.request(http.MethodGet, "/api/auth/me", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	env = decodeEnvelope(t, rec.Body.Bytes())
	assert.Equal(t, "Access token required", env.Message)
}

func TestAuth_Register_Validation(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed email", `{"email":"not-an-email","password":"password123","firstName":"A","lastName":"B"}`},
		{"short password", `{"email":"t@x.com","password":"short","firstName":"A","lastName":"B"}`},
		{"blank first name", `{"email":"t@x.com","password":"password123","firstName":"   ","lastName":"B"}`},
		{"blank last name", `{"email":"t@x.com","password":"password123","firstName":"A","lastName":""}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.request(http.MethodPost, "/api/auth/register", tt.body, "")
			require.Equal(t, http.StatusBadRequest, rec.Code)

			env := decodeEnvelope(t, rec.Body.Bytes())
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Errors)
		})
	}
	assert.Empty(t, app.users.users, "no user row may be created by a rejected registration")
}

func TestAuth_Me_InvalidToken(t *testing.T) {
	app := newTestApp(t)

	rec := app.request(http.MethodGet, "/api/auth/me", "", "not-a-real-token")
	require.Equal(t, http.StatusForbidden, rec.Code)

	env := decodeEnvelope(t, rec.Body.Bytes())
	assert.Equal(t, "Invalid or expired token", env.Message)
}

func TestAuth_GoogleRedirect(t *testing.T) {
	app := newTestApp(t)

	rec := app.request(http.MethodGet, "/api/auth/google", "", "")
	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)

	location := rec.Header().Get("Location")
	assert.Contains(t, location, "accounts.google.com")
	assert.Contains(t, location, "state=")

	cookies := rec.Result().Cookies()
	var found bool
	for _, cookie := range cookies {
		if cookie.Name == "oauth_state" {
			found = true
			assert.True(t, cookie.HttpOnly)
		}
	}
	assert.True(t, found, "oauth_state cookie must be set")
}
