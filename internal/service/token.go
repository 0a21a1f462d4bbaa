package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ktozkim/watchdog/internal/domain"
)

const tokenTTL = 24 * time.Hour

// Claims is the JWT payload carried by a bearer token.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// TokenService issues and verifies signed bearer tokens. Verification is
// stateless; it proves issuance and freshness only. Whether the subject still
// exists is re-checked by the auth middleware.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// NewTokenService creates a TokenService signing with the given secret.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret), now: time.Now}
}

// Issue creates a token for the user, expiring 24 hours from issuance.
func (s *TokenService) Issue(userID int64, email string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
		Email: email,
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the token signature and expiry and returns the subject user ID
// and email. Every failure mode collapses into domain.ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (int64, string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil || !token.Valid {
		return 0, "", domain.ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, "", domain.ErrInvalidToken
	}
	return userID, claims.Email, nil
}
