package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"matchday/social-api/model"
)

// ErrInvalidToken is the single failure a caller sees for a malformed,
// tampered or expired token. The boundary never learns which.
var ErrInvalidToken = errors.New("invalid token")

type accessClaims struct {
	jwt.RegisteredClaims
	UserID string     `json:"uid"`
	Role   model.Role `json:"role"`
}

type refreshClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

// TokenIssuer signs and verifies the two token kinds. Access and refresh
// secrets must differ so a refresh token can never pass as an access token.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) (*TokenIssuer, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, errors.New("both signing secrets are required")
	}

	if accessSecret == refreshSecret {
		return nil, errors.New("access and refresh signing secrets can't share a value")
	}

	return &TokenIssuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

func (t *TokenIssuer) IssueAccess(userID string, role model.Role) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.accessTTL)),
		},
		UserID: userID,
		Role:   role,
	})

	return token.SignedString(t.accessSecret)
}

func (t *TokenIssuer) IssueRefresh(userID string) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.refreshTTL)),
		},
		UserID: userID,
	})

	return token.SignedString(t.refreshSecret)
}

// VerifyAccess checks signature and expiry and returns the subject and role.
func (t *TokenIssuer) VerifyAccess(raw string) (string, model.Role, error) {
	claims := &accessClaims{}

	if err := t.parse(raw, claims, t.accessSecret); err != nil {
		return "", "", err
	}

	if claims.UserID == "" || !claims.Role.Valid() {
		return "", "", ErrInvalidToken
	}

	return claims.UserID, claims.Role, nil
}

// VerifyRefresh checks signature and expiry against the refresh secret.
func (t *TokenIssuer) VerifyRefresh(raw string) (string, error) {
	claims := &refreshClaims{}

	if err := t.parse(raw, claims, t.refreshSecret); err != nil {
		return "", err
	}

	if claims.UserID == "" {
		return "", ErrInvalidToken
	}

	return claims.UserID, nil
}

func (t *TokenIssuer) parse(raw string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(raw, claims, func(tok *jwt.Token) (any, error) {
		if tok.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", tok.Method.Alg())
		}

		return secret, nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}

	return nil
}
