// Package token issues and verifies the signed session tokens.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"bootcamper/internal/domain"
)

// Manager signs and parses HS256 session tokens carrying the principal.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// TTL is the configured token lifetime, exposed for cookie expiry.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Issue signs a token for the principal.
func (m *Manager) Issue(p domain.Principal) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  p.ID,
		"role": string(p.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(m.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse verifies the signature and expiry and returns the embedded
// principal. Any failure maps to an authentication error.
func (m *Manager) Parse(raw string) (domain.Principal, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !tok.Valid {
		return domain.Principal{}, domain.UnauthorizedError{Msg: "invalid or expired token", Err: err}
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Principal{}, domain.UnauthorizedError{Msg: "invalid token claims"}
	}
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || !domain.ValidRole(role) {
		return domain.Principal{}, domain.UnauthorizedError{Msg: "invalid token claims"}
	}
	return domain.Principal{ID: sub, Role: domain.Role(role)}, nil
}
