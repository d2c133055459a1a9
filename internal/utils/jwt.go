package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"issue-tracking/internal/models"
)

type Claims struct {
	UserID  string `json:"uid"`
	Role    string `json:"role"`
	Company string `json:"company,omitempty"`
	jwt.RegisteredClaims
}

// Principal returns the caller identity carried by the token.
func (c *Claims) Principal() models.Principal {
	return models.Principal{ID: c.UserID, Role: models.Role(c.Role), CompanyID: c.Company}
}

func SignJWT(secret string, p models.Principal, ttl time.Duration) (string, error) {
	now := time.Now()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: p.ID, Role: string(p.Role), Company: p.CompanyID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}).SignedString([]byte(secret))
}

func ParseJWT(secret, token string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid {
		return c, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}
