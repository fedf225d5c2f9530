// Package utils mints access tokens. The service only verifies tokens in
// production; minting exists for cmd/devtoken and tests.
package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles recognised by the seatmap routes.
const (
	RoleOrganizer = "ORGANIZER"
	RoleAdmin     = "ADMIN"
)

// AccessToken is a signed JWT and its expiry.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// NewAccessToken signs an HS256 JWT with sub, role, exp and iat claims.
func NewAccessToken(secret, userID, role string, ttl time.Duration) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}
