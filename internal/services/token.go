package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"fleetmaster/internal/config"
	"fleetmaster/internal/models"
)

// TokenIssuer signs HS256 access tokens understood by middleware.JWTAuth.
type TokenIssuer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

func NewTokenIssuer(cfg *config.Config) *TokenIssuer {
	return &TokenIssuer{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.JWTIssuer,
		audience: cfg.JWTAudience,
		ttl:      time.Duration(cfg.JWTExpiresInSeconds) * time.Second,
	}
}

// Issue signs a token for the user. customerID is omitted when nil.
func (t *TokenIssuer) Issue(user *models.User, customerID *int, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"name":  user.UserName,
		"email": user.Email,
		"roles": user.Roles,
		"iss":   t.issuer,
		"aud":   t.audience,
		"iat":   now.Unix(),
		"exp":   now.Add(t.ttl).Unix(),
	}
	if customerID != nil {
		claims["customer_id"] = *customerID
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}
