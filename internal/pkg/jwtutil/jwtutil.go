package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"mediaitor/internal/identity"
)

var ErrMissingSubject = errors.New("token has no subject")

// Claims mirrors the session token the identity provider issues. The subject
// is the provider's stable user id.
type Claims struct {
	PrimaryEmailAddressID string                  `json:"primary_email_address_id,omitempty"`
	EmailAddresses        []identity.EmailAddress `json:"email_addresses,omitempty"`
	FirstName             string                  `json:"first_name,omitempty"`
	LastName              string                  `json:"last_name,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) Identity() identity.Identity {
	return identity.Identity{
		ExternalID:            c.Subject,
		PrimaryEmailAddressID: c.PrimaryEmailAddressID,
		EmailAddresses:        c.EmailAddresses,
		FirstName:             c.FirstName,
		LastName:              c.LastName,
	}
}

func GenerateToken(secret, issuer string, expiration time.Duration, id identity.Identity) (string, error) {
	now := time.Now()
	claims := Claims{
		PrimaryEmailAddressID: id.PrimaryEmailAddressID,
		EmailAddresses:        id.EmailAddresses,
		FirstName:             id.FirstName,
		LastName:              id.LastName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ExternalID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token failed: %w", err)
	}
	return signed, nil
}

// ParseToken verifies signature, expiry and, when issuer is set, the iss claim.
func ParseToken(secret, issuer, tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse token failed: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("parse token failed: invalid token")
	}
	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}
	return claims, nil
}
