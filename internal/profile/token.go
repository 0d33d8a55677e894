// Package profile issues the signed cookie that identifies a client profile.
//
// A profile stands in for one browser's local storage: it owns one session slot.
// The token carries no expiry because sessions never expire.
package profile

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenType = "profile"

// TokenIssuer handles profile token generation and validation
type TokenIssuer struct {
	secret string
}

// NewTokenIssuer creates a new token issuer
func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: secret}
}

// Issue generates a new profile id and its signed token
func (ti *TokenIssuer) Issue() (string, string, error) {
	profileID := uuid.New().String()

	claims := jwt.MapClaims{
		"sub":  profileID,
		"iat":  time.Now().Unix(),
		"type": tokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(ti.secret))
	if err != nil {
		return "", "", fmt.Errorf("failed to sign profile token: %w", err)
	}

	return profileID, tokenString, nil
}

// Validate validates a profile token and returns the profile id
func (ti *TokenIssuer) Validate(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(ti.secret), nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return "", fmt.Errorf("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}

	if t, ok := claims["type"].(string); !ok || t != tokenType {
		return "", fmt.Errorf("token is not a profile token")
	}

	profileID, ok := claims["sub"].(string)
	if !ok {
		return "", fmt.Errorf("sub not found in token")
	}
	if _, err := uuid.Parse(profileID); err != nil {
		return "", fmt.Errorf("invalid profile id: %w", err)
	}

	return profileID, nil
}
