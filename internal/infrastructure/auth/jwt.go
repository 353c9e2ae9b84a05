package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gigvora/escrow/internal/domain"
)

// Claims represents the JWT claims issued by the platform gateway.
type Claims struct {
	FreelancerID string      `json:"freelancer_id"`
	Email        string      `json:"email"`
	Role         domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager verifies tokens from the gateway and mints tokens for
// local tooling.
type JWTManager struct {
	secretKey     []byte
	tokenDuration time.Duration
}

// NewJWTManager creates a new JWT manager.
func NewJWTManager(secretKey string, tokenDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
	}
}

// Generate generates a signed token for the given identity.
func (m *JWTManager) Generate(identity domain.Identity) (string, error) {
	claims := Claims{
		FreelancerID: identity.FreelancerID,
		Email:        identity.Email,
		Role:         identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// Verify validates a token and returns the caller identity.
func (m *JWTManager) Verify(tokenString string) (domain.Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Identity{}, domain.ErrExpiredToken
		}
		return domain.Identity{}, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return domain.Identity{}, domain.ErrInvalidToken
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return domain.Identity{}, domain.ErrExpiredToken
	}

	return domain.Identity{
		FreelancerID: claims.FreelancerID,
		Email:        claims.Email,
		Role:         claims.Role,
	}, nil
}
