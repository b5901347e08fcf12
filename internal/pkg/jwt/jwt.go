package jwt

import (
	"errors"
	"time"

	"washday/internal/domain/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Claims are issued by the identity service; this process only verifies them.
type Claims struct {
	PlayerID uuid.UUID `json:"player_id"`
	Role     string    `json:"role"`
	jwt.RegisteredClaims
}

// Service signs and verifies HS256 tokens with one shared secret.
type Service struct {
	secret []byte
	parser *jwt.Parser
}

func NewService(secret string) *Service {
	return &Service{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
		),
	}
}

// SignToken mints a token with the shared secret. Used by tests and the
// operator CLI; production tokens come from the identity service.
func (s *Service) SignToken(playerID uuid.UUID, role user.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		PlayerID: playerID,
		Role:     role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   playerID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ValidateToken verifies signature and expiry. Every failure other than
// expiry collapses to ErrInvalidToken.
func (s *Service) ValidateToken(raw string) (*Claims, error) {
	var claims Claims
	_, err := s.parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case err != nil:
		return nil, ErrInvalidToken
	case claims.PlayerID == uuid.Nil:
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
