package usecase

import (
	"fmt"

	"washday/internal/domain/user"
	"washday/internal/pkg/jwt"
)

// TokenValidator turns a bearer token into the caller it was issued to.
type TokenValidator interface {
	Authenticate(token string) (user.Principal, error)
}

type jwtTokenValidator struct {
	jwt *jwt.Service
}

func NewTokenValidator(svc *jwt.Service) TokenValidator {
	return &jwtTokenValidator{jwt: svc}
}

func (v *jwtTokenValidator) Authenticate(token string) (user.Principal, error) {
	claims, err := v.jwt.ValidateToken(token)
	if err != nil {
		return user.Principal{}, err
	}

	role, err := user.ParseRole(claims.Role)
	if err != nil {
		return user.Principal{}, fmt.Errorf("token role %q: %w", claims.Role, err)
	}
	return user.Principal{PlayerID: claims.PlayerID, Role: role}, nil
}
