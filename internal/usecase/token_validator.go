package usecase

import (
	"kilnbook/internal/domain/member"
	"kilnbook/internal/pkg/jwt"
)

//go:generate mockgen -source=token_validator.go -destination=../mock/usecase/token_validator_mock.go -package=usecasemock

// TokenValidator provides token validation for middleware
type TokenValidator interface {
	ValidateToken(tokenString string) (member.ActorContext, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{
		jwtService: jwtService,
	}
}

func (t *tokenValidatorImpl) ValidateToken(tokenString string) (member.ActorContext, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return member.ActorContext{}, err
	}

	return member.ActorFromClaims(claims.MemberID, claims.Capabilities), nil
}
