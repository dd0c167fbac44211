package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Claims carried by a member portal token. Capabilities lists what the
// member may do beyond booking their own slots, e.g. "override".
type Claims struct {
	MemberID     int64    `json:"member_id"`
	Capabilities []string `json:"capabilities,omitempty"`
	jwt.RegisteredClaims
}

type Service struct {
	secretKey     []byte
	issuer        string
	tokenDuration time.Duration
	parser        *jwt.Parser
}

// NewService verifies HS256 tokens signed with secretKey. A non-empty issuer
// must match the token's iss claim.
func NewService(secretKey, issuer string, tokenDuration time.Duration) *Service {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	return &Service{
		secretKey:     []byte(secretKey),
		issuer:        issuer,
		tokenDuration: tokenDuration,
		parser:        jwt.NewParser(opts...),
	}
}

// GenerateToken is used by operator tooling and tests; production tokens come from the member portal.
func (s *Service) GenerateToken(memberID int64, capabilities []string) (string, error) {
	now := time.Now()
	claims := Claims{
		MemberID:     memberID,
		Capabilities: capabilities,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenDuration)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
}

func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := s.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secretKey, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case err != nil, !token.Valid:
		return nil, ErrInvalidToken
	case claims.MemberID <= 0:
		return nil, ErrInvalidToken
	}
	return claims, nil
}
