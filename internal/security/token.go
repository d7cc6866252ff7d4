package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/fastygo/taskflow/domain"
)

// Token verification failures. All of them are Unauthorized to the transport layer.
var (
	ErrInvalidToken   = domain.NewError(domain.ErrCodeUnauthorized, "invalid token")
	ErrTokenExpired   = domain.NewError(domain.ErrCodeUnauthorized, "token expired")
	ErrMalformedToken = domain.NewError(domain.ErrCodeUnauthorized, "malformed token")
)

// Claims is the signed payload of an access token. The subject is the user id.
type Claims struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 access tokens. It keeps no per-token state.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret, issuer string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for identity that expires after the configured TTL.
func (s *TokenService) Issue(identity domain.Identity) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims := Claims{
		Email: identity.Email,
		Role:  identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify checks the signature first, then expiry, then structure and issuer.
func (s *TokenService) Verify(tokenString string) (domain.Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return domain.Identity{}, classify(err)
	}
	if !token.Valid {
		return domain.Identity{}, ErrInvalidToken
	}

	if claims.Subject == "" || claims.Email == "" || !claims.Role.Valid() || claims.ExpiresAt == nil {
		return domain.Identity{}, ErrMalformedToken
	}
	if !claims.VerifyIssuer(s.issuer, s.issuer != "") {
		return domain.Identity{}, ErrInvalidToken
	}

	return domain.Identity{
		UserID: claims.Subject,
		Email:  claims.Email,
		Role:   claims.Role,
	}, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformedToken
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrInvalidToken
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	default:
		return ErrInvalidToken
	}
}
