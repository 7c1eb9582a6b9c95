package helpers

import (
	"errors"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenIssuer signs and validates HS256 access tokens. Tokens carry a kid
// header so the signing secret can be rotated by adding keys to the set.
type TokenIssuer struct {
	secret []byte
	keyID  string
	ttl    time.Duration
	jwks   *keyfunc.JWKS
	now    func() time.Time
}

func NewTokenIssuer(secret, keyID string, ttl time.Duration) *TokenIssuer {
	jwks := keyfunc.NewGiven(map[string]keyfunc.GivenKey{
		keyID: keyfunc.NewGivenHMAC([]byte(secret), keyfunc.GivenKeyOptions{
			Algorithm: jwt.SigningMethodHS256.Alg(),
		}),
	})
	return &TokenIssuer{
		secret: []byte(secret),
		keyID:  keyID,
		ttl:    ttl,
		jwks:   jwks,
		now:    time.Now,
	}
}

// Issue returns a signed token for subject with the given role and its
// expiry time.
func (t *TokenIssuer) Issue(subject, role, email string) (string, time.Time, error) {
	now := t.now()
	expiresAt := now.Add(t.ttl)
	claims := &CustomClaims{
		Role:  role,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["kid"] = t.keyID

	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (t *TokenIssuer) ValidateToken(tokenStr string) (*CustomClaims, error) {
	if tokenStr == "" {
		return nil, errors.New("token is required")
	}
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, t.jwks.Keyfunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

func (t *TokenIssuer) TTL() time.Duration {
	return t.ttl
}
