package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrUnauthorized is returned for every token verification failure. Callers
// must not learn whether the signature, the payload or the expiry was at
// fault.
var ErrUnauthorized = errors.New("could not validate credentials")

// TokenService issues and verifies signed, time-limited bearer tokens.
//
// Tokens are stateless: there is no server-side session row, so expiry is the
// only defense against a leaked token and the validity window is kept short.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a token service signing with the given secret.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue creates a signed token carrying the subject, valid for the
// configured window from now.
func (s *TokenService) Issue(subject string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	})
	return token.SignedString(s.secret)
}

// Verify checks signature and expiry and returns the embedded subject. Any
// failure, whatever the cause, is ErrUnauthorized.
func (s *TokenService) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrUnauthorized
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", ErrUnauthorized
	}
	return subject, nil
}
