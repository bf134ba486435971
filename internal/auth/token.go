package auth

import (
	"errors"
	"fmt"
	"time"

	apperrors "cookbook-service/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is the only verification failure. Callers must not try to
// tell apart malformed, tampered or expired tokens.
var ErrInvalidToken = errors.New("invalid token")

// TokenSubject is the public-safe user snapshot embedded in a token.
type TokenSubject struct {
	ID    string `json:"_id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type Claims struct {
	User TokenSubject `json:"user"`
	jwt.RegisteredClaims
}

// Subject is a verified token subject.
type Subject struct {
	ID    uuid.UUID
	Email string
	Name  string
}

type TokenCodec struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

type CodecOption func(*TokenCodec)

// WithClock overrides the codec's time source.
func WithClock(now func() time.Time) CodecOption {
	return func(c *TokenCodec) {
		c.now = now
	}
}

// NewTokenCodec builds a codec around an injected secret. A missing secret is
// a ConfigurationFatal error.
func NewTokenCodec(secret string, lifetime time.Duration, opts ...CodecOption) (*TokenCodec, error) {
	if secret == "" {
		return nil, apperrors.Configuration(msgSigningSecretMissing, nil)
	}

	c := &TokenCodec{
		secret:   []byte(secret),
		lifetime: lifetime,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Sign embeds id, email and name with an issuance time and expiry.
func (c *TokenCodec) Sign(identity Identity) (string, error) {
	issuedAt := c.now()

	claims := Claims{
		User: TokenSubject{
			ID:    identity.ID.String(),
			Email: identity.Email,
			Name:  identity.Name,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(c.lifetime)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf(msgSignTokenFailed, err)
	}

	return token, nil
}

// Verify checks signature and expiry together and returns the subject only
// when both hold.
func (c *TokenCodec) Verify(tokenString string) (Subject, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf(msgUnexpectedSigningMethod, token.Header["alg"])
		}
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return Subject{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Subject{}, ErrInvalidToken
	}

	id, err := uuid.Parse(claims.User.ID)
	if err != nil || id == uuid.Nil {
		return Subject{}, ErrInvalidToken
	}

	return Subject{ID: id, Email: claims.User.Email, Name: claims.User.Name}, nil
}
