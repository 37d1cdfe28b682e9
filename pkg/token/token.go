package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTTL is the bearer token lifetime when none is configured.
const DefaultTTL = 30 * time.Minute

// ErrInvalidToken is returned when a bearer token fails validation for
// any reason: bad signature, expired, wrong issuer, missing subject.
var ErrInvalidToken = errors.New("invalid bearer token")

// Issuer mints and validates the short-lived bearer tokens a server
// hands out after a successful DIDWba signature handshake, so callers
// can skip re-signing every request. Tokens are HS256 JWTs with the
// caller's DID as subject.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// Option configures an Issuer.
type Option func(*Issuer)

// WithTTL changes the token lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(i *Issuer) { i.ttl = ttl }
}

// WithIssuerName sets the iss claim; validation then requires it.
func WithIssuerName(name string) Option {
	return func(i *Issuer) { i.issuer = name }
}

// NewIssuer creates an Issuer around an HMAC secret.
func NewIssuer(secret []byte, opts ...Option) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("token issuer requires a non-empty secret")
	}
	i := &Issuer{secret: secret, ttl: DefaultTTL}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Issue mints a token for callerDID and returns it with its absolute
// expiry.
func (i *Issuer) Issue(callerDID string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(i.ttl)

	claims := jwt.RegisteredClaims{
		Subject:   callerDID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	if i.issuer != "" {
		claims.Issuer = i.issuer
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign bearer token: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate checks a bearer token and returns the caller DID it was
// issued to.
func (i *Issuer) Validate(tokenString string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if i.issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.issuer))
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: no subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}
