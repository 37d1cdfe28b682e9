package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const callerDID = "did:wba:example.com%3A9527:wba:user:abc123"

func TestNewIssuer_RequiresSecret(t *testing.T) {
	_, err := NewIssuer(nil)
	assert.Error(t, err)

	_, err = NewIssuer([]byte{})
	assert.Error(t, err)
}

func TestIssuer_IssueAndValidate(t *testing.T) {
	issuer, err := NewIssuer([]byte("test-secret"))
	require.NoError(t, err)

	tok, expiresAt, err := issuer.Issue(callerDID)
	require.NoError(t, err)
	assert.NotEmpty(t, tok)
	assert.WithinDuration(t, time.Now().Add(DefaultTTL), expiresAt, time.Minute)

	got, err := issuer.Validate(tok)
	require.NoError(t, err)
	assert.Equal(t, callerDID, got)
}

func TestIssuer_UniqueTokenIDs(t *testing.T) {
	issuer, err := NewIssuer([]byte("test-secret"))
	require.NoError(t, err)

	first, _, err := issuer.Issue(callerDID)
	require.NoError(t, err)
	second, _, err := issuer.Issue(callerDID)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestIssuer_RejectsWrongSecret(t *testing.T) {
	issuer, err := NewIssuer([]byte("secret-a"))
	require.NoError(t, err)
	other, err := NewIssuer([]byte("secret-b"))
	require.NoError(t, err)

	tok, _, err := issuer.Issue(callerDID)
	require.NoError(t, err)

	_, err = other.Validate(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_RejectsExpired(t *testing.T) {
	issuer, err := NewIssuer([]byte("test-secret"), WithTTL(-time.Minute))
	require.NoError(t, err)

	tok, _, err := issuer.Issue(callerDID)
	require.NoError(t, err)

	_, err = issuer.Validate(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_RejectsGarbage(t *testing.T) {
	issuer, err := NewIssuer([]byte("test-secret"))
	require.NoError(t, err)

	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := issuer.Validate(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tok)
	}
}

func TestIssuer_RejectsUnexpectedAlgorithm(t *testing.T) {
	issuer, err := NewIssuer([]byte("test-secret"))
	require.NoError(t, err)

	// alg=none with the validator's secret as key material must still be
	// rejected by the valid-methods allowlist.
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   callerDID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = issuer.Validate(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_IssuerName(t *testing.T) {
	withName, err := NewIssuer([]byte("test-secret"), WithIssuerName("anp-auth"))
	require.NoError(t, err)
	plain, err := NewIssuer([]byte("test-secret"))
	require.NoError(t, err)

	// A token minted without iss fails a validator that requires one.
	tok, _, err := plain.Issue(callerDID)
	require.NoError(t, err)
	_, err = withName.Validate(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	tok, _, err = withName.Issue(callerDID)
	require.NoError(t, err)
	got, err := withName.Validate(tok)
	require.NoError(t, err)
	assert.Equal(t, callerDID, got)
}

func TestIssuer_RejectsMissingSubject(t *testing.T) {
	issuer, err := NewIssuer([]byte("test-secret"))
	require.NoError(t, err)

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = issuer.Validate(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
