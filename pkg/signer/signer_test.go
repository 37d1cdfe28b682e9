package signer

import (
	"encoding/base64"
	"net/http"
	"testing"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anp-works/didwba-go/pkg/did"
	"github.com/anp-works/didwba-go/pkg/protocol"
)

const testDID = "did:wba:example.com%3A9527:wba:user:abc123"

func coordinate(b []byte, size int) string {
	out := make([]byte, size)
	copy(out[size-len(b):], b)
	return base64.RawURLEncoding.EncodeToString(out)
}

func newTestSigner(t *testing.T, opts ...Option) *Signer {
	t.Helper()
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	pub := priv.PubKey()

	doc := &did.Document{
		ID: testDID,
		VerificationMethod: []did.VerificationMethod{{
			ID:         testDID + "#key-1",
			Type:       did.TypeEcdsaSecp256k1VerificationKey2019,
			Controller: testDID,
			PublicKeyJwk: &did.JWK{
				Kty: "EC",
				Crv: "secp256k1",
				X:   coordinate(pub.X().Bytes(), 32),
				Y:   coordinate(pub.Y().Bytes(), 32),
			},
		}},
	}
	cred, err := NewSecp256k1Credential(priv.Serialize())
	require.NoError(t, err)

	s, err := New(doc, cred, opts...)
	require.NoError(t, err)
	return s
}

func TestNew_RequiresDocAndCredential(t *testing.T) {
	_, err := New(nil, CredentialFunc(func([]byte) ([]byte, error) { return nil, nil }))
	assert.Error(t, err)

	s := newTestSigner(t)
	_, err = New(s.doc, nil)
	assert.Error(t, err)
}

func TestNew_RejectsUnsupportedFirstMethod(t *testing.T) {
	doc := &did.Document{
		ID: testDID,
		VerificationMethod: []did.VerificationMethod{{
			ID:           testDID + "#key-1",
			Type:         "RsaVerificationKey2018",
			Controller:   testDID,
			PublicKeyJwk: &did.JWK{Kty: "RSA"},
		}},
	}
	_, err := New(doc, CredentialFunc(func([]byte) ([]byte, error) { return nil, nil }))
	assert.Error(t, err)
}

func TestBuildAuthHeaders_SignedHeader(t *testing.T) {
	s := newTestSigner(t)

	headers, err := s.BuildAuthHeaders("http://example.com:9527/hello", false)
	require.NoError(t, err)

	auth := headers.Get(protocol.AuthorizationHeader)
	parts, err := protocol.ParseAuthHeader(auth)
	require.NoError(t, err)
	assert.Equal(t, testDID, parts.DID)
	assert.Equal(t, "key-1", parts.VerificationMethod)
	assert.NotEmpty(t, parts.Signature)

	// Timestamp is RFC 3339 UTC.
	ts, err := time.Parse(time.RFC3339, parts.Timestamp)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), ts, time.Minute)
}

func TestBuildAuthHeaders_FreshNoncePerHeader(t *testing.T) {
	s := newTestSigner(t)

	first, err := s.BuildAuthHeaders("http://example.com/a", true)
	require.NoError(t, err)
	second, err := s.BuildAuthHeaders("http://example.com/b", true)
	require.NoError(t, err)

	p1, err := protocol.ParseAuthHeader(first.Get(protocol.AuthorizationHeader))
	require.NoError(t, err)
	p2, err := protocol.ParseAuthHeader(second.Get(protocol.AuthorizationHeader))
	require.NoError(t, err)
	assert.NotEqual(t, p1.Nonce, p2.Nonce)
}

func TestBuildMutualAuthHeaders(t *testing.T) {
	s := newTestSigner(t)

	headers, err := s.BuildMutualAuthHeaders("http://example.com/hello", "did:wba:other.com:wba:service:xyz")
	require.NoError(t, err)

	parts, err := protocol.ParseMutualAuthHeader(headers.Get(protocol.AuthorizationHeader))
	require.NoError(t, err)
	assert.Equal(t, "did:wba:other.com:wba:service:xyz", parts.RespDID)
}

func TestUpdateTokenFromResponse_CachesAndReuses(t *testing.T) {
	s := newTestSigner(t)
	signCalls := 0
	s.cred = countingCredential(s.cred, &signCalls)

	resp := http.Header{}
	resp.Set(protocol.TokenHeader, "issued-token")
	resp.Set(protocol.TokenExpiresHeader, time.Now().Add(time.Hour).UTC().Format(time.RFC3339))

	got, err := s.UpdateTokenFromResponse("http://example.com/hello", resp)
	require.NoError(t, err)
	assert.Equal(t, "issued-token", got)

	headers, err := s.BuildAuthHeaders("http://example.com/hello", false)
	require.NoError(t, err)
	assert.Equal(t, protocol.BearerPrefix+"issued-token", headers.Get(protocol.AuthorizationHeader))
	assert.Zero(t, signCalls, "a valid cached token must not trigger a new signature")
}

func TestUpdateTokenFromResponse_BearerAuthorizationHeader(t *testing.T) {
	s := newTestSigner(t)

	resp := http.Header{}
	resp.Set(protocol.AuthorizationHeader, protocol.BearerPrefix+"from-auth-header")

	got, err := s.UpdateTokenFromResponse("http://example.com/", resp)
	require.NoError(t, err)
	assert.Equal(t, "from-auth-header", got)

	info, ok := s.Token("example.com")
	require.True(t, ok)
	assert.Equal(t, "from-auth-header", info.Token)
	// No explicit expiry: default TTL applies.
	assert.WithinDuration(t, time.Now().Add(DefaultTokenTTL), info.ExpiresAt, time.Minute)
}

func TestUpdateTokenFromResponse_HTTPDateExpiry(t *testing.T) {
	s := newTestSigner(t)

	expires := time.Now().Add(2 * time.Hour).UTC()
	resp := http.Header{}
	resp.Set(protocol.TokenHeader, "tok")
	resp.Set(protocol.TokenExpiresHeader, expires.Format(http.TimeFormat))

	_, err := s.UpdateTokenFromResponse("http://example.com/", resp)
	require.NoError(t, err)

	info, ok := s.Token("example.com")
	require.True(t, ok)
	assert.WithinDuration(t, expires, info.ExpiresAt, 2*time.Second)
}

func TestUpdateTokenFromResponse_UnparseableExpiryFallsBack(t *testing.T) {
	s := newTestSigner(t, WithTokenTTL(10*time.Minute))

	resp := http.Header{}
	resp.Set(protocol.TokenHeader, "tok")
	resp.Set(protocol.TokenExpiresHeader, "next tuesday")

	_, err := s.UpdateTokenFromResponse("http://example.com/", resp)
	require.NoError(t, err)

	info, ok := s.Token("example.com")
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), info.ExpiresAt, time.Minute)
}

func TestUpdateTokenFromResponse_NoToken(t *testing.T) {
	s := newTestSigner(t)

	got, err := s.UpdateTokenFromResponse("http://example.com/", http.Header{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBuildAuthHeaders_ExpiredTokenResignsHeader(t *testing.T) {
	s := newTestSigner(t)

	resp := http.Header{}
	resp.Set(protocol.TokenHeader, "stale")
	resp.Set(protocol.TokenExpiresHeader, time.Now().Add(-time.Minute).UTC().Format(time.RFC3339))
	_, err := s.UpdateTokenFromResponse("http://example.com/", resp)
	require.NoError(t, err)

	headers, err := s.BuildAuthHeaders("http://example.com/", false)
	require.NoError(t, err)
	auth := headers.Get(protocol.AuthorizationHeader)
	assert.False(t, protocol.HasRespDID(auth))
	_, err = protocol.ParseAuthHeader(auth)
	assert.NoError(t, err, "expired token must be replaced by a signed header")
}

func TestBuildAuthHeaders_ForceNewSkipsToken(t *testing.T) {
	s := newTestSigner(t)

	resp := http.Header{}
	resp.Set(protocol.TokenHeader, "valid")
	resp.Set(protocol.TokenExpiresHeader, time.Now().Add(time.Hour).UTC().Format(time.RFC3339))
	_, err := s.UpdateTokenFromResponse("http://example.com/", resp)
	require.NoError(t, err)

	headers, err := s.BuildAuthHeaders("http://example.com/", true)
	require.NoError(t, err)
	_, err = protocol.ParseAuthHeader(headers.Get(protocol.AuthorizationHeader))
	assert.NoError(t, err)
}

func TestClearToken(t *testing.T) {
	s := newTestSigner(t)

	resp := http.Header{}
	resp.Set(protocol.TokenHeader, "tok")
	_, err := s.UpdateTokenFromResponse("http://example.com/", resp)
	require.NoError(t, err)

	require.NoError(t, s.ClearToken("http://example.com/other"))
	_, ok := s.Token("example.com")
	assert.False(t, ok)
}

func TestClearAllTokens(t *testing.T) {
	s := newTestSigner(t)

	for _, u := range []string{"http://a.com/", "http://b.com/"} {
		resp := http.Header{}
		resp.Set(protocol.TokenHeader, "tok")
		_, err := s.UpdateTokenFromResponse(u, resp)
		require.NoError(t, err)
	}

	s.ClearAllTokens()
	_, okA := s.Token("a.com")
	_, okB := s.Token("b.com")
	assert.False(t, okA)
	assert.False(t, okB)
}

func TestDomainFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"http://example.com:9527/hello", "example.com"},
		{"https://example.com/x", "example.com"},
		{"https://sub.example.com", "sub.example.com"},
	}
	for _, tt := range tests {
		got, err := DomainFromURL(tt.url)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := DomainFromURL("/relative/path")
	assert.Error(t, err)
}

func countingCredential(inner Credential, calls *int) Credential {
	return CredentialFunc(func(hash []byte) ([]byte, error) {
		*calls++
		return inner.Sign(hash)
	})
}
