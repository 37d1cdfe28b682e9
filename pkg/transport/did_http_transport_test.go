package transport

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anp-works/didwba-go/pkg/did"
	"github.com/anp-works/didwba-go/pkg/protocol"
	"github.com/anp-works/didwba-go/pkg/signer"
)

const testDID = "did:wba:example.com%3A9527:wba:user:abc123"

func coordinate(b []byte, size int) string {
	out := make([]byte, size)
	copy(out[size-len(b):], b)
	return base64.RawURLEncoding.EncodeToString(out)
}

func newTestSigner(t *testing.T) *signer.Signer {
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
	cred, err := signer.NewSecp256k1Credential(priv.Serialize())
	require.NoError(t, err)
	s, err := signer.New(doc, cred)
	require.NoError(t, err)
	return s
}

func TestRoundTrip_AttachesSignedHeader(t *testing.T) {
	s := newTestSigner(t)

	var seen http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Clone()
	}))
	defer srv.Close()

	client := &http.Client{Transport: NewDIDHTTPTransport(s)}
	resp, err := client.Get(srv.URL + "/hello")
	require.NoError(t, err)
	resp.Body.Close()

	auth := seen.Get(protocol.AuthorizationHeader)
	assert.True(t, strings.HasPrefix(auth, protocol.Scheme+" "))
	_, err = protocol.ParseAuthHeader(auth)
	assert.NoError(t, err)

	assert.Equal(t, testDID, seen.Get(protocol.CallerHeader))
	assert.Equal(t, "127.0.0.1", seen.Get(protocol.TargetHeader))
}

func TestRoundTrip_DoesNotMutateOriginalRequest(t *testing.T) {
	s := newTestSigner(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	resp, err := NewDIDHTTPTransport(s).RoundTrip(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Empty(t, req.Header.Get(protocol.AuthorizationHeader))
}

func TestRoundTrip_HarvestsIssuedToken(t *testing.T) {
	s := newTestSigner(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(protocol.TokenHeader, "issued-token")
		w.Header().Set(protocol.TokenExpiresHeader, time.Now().Add(time.Hour).UTC().Format(time.RFC3339))
	}))
	defer srv.Close()

	client := &http.Client{Transport: NewDIDHTTPTransport(s)}

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	info, ok := s.Token("127.0.0.1")
	require.True(t, ok)
	assert.Equal(t, "issued-token", info.Token)
}

func TestRoundTrip_UsesCachedTokenOnSecondRequest(t *testing.T) {
	s := newTestSigner(t)

	var auths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auths = append(auths, r.Header.Get(protocol.AuthorizationHeader))
		if len(auths) == 1 {
			w.Header().Set(protocol.TokenHeader, "issued-token")
			w.Header().Set(protocol.TokenExpiresHeader, time.Now().Add(time.Hour).UTC().Format(time.RFC3339))
		}
	}))
	defer srv.Close()

	client := &http.Client{Transport: NewDIDHTTPTransport(s)}
	for i := 0; i < 2; i++ {
		resp, err := client.Get(srv.URL)
		require.NoError(t, err)
		resp.Body.Close()
	}

	require.Len(t, auths, 2)
	assert.True(t, strings.HasPrefix(auths[0], protocol.Scheme+" "))
	assert.Equal(t, protocol.BearerPrefix+"issued-token", auths[1])
}

func TestRoundTrip_ClearsTokenOn401(t *testing.T) {
	s := newTestSigner(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	// Prime the cache with a token the server will reject.
	resp := http.Header{}
	resp.Set(protocol.TokenHeader, "stale-token")
	resp.Set(protocol.TokenExpiresHeader, time.Now().Add(time.Hour).UTC().Format(time.RFC3339))
	_, err := s.UpdateTokenFromResponse(srv.URL, resp)
	require.NoError(t, err)

	client := &http.Client{Transport: NewDIDHTTPTransport(s)}
	out, err := client.Get(srv.URL)
	require.NoError(t, err)
	out.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, out.StatusCode)
	_, ok := s.Token("127.0.0.1")
	assert.False(t, ok, "401 must evict the cached token")
}
