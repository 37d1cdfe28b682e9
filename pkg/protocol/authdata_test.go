package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anp-works/didwba-go/pkg/canonical"
)

func TestNewAuthData_FreshNoncePerAttempt(t *testing.T) {
	a, err := NewAuthData(testDID, "example.com")
	require.NoError(t, err)
	b, err := NewAuthData(testDID, "example.com")
	require.NoError(t, err)

	assert.NotEqual(t, a.Nonce, b.Nonce)
	assert.Len(t, a.Nonce, 32)
	assert.False(t, a.Mutual())
}

func TestAuthData_HashBindsServiceDomain(t *testing.T) {
	a := &AuthData{DID: testDID, Nonce: "n", Timestamp: "ts", ServiceDomain: "example.com"}
	b := &AuthData{DID: testDID, Nonce: "n", Timestamp: "ts", ServiceDomain: "other.com"}

	ha, err := a.Hash()
	require.NoError(t, err)
	hb, err := b.Hash()
	require.NoError(t, err)
	assert.NotEqual(t, ha, hb)
}

func TestAuthData_OneWayPayloadKeys(t *testing.T) {
	d := &AuthData{DID: testDID, Nonce: "n", Timestamp: "ts", ServiceDomain: "example.com"}

	want, err := canonical.Hash(map[string]interface{}{
		"nonce":     "n",
		"timestamp": "ts",
		"service":   "example.com",
		"did":       testDID,
	})
	require.NoError(t, err)
	got, err := d.Hash()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestAuthData_MutualPayloadKeys(t *testing.T) {
	d := &AuthData{
		DID:           testDID,
		Nonce:         "n",
		Timestamp:     "ts",
		ServiceDomain: "example.com",
		RespDID:       "did:wba:other.com:wba:service:xyz",
	}
	require.True(t, d.Mutual())

	// The mutual shape swaps "service" for "anp_service" + "resp_did";
	// the key sets never mix.
	want, err := canonical.Hash(map[string]interface{}{
		"nonce":       "n",
		"timestamp":   "ts",
		"anp_service": "example.com",
		"did":         testDID,
		"resp_did":    "did:wba:other.com:wba:service:xyz",
	})
	require.NoError(t, err)
	got, err := d.Hash()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	oneWay := &AuthData{DID: testDID, Nonce: "n", Timestamp: "ts", ServiceDomain: "example.com"}
	gotOneWay, err := oneWay.Hash()
	require.NoError(t, err)
	assert.NotEqual(t, got, gotOneWay)
}

func TestNewMutualAuthData(t *testing.T) {
	d, err := NewMutualAuthData(testDID, "example.com", "did:wba:other.com:wba:service:xyz")
	require.NoError(t, err)
	assert.True(t, d.Mutual())
	assert.NotEmpty(t, d.Nonce)
	assert.NotEmpty(t, d.Timestamp)
}
