package protocol

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/anp-works/didwba-go/pkg/canonical"
)

// nonceSize is the number of random bytes in a nonce; the wire form is
// its hex encoding.
const nonceSize = 16

// AuthData is the payload whose canonical form gets hashed and signed.
// One-way data binds {nonce, timestamp, service, did}; mutual data binds
// {nonce, timestamp, anp_service, did, resp_did}. The two shapes are kept
// apart by the constructors: a populated RespDID always means the mutual
// key set, never a mix of the two.
type AuthData struct {
	DID           string
	Nonce         string
	Timestamp     string
	ServiceDomain string
	RespDID       string
}

// NewAuthData builds the one-way payload for a fresh attempt: a new
// random nonce and the current UTC instant.
func NewAuthData(didStr, serviceDomain string) (*AuthData, error) {
	nonce, err := NewNonce()
	if err != nil {
		return nil, err
	}
	return &AuthData{
		DID:           didStr,
		Nonce:         nonce,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		ServiceDomain: serviceDomain,
	}, nil
}

// NewMutualAuthData builds the two-way payload, additionally binding the
// responder's DID.
func NewMutualAuthData(didStr, serviceDomain, respDID string) (*AuthData, error) {
	d, err := NewAuthData(didStr, serviceDomain)
	if err != nil {
		return nil, err
	}
	d.RespDID = respDID
	return d, nil
}

// Mutual reports whether the payload uses the two-way shape.
func (d *AuthData) Mutual() bool { return d.RespDID != "" }

// payload lays the signed fields out under their wire keys. The service
// domain travels under "service" for one-way auth and "anp_service" for
// mutual auth; the key sets never mix.
func (d *AuthData) payload() map[string]interface{} {
	m := map[string]interface{}{
		"nonce":     d.Nonce,
		"timestamp": d.Timestamp,
		"did":       d.DID,
	}
	if d.Mutual() {
		m["anp_service"] = d.ServiceDomain
		m["resp_did"] = d.RespDID
	} else {
		m["service"] = d.ServiceDomain
	}
	return m
}

// Hash returns the SHA-256 digest of the payload's canonical form; this
// is the value that gets signed and verified.
func (d *AuthData) Hash() ([]byte, error) {
	return canonical.Hash(d.payload())
}

// NewNonce returns a fresh random nonce. Nonces are never reused across
// attempts.
func NewNonce() (string, error) {
	b := make([]byte, nonceSize)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	return hex.EncodeToString(b), nil
}
