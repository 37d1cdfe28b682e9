package signer

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	decredecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// Credential is the narrow signing capability the initiator holds. It
// signs a payload hash and returns the signature in the primitive's
// native encoding (DER for ECDSA, raw 64 bytes for Ed25519). The raw key
// never crosses this boundary: header construction only ever sees hashes
// going in and signatures coming out.
type Credential interface {
	Sign(hash []byte) ([]byte, error)
}

// CredentialFunc adapts a signing callback to the Credential interface,
// e.g. one backed by an external credential store or HSM.
type CredentialFunc func(hash []byte) ([]byte, error)

func (f CredentialFunc) Sign(hash []byte) ([]byte, error) { return f(hash) }

// secp256k1Credential signs with an in-process secp256k1 key.
type secp256k1Credential struct {
	key *secp256k1.PrivateKey
}

// NewSecp256k1Credential wraps a 32-byte secp256k1 private key.
func NewSecp256k1Credential(privateKey []byte) (Credential, error) {
	if len(privateKey) != 32 {
		return nil, fmt.Errorf("secp256k1 private key must be 32 bytes, got %d", len(privateKey))
	}
	return &secp256k1Credential{key: secp256k1.PrivKeyFromBytes(privateKey)}, nil
}

func (c *secp256k1Credential) Sign(hash []byte) ([]byte, error) {
	return decredecdsa.Sign(c.key, hash).Serialize(), nil
}

// ecdsaCredential signs with an in-process NIST-curve key.
type ecdsaCredential struct {
	key *ecdsa.PrivateKey
}

// NewECDSACredential wraps a crypto/ecdsa private key (P-256/P-384/P-521).
func NewECDSACredential(key *ecdsa.PrivateKey) Credential {
	return &ecdsaCredential{key: key}
}

func (c *ecdsaCredential) Sign(hash []byte) ([]byte, error) {
	sig, err := ecdsa.SignASN1(rand.Reader, c.key, hash)
	if err != nil {
		return nil, fmt.Errorf("ecdsa sign: %w", err)
	}
	return sig, nil
}

// ed25519Credential signs with an in-process Ed25519 key.
type ed25519Credential struct {
	key ed25519.PrivateKey
}

// NewEd25519Credential wraps an Ed25519 private key.
func NewEd25519Credential(key ed25519.PrivateKey) Credential {
	return &ed25519Credential{key: key}
}

func (c *ed25519Credential) Sign(hash []byte) ([]byte, error) {
	return ed25519.Sign(c.key, hash), nil
}
