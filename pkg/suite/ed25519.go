package suite

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/anp-works/didwba-go/pkg/did"
)

// ed25519Suite verifies Ed25519 signatures. The wire form is just the
// raw 64-byte signature base64url-encoded; there is no DER step.
type ed25519Suite struct {
	pub ed25519.PublicKey
}

func newEd25519Suite(vm *did.VerificationMethod) (Suite, error) {
	key, err := ed25519KeyFromMethod(vm)
	if err != nil {
		return nil, err
	}
	return &ed25519Suite{pub: key}, nil
}

func ed25519KeyFromMethod(vm *did.VerificationMethod) (ed25519.PublicKey, error) {
	if jwk := vm.PublicKeyJwk; jwk != nil {
		if jwk.Kty != "OKP" || jwk.Crv != "Ed25519" {
			return nil, fmt.Errorf("%w: jwk kty=%q crv=%q is not an Ed25519 key",
				ErrUnsupportedMethod, jwk.Kty, jwk.Crv)
		}
		b, err := base64.RawURLEncoding.DecodeString(jwk.X)
		if err != nil {
			return nil, fmt.Errorf("%w: jwk x: %v", ErrUnsupportedMethod, err)
		}
		if len(b) != ed25519.PublicKeySize {
			return nil, fmt.Errorf("%w: jwk x is %d bytes", ErrUnsupportedMethod, len(b))
		}
		return ed25519.PublicKey(b), nil
	}

	if vm.PublicKeyMultibase != "" {
		return ed25519KeyFromMultibase(vm.PublicKeyMultibase)
	}
	return nil, fmt.Errorf("%w: %s carries no public key material", ErrUnsupportedMethod, vm.Type)
}

// ed25519KeyFromMultibase decodes a base58btc multibase string ('z'
// prefix). Both the raw 32-byte form and the multicodec-prefixed
// (0xed 0x01) form are accepted.
func ed25519KeyFromMultibase(encoded string) (ed25519.PublicKey, error) {
	if len(encoded) < 2 || encoded[0] != 'z' {
		return nil, fmt.Errorf("%w: multibase key must use base58btc ('z' prefix)", ErrUnsupportedMethod)
	}
	b, err := base58.Decode(encoded[1:])
	if err != nil {
		return nil, fmt.Errorf("%w: multibase key: %v", ErrUnsupportedMethod, err)
	}
	if len(b) == ed25519.PublicKeySize+2 && b[0] == 0xed && b[1] == 0x01 {
		b = b[2:]
	}
	if len(b) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: multibase key is %d bytes", ErrUnsupportedMethod, len(b))
	}
	return ed25519.PublicKey(b), nil
}

func (s *ed25519Suite) Type() string { return did.TypeEd25519VerificationKey2018 }

func (s *ed25519Suite) Verify(hash []byte, wireSig string) (bool, error) {
	raw, err := decodeWire(wireSig)
	if err != nil {
		return false, err
	}
	if len(raw) != ed25519.SignatureSize {
		return false, fmt.Errorf("%w: got %d raw bytes, want %d",
			ErrMalformedSignature, len(raw), ed25519.SignatureSize)
	}
	return ed25519.Verify(s.pub, hash, raw), nil
}

func (s *ed25519Suite) EncodeSignature(native []byte) (string, error) {
	if len(native) != ed25519.SignatureSize {
		return "", fmt.Errorf("%w: native signature is %d bytes, want %d",
			ErrMalformedSignature, len(native), ed25519.SignatureSize)
	}
	return encodeWire(native), nil
}
