package suite

import (
	"errors"
	"fmt"

	"github.com/anp-works/didwba-go/pkg/did"
)

// Suite is the verification capability built from a single verification
// method: it checks a wire-encoded signature against a message hash and
// encodes native signatures into the wire form. Suites are pure values;
// construction and verification have no side effects.
type Suite interface {
	// Type returns the verification method type the suite was built for.
	Type() string

	// Verify reports whether wireSig is a valid signature over hash.
	// A structural problem with the signature string (wrong length,
	// bad alphabet) is returned as ErrMalformedSignature before any
	// cryptographic check runs; a clean mismatch returns (false, nil).
	Verify(hash []byte, wireSig string) (bool, error)

	// EncodeSignature converts a signature in the signing primitive's
	// native encoding (DER for ECDSA, raw 64 bytes for Ed25519) into
	// the protocol wire form.
	EncodeSignature(native []byte) (string, error)
}

// ErrUnsupportedMethod is returned when no suite constructor is
// registered for a verification method's type, or the key material
// inside a supported type cannot be used (unknown curve, bad encoding).
var ErrUnsupportedMethod = errors.New("unsupported verification method")

// ErrMalformedSignature is returned when a wire signature fails
// structural decoding before any cryptographic verification.
var ErrMalformedSignature = errors.New("malformed signature")

// Constructor builds a suite from a verification method's key material.
type Constructor func(vm *did.VerificationMethod) (Suite, error)

var registry = map[string]Constructor{
	did.TypeEcdsaSecp256k1VerificationKey2019: newECDSASuite,
	did.TypeJsonWebKey2020:                    newECDSASuite,
	did.TypeEd25519VerificationKey2018:        newEd25519Suite,
}

// Register installs a constructor for a verification method type,
// replacing any existing one. It is intended for init-time extension and
// is not synchronized against concurrent FromVerificationMethod calls.
func Register(vmType string, c Constructor) {
	registry[vmType] = c
}

// FromVerificationMethod dispatches on the method's type string and
// builds the matching suite. Unknown types fail here, so a malformed DID
// document is rejected before any signature is looked at.
func FromVerificationMethod(vm *did.VerificationMethod) (Suite, error) {
	c, ok := registry[vm.Type]
	if !ok {
		return nil, fmt.Errorf("%w: type %q", ErrUnsupportedMethod, vm.Type)
	}
	return c(vm)
}
