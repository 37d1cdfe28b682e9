// Package suite turns a DID document's verification methods into
// signature-verification capabilities and owns the protocol's signature
// wire encoding.
//
// Dispatch is by the verification method's type string and happens at
// construction, so an unknown or malformed method is rejected before any
// signature is examined:
//
//	s, err := suite.FromVerificationMethod(vm)
//	if err != nil { ... }            // ErrUnsupportedMethod
//	ok, err := s.Verify(hash, sig)   // err means malformed, !ok means mismatch
//
// Built-in types are EcdsaSecp256k1VerificationKey2019,
// Ed25519VerificationKey2018 and JsonWebKey2020 ECDSA keys on secp256k1
// or the NIST P-curves; new curves are added to the internal curve table
// and new method types through Register, without touching callers.
//
// The wire encoding is base64url without padding. ECDSA signatures
// travel as fixed-width R||S (each half the curve's coordinate byte
// length: 64 raw bytes for 256-bit curves, 132 for P-521) and are
// rebuilt into DER for the verification primitives; Ed25519 signatures
// are the raw 64 bytes.
package suite
