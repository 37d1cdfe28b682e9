package suite

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"encoding/base64"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	decredecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/anp-works/didwba-go/pkg/did"
)

// curveParams describes one named curve the ECDSA suite can verify on.
// Adding a curve here is the whole extension; callers never change.
type curveParams struct {
	curve          elliptic.Curve
	coordinateSize int
}

var ecdsaCurves = map[string]curveParams{
	"secp256k1": {btcec.S256(), 32},
	"P-256":     {elliptic.P256(), 32},
	"P-384":     {elliptic.P384(), 48},
	"P-521":     {elliptic.P521(), 66},
}

// ecdsaSuite verifies ECDSA signatures for one public key. secp256k1 is
// verified through the dedicated secp256k1 implementation; the NIST
// curves go through crypto/ecdsa.
type ecdsaSuite struct {
	vmType  string
	crv     string
	size    int
	pub     *ecdsa.PublicKey // NIST curves
	secpPub *btcec.PublicKey // secp256k1
}

func newECDSASuite(vm *did.VerificationMethod) (Suite, error) {
	jwk := vm.PublicKeyJwk
	if jwk == nil {
		return nil, fmt.Errorf("%w: %s requires publicKeyJwk", ErrUnsupportedMethod, vm.Type)
	}
	if jwk.Kty != "EC" {
		return nil, fmt.Errorf("%w: kty %q is not EC", ErrUnsupportedMethod, jwk.Kty)
	}
	params, ok := ecdsaCurves[jwk.Crv]
	if !ok {
		return nil, fmt.Errorf("%w: curve %q", ErrUnsupportedMethod, jwk.Crv)
	}

	x, err := decodeCoordinate(jwk.X, params.coordinateSize)
	if err != nil {
		return nil, fmt.Errorf("%w: x coordinate: %v", ErrUnsupportedMethod, err)
	}
	y, err := decodeCoordinate(jwk.Y, params.coordinateSize)
	if err != nil {
		return nil, fmt.Errorf("%w: y coordinate: %v", ErrUnsupportedMethod, err)
	}

	s := &ecdsaSuite{vmType: vm.Type, crv: jwk.Crv, size: params.coordinateSize}

	if jwk.Crv == "secp256k1" {
		uncompressed := make([]byte, 0, 1+2*params.coordinateSize)
		uncompressed = append(uncompressed, 0x04)
		uncompressed = append(uncompressed, x...)
		uncompressed = append(uncompressed, y...)
		pub, err := btcec.ParsePubKey(uncompressed)
		if err != nil {
			return nil, fmt.Errorf("%w: secp256k1 public key: %v", ErrUnsupportedMethod, err)
		}
		s.secpPub = pub
		return s, nil
	}

	pub, err := publicKeyOnCurve(params.curve, x, y)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedMethod, err)
	}
	s.pub = pub
	return s, nil
}

func (s *ecdsaSuite) Type() string { return s.vmType }

func (s *ecdsaSuite) Verify(hash []byte, wireSig string) (bool, error) {
	raw, err := decodeWire(wireSig)
	if err != nil {
		return false, err
	}
	if len(raw) != 2*s.size {
		return false, fmt.Errorf("%w: got %d raw bytes, want %d for curve %s",
			ErrMalformedSignature, len(raw), 2*s.size, s.crv)
	}
	der, err := rawToDER(raw)
	if err != nil {
		return false, err
	}

	if s.secpPub != nil {
		sig, err := decredecdsa.ParseDERSignature(der)
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrMalformedSignature, err)
		}
		return sig.Verify(hash, s.secpPub), nil
	}
	return ecdsa.VerifyASN1(s.pub, hash, der), nil
}

func (s *ecdsaSuite) EncodeSignature(native []byte) (string, error) {
	raw, err := derToRaw(native, s.size)
	if err != nil {
		return "", err
	}
	return encodeWire(raw), nil
}

func decodeCoordinate(encoded string, size int) ([]byte, error) {
	if encoded == "" {
		return nil, fmt.Errorf("missing coordinate")
	}
	b, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	if len(b) > size {
		return nil, fmt.Errorf("coordinate is %d bytes, curve allows %d", len(b), size)
	}
	// Left-pad short coordinates; some issuers strip leading zero bytes.
	out := make([]byte, size)
	copy(out[size-len(b):], b)
	return out, nil
}

func publicKeyOnCurve(curve elliptic.Curve, x, y []byte) (*ecdsa.PublicKey, error) {
	pub := &ecdsa.PublicKey{Curve: curve}
	pub.X = new(big.Int).SetBytes(x)
	pub.Y = new(big.Int).SetBytes(y)
	if !curve.IsOnCurve(pub.X, pub.Y) {
		return nil, fmt.Errorf("point is not on curve %s", curve.Params().Name)
	}
	return pub, nil
}
