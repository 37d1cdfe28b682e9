package suite

import (
	"encoding/asn1"
	"encoding/base64"
	"fmt"
	"math/big"
)

// The protocol wire form for every signature is base64url without
// padding. ECDSA signatures are additionally converted between the DER
// form the signing primitives speak and the fixed-width R||S form that
// goes on the wire; the total raw length is always twice the curve's
// coordinate byte length, never a protocol-wide constant.

type derSignature struct {
	R, S *big.Int
}

func encodeWire(raw []byte) string {
	return base64.RawURLEncoding.EncodeToString(raw)
}

func decodeWire(wireSig string) ([]byte, error) {
	raw, err := base64.RawURLEncoding.DecodeString(wireSig)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSignature, err)
	}
	return raw, nil
}

// derToRaw converts a DER-encoded ECDSA signature into fixed-width R||S,
// each half padded to coordinateSize bytes.
func derToRaw(der []byte, coordinateSize int) ([]byte, error) {
	var sig derSignature
	rest, err := asn1.Unmarshal(der, &sig)
	if err != nil {
		return nil, fmt.Errorf("decode DER signature: %w", err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("decode DER signature: %d trailing bytes", len(rest))
	}
	if sig.R.Sign() <= 0 || sig.S.Sign() <= 0 {
		return nil, fmt.Errorf("decode DER signature: non-positive component")
	}
	if sig.R.BitLen() > coordinateSize*8 || sig.S.BitLen() > coordinateSize*8 {
		return nil, fmt.Errorf("decode DER signature: component exceeds %d bytes", coordinateSize)
	}

	raw := make([]byte, 2*coordinateSize)
	sig.R.FillBytes(raw[:coordinateSize])
	sig.S.FillBytes(raw[coordinateSize:])
	return raw, nil
}

// rawToDER rebuilds the DER encoding from fixed-width R||S so the
// signature can be handed to a verification primitive that expects DER.
// The buffer is split exactly in half; an odd length is malformed.
func rawToDER(raw []byte) ([]byte, error) {
	if len(raw) == 0 || len(raw)%2 != 0 {
		return nil, fmt.Errorf("%w: raw signature length %d", ErrMalformedSignature, len(raw))
	}
	half := len(raw) / 2
	sig := derSignature{
		R: new(big.Int).SetBytes(raw[:half]),
		S: new(big.Int).SetBytes(raw[half:]),
	}
	der, err := asn1.Marshal(sig)
	if err != nil {
		return nil, fmt.Errorf("encode DER signature: %w", err)
	}
	return der, nil
}
