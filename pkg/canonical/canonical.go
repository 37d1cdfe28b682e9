// Package canonical produces the deterministic byte serialization that
// both sides of a DID-WBA exchange hash and sign. Independent
// implementations must agree on these bytes exactly, so any formatting
// divergence here is a correctness bug, not a style choice.
package canonical

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Marshal serializes a JSON-like value into its canonical byte form.
//
// The canonical form is what both sides of a DID-WBA exchange hash and
// sign, so it must be identical across independent implementations:
// object keys are sorted byte-wise ascending, no whitespace is inserted,
// strings use standard JSON escaping without HTML escaping, and numbers
// use their minimal decimal text form.
func Marshal(v interface{}) ([]byte, error) {
	return appendValue(nil, v)
}

// Hash returns the SHA-256 digest of the canonical form of v. The digest,
// not the canonical bytes, is what gets signed in the protocol.
func Hash(v interface{}) ([]byte, error) {
	b, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(b)
	return sum[:], nil
}

func appendValue(buf []byte, v interface{}) ([]byte, error) {
	switch val := v.(type) {
	case nil:
		return append(buf, "null"...), nil
	case bool:
		if val {
			return append(buf, "true"...), nil
		}
		return append(buf, "false"...), nil
	case string:
		return appendString(buf, val), nil
	case json.Number:
		// json.Number preserves the source text, which is already minimal
		// when it came off the wire.
		return append(buf, val.String()...), nil
	case int:
		return strconv.AppendInt(buf, int64(val), 10), nil
	case int8:
		return strconv.AppendInt(buf, int64(val), 10), nil
	case int16:
		return strconv.AppendInt(buf, int64(val), 10), nil
	case int32:
		return strconv.AppendInt(buf, int64(val), 10), nil
	case int64:
		return strconv.AppendInt(buf, val, 10), nil
	case uint:
		return strconv.AppendUint(buf, uint64(val), 10), nil
	case uint8:
		return strconv.AppendUint(buf, uint64(val), 10), nil
	case uint16:
		return strconv.AppendUint(buf, uint64(val), 10), nil
	case uint32:
		return strconv.AppendUint(buf, uint64(val), 10), nil
	case uint64:
		return strconv.AppendUint(buf, val, 10), nil
	case float32:
		return appendFloat(buf, float64(val))
	case float64:
		return appendFloat(buf, val)
	case []interface{}:
		return appendArray(buf, val)
	case map[string]interface{}:
		return appendObject(buf, val)
	default:
		// Structs and other marshalable values are normalized through
		// encoding/json first, keeping numbers as json.Number so integer
		// text survives the round trip.
		return appendReflected(buf, v)
	}
}

func appendArray(buf []byte, arr []interface{}) ([]byte, error) {
	buf = append(buf, '[')
	for i, elem := range arr {
		if i > 0 {
			buf = append(buf, ',')
		}
		var err error
		buf, err = appendValue(buf, elem)
		if err != nil {
			return nil, err
		}
	}
	return append(buf, ']'), nil
}

func appendObject(buf []byte, obj map[string]interface{}) ([]byte, error) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	// sort.Strings compares byte-wise, never locale-aware.
	sort.Strings(keys)

	buf = append(buf, '{')
	for i, k := range keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = appendString(buf, k)
		buf = append(buf, ':')
		var err error
		buf, err = appendValue(buf, obj[k])
		if err != nil {
			return nil, err
		}
	}
	return append(buf, '}'), nil
}

func appendReflected(buf []byte, v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("canonicalize: %w", err)
	}
	var normalized interface{}
	if err := unmarshalWithNumbers(raw, &normalized); err != nil {
		return nil, fmt.Errorf("canonicalize: %w", err)
	}
	return appendValue(buf, normalized)
}

func unmarshalWithNumbers(raw []byte, out *interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(out)
}

func appendFloat(buf []byte, f float64) ([]byte, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("canonicalize: unsupported float value %v", f)
	}
	// Shortest round-trip representation; exponent notation only outside
	// the range encoding/json renders in plain decimal.
	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	return strconv.AppendFloat(buf, f, format, -1, 64), nil
}

const hexDigits = "0123456789abcdef"

// appendString writes s as a JSON string literal. Unlike encoding/json it
// never escapes <, > or & since HTML safety has no meaning for signed
// payload bytes and would break cross-implementation agreement.
func appendString(buf []byte, s string) []byte {
	buf = append(buf, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			buf = append(buf, '\\', '"')
		case c == '\\':
			buf = append(buf, '\\', '\\')
		case c == '\n':
			buf = append(buf, '\\', 'n')
		case c == '\r':
			buf = append(buf, '\\', 'r')
		case c == '\t':
			buf = append(buf, '\\', 't')
		case c == '\b':
			buf = append(buf, '\\', 'b')
		case c == '\f':
			buf = append(buf, '\\', 'f')
		case c < 0x20:
			buf = append(buf, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xF])
		default:
			// UTF-8 bytes pass through verbatim, including multi-byte runes.
			buf = append(buf, c)
		}
	}
	return append(buf, '"')
}
