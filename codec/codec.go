// Package codec centralizes wire and cache encoding.
//
// Codecs encode API payloads. PackPrimes/UnpackPrimes define the compact
// binary form of a prime list stored in the result cache.
package codec

import "strings"

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name, ignoring case.
func ByName(name string) (Codec, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}
