package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// DefaultMaxOpaqueBytes bounds the compacted size of a scorecard's opaque blob.
const DefaultMaxOpaqueBytes = 8192

var (
	ErrOpaqueTooLarge = errors.New("opaque payload too large")
	ErrOpaqueInvalid  = errors.New("opaque payload is not valid JSON")
)

// ValidateOpaque checks a client-supplied opaque blob and returns it compacted.
// An empty or null blob is returned as nil.
func ValidateOpaque(raw json.RawMessage, maxBytes int) (json.RawMessage, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	if !json.Valid(raw) {
		return nil, ErrOpaqueInvalid
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpaqueInvalid, err)
	}
	if buf.String() == "null" {
		return nil, nil
	}
	if maxBytes > 0 && buf.Len() > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrOpaqueTooLarge, buf.Len(), maxBytes)
	}
	return json.RawMessage(buf.Bytes()), nil
}
