package session

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestValidateOpaque(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{"empty", "", "", nil},
		{"null", "null", "", nil},
		{"object compacted", `{ "a": 1,  "b": [1, 2] }`, `{"a":1,"b":[1,2]}`, nil},
		{"invalid", `{"a":`, "", ErrOpaqueInvalid},
		{"too large", `"` + strings.Repeat("x", DefaultMaxOpaqueBytes) + `"`, "", ErrOpaqueTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateOpaque(json.RawMessage(tt.raw), DefaultMaxOpaqueBytes)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestValidateOpaqueAtLimit(t *testing.T) {
	raw := `"` + strings.Repeat("x", DefaultMaxOpaqueBytes-2) + `"`
	if _, err := ValidateOpaque(json.RawMessage(raw), DefaultMaxOpaqueBytes); err != nil {
		t.Errorf("Payload at exactly the limit should pass, got %v", err)
	}
}
