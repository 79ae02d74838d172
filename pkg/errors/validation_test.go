package errors

import "testing"

func TestValidateAttributeName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "Style", false},
		{"valid lowercase", "color", false},
		{"valid with space", "Icon Size", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 100)), true},
		{"pipe", "Style|Color", true},
		{"control char", "Style\x01", true},
		{"newline", "Style\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAttributeName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAttributeName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
