package errors

import (
	"strings"
	"testing"
)

func TestValidatePersonName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "Ada", false},
		{"with spaces", "Ada King", false},
		{"unicode", "Åse Ødegård", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"triple colon", "A:::B", true},
		{"single colon", "A:B", true},
		{"pipe", "A|B", true},
		{"equals", "A=B", true},
		{"hash", "A#", true},
		{"newline", "A\nB", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePersonName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePersonName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidName) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidName)
			}
		})
	}
}

func TestValidateFieldValue(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty clears", "", false},
		{"date", "1815-12-10", false},
		{"url", "https://example.com/a.png", false},
		{"colon allowed", "10:30", false},

		{"pipe", "a|b", true},
		{"hash", "#1", true},
		{"equals", "a=b", true},
		{"tab", "a\tb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFieldValue(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFieldValue(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTreeName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "lovelace", false},
		{"with dash", "king-family", false},
		{"with dot", "v1.2", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 129), true},
		{"traversal", "a..b", true},
		{"slash", "a/b", true},
		{"leading dot", ".hidden", true},
		{"space", "my tree", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTreeName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTreeName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
