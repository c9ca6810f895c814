package errors

import (
	"testing"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		id      int64
		wantErr bool
	}{
		{"positive", 7, false},
		{"one", 1, false},

		{"zero", 0, true},
		{"negative", -3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID("room", tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%d) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidID) {
				t.Errorf("ValidateID(%d) code = %v, want %v", tt.id, GetCode(err), ErrCodeInvalidID)
			}
		})
	}
}

func TestValidateFloorNumber(t *testing.T) {
	tests := []struct {
		name    string
		input   int
		wantErr bool
	}{
		{"ground floor", 0, false},
		{"second floor", 2, false},
		{"negative", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFloorNumber(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFloorNumber(%d) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"http", "http://localhost:8080/api", false},
		{"https", "https://seats.example.com/api", false},

		{"empty", "", true},
		{"no scheme", "localhost:8080/api", true},
		{"ftp", "ftp://example.com", true},
		{"no host", "http://", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
