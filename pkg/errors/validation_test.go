package errors

import (
	"strings"
	"testing"
)

func TestValidateSentence(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "The quick brown fox jumped over the lazy dog.", false},
		{"tab", "The\tdog runs", false},
		{"unicode", "Der Hund läuft.", false},

		{"empty", "", true},
		{"whitespace", "   \n ", true},
		{"control char", "The dog\x00 runs", true},
		{"invalid utf8", "The dog \xff runs", true},
		{"too long", strings.Repeat("a", MaxSentenceLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSentence(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSentence(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateSentence(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateGraphName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"basic", "universal-basic", false},
		{"enhanced", "universal-enhanced", false},
		{"plus", "universal-plus", false},
		{"dotted", "ud2.enhanced", false},

		{"empty", "", true},
		{"leading digit", "2basic", true},
		{"space", "universal basic", true},
		{"slash", "universal/basic", true},
		{"too long", strings.Repeat("g", 65), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGraphName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGraphName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
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
		{"https", "https://example.com/path", false},
		{"http", "http://localhost:5000", false},

		{"empty", "", true},
		{"ftp", "ftp://example.com", true},
		{"file", "file:///etc/passwd", true},
		{"javascript", "javascript:alert(1)", true},
		{"no scheme", "example.com", true},
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

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidFormat,
		ErrCodeInvalidGraph,
		ErrCodeInvalidMode,
		ErrCodeInvalidConfig,
		ErrCodeNotFound,
		ErrCodeNetwork,
		ErrCodeTimeout,
		ErrCodeInternal,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}

func TestValidateStruct(t *testing.T) {
	type request struct {
		Mode  string `validate:"omitempty,oneof=auto index text"`
		Graph string `validate:"required"`
		Count int    `validate:"min=1"`
	}

	tests := []struct {
		name    string
		req     request
		wantErr string
	}{
		{"valid", request{Mode: "index", Graph: "g", Count: 1}, ""},
		{"empty mode", request{Graph: "g", Count: 1}, ""},
		{"bad mode", request{Mode: "fuzzy", Graph: "g", Count: 1}, "request.Mode: must be one of: auto index text"},
		{"missing graph", request{Count: 1}, "request.Graph: field is required"},
		{"count", request{Graph: "g"}, "request.Count: must be at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.req)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateStruct() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("ValidateStruct() expected error")
			}
			if GetCode(err) != ErrCodeInvalidInput {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidInput)
			}
			if got := UserMessage(err); got != tt.wantErr {
				t.Errorf("message = %q, want %q", got, tt.wantErr)
			}
		})
	}
}

func TestValidateConfig(t *testing.T) {
	type section struct {
		URL string `validate:"required,url"`
	}
	err := ValidateConfig(section{URL: "not a url"})
	if GetCode(err) != ErrCodeInvalidConfig {
		t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidConfig)
	}
}
