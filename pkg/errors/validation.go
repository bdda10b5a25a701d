package errors

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxSentenceLength bounds the sentence accepted by the annotate endpoints.
// The annotation service parses a single sentence per request, so anything
// longer is almost certainly a pasted document.
const MaxSentenceLength = 2000

// ValidateSentence validates a raw sentence before it is sent to the
// annotation service.
//
// The validation rules are intentionally conservative:
//   - No empty or whitespace-only sentences
//   - Valid UTF-8
//   - No control characters other than tab
//   - Maximum length of MaxSentenceLength bytes
func ValidateSentence(sentence string) error {
	if strings.TrimSpace(sentence) == "" {
		return New(ErrCodeInvalidInput, "sentence cannot be empty")
	}

	if len(sentence) > MaxSentenceLength {
		return New(ErrCodeInvalidInput, "sentence too long (max %d bytes)", MaxSentenceLength)
	}

	if !utf8.ValidString(sentence) {
		return New(ErrCodeInvalidInput, "sentence is not valid UTF-8")
	}

	for _, r := range sentence {
		if r != '\t' && unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "sentence contains invalid control characters")
		}
	}

	return nil
}

// graphNameRegex matches graph names as they appear in Odin payloads
// (e.g. "universal-basic", "universal-enhanced", "stanford-collapsed").
var graphNameRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_.+-]*$`)

// ValidateGraphName validates the name of an annotation graph.
func ValidateGraphName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "graph name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidInput, "graph name too long (max 64 characters)")
	}
	if !graphNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid graph name: %q", name)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
