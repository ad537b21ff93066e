package sanitizex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanSingleLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "trims", input: "  Alice  ", expected: "Alice"},
		{name: "collapses inner whitespace", input: "Mary \t\n  Jane", expected: "Mary Jane"},
		{name: "control characters become spaces", input: "Ali\x00ce", expected: "Ali ce"},
		{name: "delete character", input: "Lee\u007f", expected: "Lee"},
		{name: "nfc normalization", input: "Jose\u0301", expected: "Jos\u00e9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, CleanSingleLine(tt.input))
		})
	}
}

func TestCleanMultiline(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "first line\nsecond\tline", CleanMultiline("  first line  \r\n second\tline\x07 \n"))
	assert.Equal(t, "", CleanMultiline(""))
}

func TestCleanIdentifier(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "alice@example.com", CleanIdentifier("  Alice@Example.COM "))
	assert.Equal(t, "john_doe", CleanIdentifier("John_ Doe"))
}
