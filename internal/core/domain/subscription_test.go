package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompilePattern_Matching(t *testing.T) {
	tests := []struct {
		name       string
		pattern    string
		resourceID string
		matches    bool
	}{
		{
			name:       "placeholder matches one segment",
			pattern:    "eregulations://procedure/{id}",
			resourceID: "eregulations://procedure/123",
			matches:    true,
		},
		{
			name:       "placeholder does not span segments",
			pattern:    "eregulations://procedure/{id}",
			resourceID: "eregulations://procedure/123/steps",
			matches:    false,
		},
		{
			name:       "literal suffix after placeholder",
			pattern:    "eregulations://procedure/{id}/steps",
			resourceID: "eregulations://procedure/123/steps",
			matches:    true,
		},
		{
			name:       "literal suffix requires full match",
			pattern:    "eregulations://procedure/{id}/steps",
			resourceID: "eregulations://procedure/123",
			matches:    false,
		},
		{
			name:       "double star matches any suffix",
			pattern:    "eregulations://institution/{id}/**",
			resourceID: "eregulations://institution/456/details/staff",
			matches:    true,
		},
		{
			name:       "double star matches empty suffix",
			pattern:    "eregulations://procedure/{id}/**",
			resourceID: "eregulations://procedure/123/",
			matches:    true,
		},
		{
			name:       "single star stays within a segment",
			pattern:    "eregulations://procedure/1*",
			resourceID: "eregulations://procedure/123",
			matches:    true,
		},
		{
			name:       "single star does not cross separators",
			pattern:    "eregulations://procedure/*",
			resourceID: "eregulations://procedure/123/steps",
			matches:    false,
		},
		{
			name:       "exact literal",
			pattern:    "eregulations://countries",
			resourceID: "eregulations://countries",
			matches:    true,
		},
		{
			name:       "anchored, not substring",
			pattern:    "procedure/{id}",
			resourceID: "eregulations://procedure/123",
			matches:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re, err := CompilePattern(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.matches, re.MatchString(tt.resourceID))
		})
	}
}

func TestCompilePattern_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
	}{
		{name: "empty pattern", pattern: ""},
		{name: "unclosed brace", pattern: "eregulations://procedure/{id"},
		{name: "unmatched close", pattern: "eregulations://procedure/id}"},
		{name: "empty placeholder", pattern: "eregulations://procedure/{}"},
		{name: "nested braces", pattern: "eregulations://{a{b}}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompilePattern(tt.pattern)
			assert.ErrorIs(t, err, ErrInvalidPattern)
		})
	}
}
