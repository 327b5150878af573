package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Subscription associates a resource pattern with one client.
// At most one subscription exists per (pattern, client) pair.
type Subscription struct {
	Pattern      string
	ClientID     string
	CreatedAt    time.Time
	LastNotified time.Time
}

// placeholderExpr matches a {name} placeholder after QuoteMeta escaping.
var placeholderExpr = regexp.MustCompile(`\\\{[^{}]+\\\}`)

// CompilePattern translates a resource pattern into an anchored matcher.
// Wildcard forms:
//
//	{name}  one non-separator segment   ([^/]+)
//	**      any suffix, separators too  (.*)
//	*       zero or more non-separator characters ([^/]*)
//
// The compiled expression matches a resource identifier in its entirety,
// never as a substring. Unbalanced or empty braces are rejected.
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, fmt.Errorf("%w: empty pattern", ErrInvalidPattern)
	}
	if err := checkBraces(pattern); err != nil {
		return nil, err
	}

	expr := regexp.QuoteMeta(pattern)
	expr = placeholderExpr.ReplaceAllString(expr, `[^/]+`)
	expr = strings.ReplaceAll(expr, `\*\*`, `.*`)
	expr = strings.ReplaceAll(expr, `\*`, `[^/]*`)

	re, err := regexp.Compile("^" + expr + "$")
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
	}
	return re, nil
}

// checkBraces validates {name} placeholder syntax: braces must pair up,
// must not nest, and must enclose at least one character.
func checkBraces(pattern string) error {
	depth := 0
	start := -1
	for i, r := range pattern {
		switch r {
		case '{':
			if depth > 0 {
				return fmt.Errorf("%w: nested '{' at position %d", ErrInvalidPattern, i)
			}
			depth++
			start = i
		case '}':
			if depth == 0 {
				return fmt.Errorf("%w: unmatched '}' at position %d", ErrInvalidPattern, i)
			}
			if i == start+1 {
				return fmt.Errorf("%w: empty placeholder at position %d", ErrInvalidPattern, start)
			}
			depth--
		}
	}
	if depth != 0 {
		return fmt.Errorf("%w: unclosed '{'", ErrInvalidPattern)
	}
	return nil
}
