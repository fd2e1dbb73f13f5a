// Package slug derives and validates the URL identifier of a page.
package slug

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalid is returned for an explicit URL containing anything other than
// ASCII letters, digits and hyphens.
var ErrInvalid = errors.New("url may only contain letters, digits and hyphens")

var (
	validPattern = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)

	// \s is ASCII-only in RE2; Unicode White_Space is spelled out.
	whitespace = regexp.MustCompile(`[\s\v\x{85}\p{Z}]+`)
	disallowed = regexp.MustCompile(`[^a-zA-Z0-9-]+`)
	hyphens    = regexp.MustCompile(`-+`)
)

// IsValid reports whether url is a non-empty run of ASCII letters, digits and hyphens.
func IsValid(url string) bool {
	return validPattern.MatchString(url)
}

// Derive turns a title into a lower-case slug. Whitespace runs become a single
// hyphen, other characters outside [a-zA-Z0-9-] are dropped, hyphen runs
// collapse and edge hyphens are trimmed. The result is empty when the title
// has no ASCII letters or digits.
func Derive(title string) string {
	s := whitespace.ReplaceAllString(title, "-")
	s = disallowed.ReplaceAllString(s, "")
	s = hyphens.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	return strings.ToLower(s)
}

// Resolve returns explicitURL unchanged when it is set and valid, otherwise
// the slug derived from title. Uniqueness is the caller's concern.
func Resolve(title, explicitURL string) (string, error) {
	if explicitURL != "" {
		if !IsValid(explicitURL) {
			return "", ErrInvalid
		}
		return explicitURL, nil
	}

	return Derive(title), nil
}
