package entity

import (
	"regexp"
	"strings"
)

// sectionPattern is the only accepted shape of a section name. The value is later
// interpolated into a cache key and into the upstream URL path, so nothing else
// (digits, slashes, dots, percent signs, whitespace) may pass.
var sectionPattern = regexp.MustCompile(`^[a-z-]+$`)

// Section is a validated content section identifier such as "business" or "uk-news".
// Values are obtained through ParseSection.
type Section string

// ParseSection validates raw and returns it as a Section.
// Returns a *ValidationError wrapping ErrInvalidSection when raw is rejected.
func ParseSection(raw string) (Section, error) {
	if !sectionPattern.MatchString(raw) {
		return "", &ValidationError{
			Field:   "section",
			Message: "section must contain only lowercase letters and hyphens",
			Err:     ErrInvalidSection,
		}
	}
	return Section(raw), nil
}

// String returns the section name.
func (s Section) String() string {
	return string(s)
}

// Title returns the section name with its first character upper-cased.
// Only the first byte changes: "uk-news" becomes "Uk-news".
func (s Section) Title() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}
