package entity

import (
	"errors"
	"strings"
	"testing"
)

func TestParseSection_Accepts(t *testing.T) {
	tests := []string{
		"business",
		"uk-news",
		"a",
		"-",
		"---",
		"world-",
		"-world",
		strings.Repeat("long", 200),
	}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			got, err := ParseSection(raw)
			if err != nil {
				t.Fatalf("ParseSection(%q) error = %v, want nil", raw, err)
			}
			if got.String() != raw {
				t.Errorf("ParseSection(%q) = %q, want %q", raw, got, raw)
			}
		})
	}
}

func TestParseSection_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "uppercase", raw: "Business"},
		{name: "all caps with punctuation", raw: "MOVIES!"},
		{name: "digits", raw: "section1"},
		{name: "whitespace", raw: "uk news"},
		{name: "trailing newline", raw: "business\n"},
		{name: "slash", raw: "uk/news"},
		{name: "path traversal", raw: "../etc/passwd"},
		{name: "dot", raw: "business."},
		{name: "percent encoded", raw: "uk%2Fnews"},
		{name: "underscore", raw: "uk_news"},
		{name: "query", raw: "business?api-key=x"},
		{name: "unicode letter", raw: "économie"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSection(tt.raw)
			if err == nil {
				t.Fatalf("ParseSection(%q) = %q, want error", tt.raw, got)
			}
			if !errors.Is(err, ErrInvalidSection) {
				t.Errorf("errors.Is(err, ErrInvalidSection) = false, err = %v", err)
			}

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if vErr.Field != "section" {
				t.Errorf("Field = %q, want %q", vErr.Field, "section")
			}
		})
	}
}

func TestSection_Title(t *testing.T) {
	tests := []struct {
		in   Section
		want string
	}{
		{in: "business", want: "Business"},
		{in: "uk-news", want: "Uk-news"},
		{in: "-world", want: "-world"},
		{in: "a", want: "A"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		if got := tt.in.Title(); got != tt.want {
			t.Errorf("Section(%q).Title() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidationError_Unwrap(t *testing.T) {
	err := &ValidationError{Field: "x", Message: "bad"}
	if !errors.Is(err, ErrValidationFailed) {
		t.Error("ValidationError without Err should unwrap to ErrValidationFailed")
	}
	if got := err.Error(); got != "validation error on field 'x': bad" {
		t.Errorf("Error() = %q", got)
	}
}
