package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// Delimiters reserved by the .ftree text format. Names and field values
// containing them cannot be written safely.
var reservedDelimiters = []string{":::", "|", "=", "#"}

// ValidatePersonName checks that name can be stored in every tree format.
//
// The rules are deliberately narrow; the serializers themselves do not
// escape anything and trust their input:
//   - No empty names
//   - No control characters
//   - None of the .ftree delimiters (":::", "|", "=", "#")
//   - No ':' in names, which the text format reads as a spouse separator
func ValidatePersonName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidName, "name cannot be empty")
	}
	if err := ValidateFieldValue(name); err != nil {
		return New(ErrCodeInvalidName, "name %q: %s", name, UserMessage(err))
	}
	if strings.Contains(name, ":") {
		return New(ErrCodeInvalidName, "name %q cannot contain ':'", name)
	}
	return nil
}

// ValidateFieldValue checks that a person field value is delimiter-safe.
// Empty values are allowed; they clear the field.
func ValidateFieldValue(value string) error {
	for _, r := range value {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "contains control characters")
		}
	}
	for _, d := range reservedDelimiters {
		if strings.Contains(value, d) {
			return New(ErrCodeInvalidInput, "contains reserved delimiter %q", d)
		}
	}
	return nil
}

// treeNameRegex matches names usable as store keys and file stems.
var treeNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateTreeName validates the name a tree is stored under.
// It rejects names that could be used for path traversal.
func ValidateTreeName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "tree name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidName, "tree name too long (max 128 characters)")
	}
	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidName, "tree name cannot contain path traversal sequences (..)")
	}
	if !treeNameRegex.MatchString(name) {
		return New(ErrCodeInvalidName, "invalid tree name: %q", name)
	}
	return nil
}
