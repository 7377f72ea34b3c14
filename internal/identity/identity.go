// internal/identity/identity.go
// Package identity derives a submitter's name from a submission filename.
package identity

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Separator splits the first name from the last name in a submission filename.
const Separator = "_"

// ErrMalformedFilename is returned when a filename does not decompose into
// exactly two non-empty name components.
var ErrMalformedFilename = errors.New("malformed submission filename")

// Identity is the submitter derived from a filename such as "ada_lovelace.c".
type Identity struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// String returns "First Last".
func (i Identity) String() string {
	return i.FirstName + " " + i.LastName
}

// Parse returns the capitalized identity encoded in filename. Only the base
// name is considered and a single trailing extension is stripped.
func Parse(filename string) (Identity, error) {
	base := filepath.Base(filename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	parts := strings.Split(stem, Separator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Identity{}, fmt.Errorf("%w: %q", ErrMalformedFilename, base)
	}

	return Identity{
		FirstName: Capitalize(parts[0]),
		LastName:  Capitalize(parts[1]),
	}, nil
}

// Capitalize upper-cases the first rune of s and leaves the rest unchanged.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
