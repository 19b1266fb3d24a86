// Package aspect implements the typed metadata model for scopes.
//
// An aspect is a user-defined key/value pair attached to a scope. Values
// are stored as validated free text; numeric, boolean, and duration
// interpretations are inferred per comparison rather than carried as a
// stored type tag, so the same text can participate in differently typed
// comparisons without a schema lookup.
package aspect

import "fmt"

// MaxKeyLength is the maximum number of characters in an aspect key.
const MaxKeyLength = 50

// Key is a validated aspect identifier. The zero value is invalid;
// construct one via NewKey.
type Key struct {
	value string
}

// NewKey validates s as an aspect key: 1-50 characters, starting with a
// letter, the rest letters, digits, hyphen, or underscore.
func NewKey(s string) (Key, error) {
	if len(s) == 0 {
		return Key{}, fmt.Errorf("aspect key must not be empty")
	}
	if len(s) > MaxKeyLength {
		return Key{}, fmt.Errorf("aspect key %q exceeds %d characters", s, MaxKeyLength)
	}
	if !isLetter(s[0]) {
		return Key{}, fmt.Errorf("aspect key %q must start with a letter", s)
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !isLetter(c) && !isDigit(c) && c != '-' && c != '_' {
			return Key{}, fmt.Errorf("aspect key %q contains invalid character %q", s, c)
		}
	}
	return Key{value: s}, nil
}

// String returns the key text.
func (k Key) String() string { return k.value }

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
