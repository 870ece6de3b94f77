// Package compositekey encodes namespaced ledger keys.
package compositekey

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"
)

const (
	// Delimiter starts a composite key and terminates every component.
	Delimiter byte = 0x00

	minUnicodeRune = rune(0x0000)
	maxUnicodeRune = utf8.MaxRune
)

var (
	// ErrInvalidUTF8 is returned for components that are not valid UTF-8.
	ErrInvalidUTF8 = errors.New("compositekey: component is not valid utf-8")

	// ErrReservedRune is returned for components containing U+0000 or U+10FFFF.
	ErrReservedRune = errors.New("compositekey: component contains a reserved code point")

	// ErrNotComposite is returned by Split for keys outside the composite keyspace.
	ErrNotComposite = errors.New("compositekey: key is not a composite key")
)

// Validate checks that s can be used as a key component.
func Validate(s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: %q", ErrInvalidUTF8, s)
	}
	for i, r := range s {
		if r == minUnicodeRune || r == maxUnicodeRune {
			return fmt.Errorf("%w: %U at offset %d", ErrReservedRune, r, i)
		}
	}
	return nil
}

// Create builds the full composite key for namespace and attributes.
func Create(namespace string, attributes ...string) ([]byte, error) {
	if err := Validate(namespace); err != nil {
		return nil, err
	}

	size := 2 + len(namespace)
	for _, attr := range attributes {
		if err := Validate(attr); err != nil {
			return nil, err
		}
		size += len(attr) + 1
	}

	key := make([]byte, 0, size)
	key = append(key, Delimiter)
	key = append(key, namespace...)
	key = append(key, Delimiter)
	for _, attr := range attributes {
		key = append(key, attr...)
		key = append(key, Delimiter)
	}
	return key, nil
}

// PartialKey builds the prefix that matches every key created from
// namespace and the leading attributes. With no attributes it matches
// every record under the namespace.
func PartialKey(namespace string, attributes ...string) ([]byte, error) {
	return Create(namespace, attributes...)
}

// Split decodes a composite key into its namespace and attributes.
func Split(key []byte) (string, []string, error) {
	if len(key) < 2 || key[0] != Delimiter || key[len(key)-1] != Delimiter {
		return "", nil, ErrNotComposite
	}

	parts := bytes.Split(key[1:len(key)-1], []byte{Delimiter})
	namespace := string(parts[0])
	attributes := make([]string, 0, len(parts)-1)
	for _, p := range parts[1:] {
		attributes = append(attributes, string(p))
	}
	return namespace, attributes, nil
}

// IsComposite reports whether key lives in the composite keyspace.
func IsComposite(key []byte) bool {
	return len(key) > 0 && key[0] == Delimiter
}

// Printable renders a key for logs and CLI output.
func Printable(key []byte) string {
	if !IsComposite(key) {
		return strconv.Quote(string(key))
	}
	return strconv.Quote(string(bytes.ReplaceAll(key, []byte{Delimiter}, []byte{'|'})))
}
