package compositekey

import (
	"bytes"
	"errors"
	"testing"
)

func TestCreate(t *testing.T) {
	tests := []struct {
		name       string
		namespace  string
		attributes []string
		want       []byte
	}{
		{"no attributes", "ns", nil, []byte("\x00ns\x00")},
		{"one attribute", "ns", []string{"7"}, []byte("\x00ns\x007\x00")},
		{"two attributes", "org", []string{"a", "b"}, []byte("\x00org\x00a\x00b\x00")},
		{"empty attribute", "ns", []string{""}, []byte("\x00ns\x00\x00")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Create(tt.namespace, tt.attributes...)
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Create() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCreate_RejectsReservedRunes(t *testing.T) {
	tests := []struct {
		name       string
		namespace  string
		attributes []string
		wantErr    error
	}{
		{"nul in namespace", "a\x00b", nil, ErrReservedRune},
		{"max rune in attribute", "ns", []string{"x\U0010FFFF"}, ErrReservedRune},
		{"invalid utf8", "\xff", nil, ErrInvalidUTF8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Create(tt.namespace, tt.attributes...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Create() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPartialKey_NoOverlapBetweenNamespaces(t *testing.T) {
	prefixA, _ := PartialKey("a")
	prefixAB, _ := PartialKey("ab")

	keyAB, _ := Create("ab", "1")
	keyA, _ := Create("a", "b1")

	if bytes.HasPrefix(keyAB, prefixA) {
		t.Errorf("key %q of namespace ab matched prefix of namespace a", keyAB)
	}
	if bytes.HasPrefix(keyA, prefixAB) {
		t.Errorf("key %q of namespace a matched prefix of namespace ab", keyA)
	}
	if !bytes.HasPrefix(keyA, prefixA) {
		t.Errorf("key %q should match its own namespace prefix", keyA)
	}
}

func TestPartialKey_BareKeyNeverMatches(t *testing.T) {
	prefix, _ := PartialKey("ns")
	for _, bare := range []string{"7", "ns", "ns7", "\x00"} {
		if bytes.HasPrefix([]byte(bare), prefix) {
			t.Errorf("bare key %q matched namespace prefix", bare)
		}
	}
}

func TestSplit(t *testing.T) {
	key, _ := Create("ns", "a", "b")

	ns, attrs, err := Split(key)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if ns != "ns" {
		t.Errorf("namespace = %q, want ns", ns)
	}
	if len(attrs) != 2 || attrs[0] != "a" || attrs[1] != "b" {
		t.Errorf("attributes = %v, want [a b]", attrs)
	}

	if _, _, err := Split([]byte("7")); !errors.Is(err, ErrNotComposite) {
		t.Errorf("Split(bare) error = %v, want ErrNotComposite", err)
	}
}

func TestPrintable(t *testing.T) {
	key, _ := Create("ns", "7")
	if got := Printable(key); got != `"|ns|7|"` {
		t.Errorf("Printable() = %s", got)
	}
	if got := Printable([]byte("7")); got != `"7"` {
		t.Errorf("Printable(bare) = %s", got)
	}
}
