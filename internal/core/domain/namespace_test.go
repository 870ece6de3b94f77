package domain

import (
	"bytes"
	"errors"
	"testing"
)

func TestNamespace_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ns      Namespace
		wantErr bool
	}{
		{"simple", "namespace1", false},
		{"unicode", "имя", false},
		{"empty", "", true},
		{"contains nul", "a\x00b", true},
		{"contains max rune", "a\U0010FFFF", true},
		{"invalid utf8", "\xfe", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ns.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidNamespace) {
				t.Errorf("Validate() error = %v, want ErrInvalidNamespace", err)
			}
		})
	}
}

func TestNamespace_PrefixCoversRecordKeys(t *testing.T) {
	ns := Namespace("ns")

	prefix, err := ns.Prefix()
	if err != nil {
		t.Fatalf("Prefix() error = %v", err)
	}
	key, err := ns.RecordKey("7")
	if err != nil {
		t.Fatalf("RecordKey() error = %v", err)
	}

	if !bytes.HasPrefix(key, prefix) {
		t.Errorf("record key %q does not start with prefix %q", key, prefix)
	}
	if bytes.HasPrefix([]byte("7"), prefix) {
		t.Error("bare key must not match the namespace prefix")
	}
}

func TestNamespacesFromStrings_KeepsOrderAndDuplicates(t *testing.T) {
	got := NamespacesFromStrings([]string{"b", "a", "b"})
	want := []Namespace{"b", "a", "b"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
