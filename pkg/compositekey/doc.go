// Package compositekey encodes namespaced ledger keys.
//
// Key Format:
//
//   - 0x00 namespace 0x00 (attribute 0x00)*
//
// Every component is terminated by 0x00 and no component may contain
// U+0000 or U+10FFFF, so the zero-attribute key of one namespace is never
// a prefix of another namespace's keys, and bare keys (which do not start
// with 0x00) never fall under any namespace.
package compositekey
