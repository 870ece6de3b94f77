package logger

import (
	"fmt"
	"log/slog"
	"strings"
)

// RecordValueKey is the attribute key for ledger values. Whatever is logged
// under it is replaced by its size, so record contents never reach the logs.
const RecordValueKey = "record_value"

const redactedValue = "***REDACTED***"

// Attribute names containing any of these are redacted. "key" is absent on
// purpose: ledger keys are logged in printable form.
var sensitiveKeyPatterns = []string{"password", "secret", "token", "credential", "auth", "bearer"}

// redactSensitive is the handler's ReplaceAttr hook.
func redactSensitive(a slog.Attr) slog.Attr {
	if a.Key == RecordValueKey {
		return slog.String(a.Key, sizeOf(a.Value.Resolve()))
	}

	if a.Value.Kind() == slog.KindString && a.Value.String() == "" {
		return a
	}

	if IsSensitiveKey(a.Key) {
		return slog.String(a.Key, redactedValue)
	}
	return a
}

func sizeOf(v slog.Value) string {
	n := -1
	switch v.Kind() {
	case slog.KindString:
		n = len(v.String())
	case slog.KindAny:
		if b, ok := v.Any().([]byte); ok {
			n = len(b)
		}
	}
	if n < 0 {
		return redactedValue
	}
	return fmt.Sprintf("<%d bytes>", n)
}

// IsSensitiveKey reports whether an attribute name looks like it holds a
// secret.
func IsSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, p := range sensitiveKeyPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
