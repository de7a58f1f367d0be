package logger

import (
	"strings"
	"testing"
)

func TestSanitizeKVsHashesDeviceIDs(t *testing.T) {
	out := sanitizeKVs([]interface{}{"device_id", "abc-123", "aspect", "career", "postgres_password", "pw"})
	if len(out) != 6 {
		t.Fatalf("expected 6 entries, got %d", len(out))
	}
	hashed, _ := out[1].(string)
	if !strings.HasPrefix(hashed, "hash:") || strings.Contains(hashed, "abc-123") {
		t.Fatalf("device_id not hashed: %v", out[1])
	}
	if out[3] != "career" {
		t.Fatalf("aspect should pass through, got %v", out[3])
	}
	if out[5] != "[REDACTED]" {
		t.Fatalf("password should be redacted, got %v", out[5])
	}
}

func TestSanitizeKVsOddLength(t *testing.T) {
	out := sanitizeKVs([]interface{}{"aspect", "social", "dangling"})
	if len(out) != 3 || out[2] != "dangling" {
		t.Fatalf("unexpected output: %v", out)
	}
}

func TestHashValueIsStable(t *testing.T) {
	a := hashValue("device-1")
	b := hashValue("device-1")
	if a != b {
		t.Fatalf("hash not stable: %s vs %s", a, b)
	}
	if hashValue("") != "" {
		t.Fatalf("empty value should hash to empty string")
	}
}
