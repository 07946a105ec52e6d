package mediaid

import (
	"strings"
	"testing"
)

func TestNewIsValidAndOrdered(t *testing.T) {
	prev := ""
	for i := 0; i < 50; i++ {
		id := New()
		if !IsValid(id) {
			t.Fatalf("expected %s to be valid", id)
		}
		if prev != "" && id <= prev {
			t.Fatalf("expected monotonic ids, %s <= %s", id, prev)
		}
		prev = id
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		ext    string
		suffix string
	}{
		{ext: ".PNG", suffix: ".png"},
		{ext: "mp4", suffix: ".mp4"},
		{ext: "", suffix: ""},
	}
	for _, tt := range tests {
		key := Key(tt.ext)
		if !strings.HasSuffix(key, tt.suffix) {
			t.Fatalf("Key(%q) = %s, want suffix %q", tt.ext, key, tt.suffix)
		}
		if !IsValidKey(key) {
			t.Fatalf("Key(%q) = %s should be a valid key", tt.ext, key)
		}
	}
}

func TestIsValidKeyRejectsTraversal(t *testing.T) {
	for _, key := range []string{"", "../etc/passwd", "upl_x/..", "notes.txt", `a\b`} {
		if IsValidKey(key) {
			t.Fatalf("expected %q to be rejected", key)
		}
	}
}
