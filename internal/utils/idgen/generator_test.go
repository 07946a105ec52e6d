package idgen

import (
	"strings"
	"testing"
)

func TestGenerateSecureID(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id, err := GenerateSecureID("conv", 24)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(id, "conv_") {
			t.Fatalf("expected conv_ prefix, got %s", id)
		}
		body := strings.TrimPrefix(id, "conv_")
		if len(body) != 24 {
			t.Fatalf("expected 24 characters, got %d", len(body))
		}
		for _, r := range body {
			if !strings.ContainsRune(charset, r) {
				t.Fatalf("unexpected character %q in %s", r, id)
			}
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = struct{}{}
	}
}

func TestPrefixedHelpers(t *testing.T) {
	conv, err := ConversationID()
	if err != nil || !strings.HasPrefix(conv, "conv_") {
		t.Fatalf("ConversationID() = %q, %v", conv, err)
	}
	msg, err := MessageID()
	if err != nil || !strings.HasPrefix(msg, "msg_") {
		t.Fatalf("MessageID() = %q, %v", msg, err)
	}
}
