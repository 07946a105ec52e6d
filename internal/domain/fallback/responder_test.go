package fallback_test

import (
	"testing"

	"chat-relay/internal/domain/fallback"
)

func TestRespond(t *testing.T) {
	greeting := fallback.Rules()[0].Reply
	help := fallback.Rules()[1].Reply
	design := fallback.Rules()[2].Reply
	code := fallback.Rules()[3].Reply

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "greeting", input: "Hello there", want: greeting},
		{name: "short greeting", input: "hi", want: greeting},
		{name: "help", input: "I need HELP", want: help},
		{name: "design", input: "Review my DESIGN please", want: design},
		{name: "code", input: "Can you review my code?", want: code},
		{name: "react", input: "React question", want: code},
		{name: "first match wins", input: "hello, I need help with code", want: greeting},
		{name: "substring match", input: "this", want: greeting},
		{name: "no match", input: "xyz", want: fallback.DefaultReply},
		{name: "empty", input: "", want: fallback.DefaultReply},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fallback.Respond(tt.input); got != tt.want {
				t.Fatalf("Respond(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRespondIsDeterministic(t *testing.T) {
	for _, input := range []string{"hello", "design systems", "xyz"} {
		first := fallback.Respond(input)
		for i := 0; i < 10; i++ {
			if got := fallback.Respond(input); got != first {
				t.Fatalf("Respond(%q) changed between calls", input)
			}
		}
	}
}

func TestRulesReturnsCopy(t *testing.T) {
	rules := fallback.Rules()
	rules[0].Reply = "changed"
	rules[0].Keywords[0] = "changed"

	if fallback.Respond("hello") == "changed" {
		t.Fatal("mutating Rules() result must not affect Respond")
	}
}
