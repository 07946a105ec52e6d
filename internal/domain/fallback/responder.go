// Package fallback produces canned assistant replies when the agent cannot be reached.
package fallback

import "strings"

// Rule maps a set of keywords to a reply. A rule matches when any keyword is a
// case-insensitive substring of the input.
type Rule struct {
	Keywords []string
	Reply    string
}

// DefaultReply is returned when no rule matches.
const DefaultReply = "Thanks for your message! I'm a demo AI assistant. In a real implementation, I would generate thoughtful responses based on your queries."

// rules is evaluated in order and the first match wins.
var rules = []Rule{
	{
		Keywords: []string{"hello", "hi"},
		Reply:    "Hello! How can I assist you today?",
	},
	{
		Keywords: []string{"help"},
		Reply:    "I'm here to help! You can ask me about design, development, creative work, or just about anything else.",
	},
	{
		Keywords: []string{"design"},
		Reply:    "I'd be happy to help with design! What kind of design are you working on? UI/UX, graphic design, or something else?",
	},
	{
		Keywords: []string{"code", "react"},
		Reply:    "I can help with code! Do you need help with a specific programming language, framework, or concept?",
	},
}

// Rules returns a copy of the rule table in evaluation order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	for i, r := range rules {
		out[i] = Rule{Keywords: append([]string(nil), r.Keywords...), Reply: r.Reply}
	}
	return out
}

// Respond returns the reply of the first matching rule, or DefaultReply.
// The result depends only on the input.
func Respond(input string) string {
	lower := strings.ToLower(input)
	for _, r := range rules {
		for _, keyword := range r.Keywords {
			if strings.Contains(lower, keyword) {
				return r.Reply
			}
		}
	}
	return DefaultReply
}
