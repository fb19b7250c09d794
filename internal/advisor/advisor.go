// Package advisor scans conversation text for cues that a follow-up
// protocol operation would be useful and suggests one. Suggestions
// are advisory only: the host renders them, the operator decides.
package advisor

import (
	"sort"
	"strings"
)

// maxSuggestions caps the advice returned per analysis.
const maxSuggestions = 3

// Suggestion recommends one follow-up command with a human-readable
// reason. Lower Priority sorts first.
type Suggestion struct {
	Command  string
	Reason   string
	Priority int
}

type trigger struct {
	keywords   []string
	suggestion Suggestion
}

// triggers maps keyword sets to suggestions. Scanned in order against
// lowercased text; priorities decide the final ranking when several
// fire at once.
var triggers = []trigger{
	{
		keywords: []string{"jailbreak", "bypass", "ignore previous", "ignore all instructions", "dan mode"},
		suggestion: Suggestion{
			Command:  "/mcp test jailbreak",
			Reason:   "The conversation mentions jailbreak techniques",
			Priority: 1,
		},
	},
	{
		keywords: []string{"bias", "stereotype", "discriminat", "fairness"},
		suggestion: Suggestion{
			Command:  "/mcp test bias",
			Reason:   "The conversation touches on bias or fairness",
			Priority: 2,
		},
	},
	{
		keywords: []string{"privacy", "pii", "personal data", "credit card", "ssn"},
		suggestion: Suggestion{
			Command:  "/mcp test privacy",
			Reason:   "The conversation references personal or sensitive data",
			Priority: 2,
		},
	},
	{
		keywords: []string{"dataset", "test cases", "corpus", "benchmark"},
		suggestion: Suggestion{
			Command:  "/mcp dataset list",
			Reason:   "A test dataset could apply here",
			Priority: 3,
		},
	},
	{
		keywords: []string{"improve", "enhance", "rewrite", "better prompt"},
		suggestion: Suggestion{
			Command:  "/mcp enhance",
			Reason:   "The prompt could be enhanced before testing",
			Priority: 4,
		},
	},
	{
		keywords: []string{"vulnerab", "attack surface", "weakness", "exploit"},
		suggestion: Suggestion{
			Command:  "/mcp analyze",
			Reason:   "An analysis pass could surface weaknesses",
			Priority: 4,
		},
	},
}

// Analyze scans one piece of text and returns at most maxSuggestions
// suggestions sorted by priority. Duplicate commands are collapsed.
func Analyze(text string) []Suggestion {
	lower := strings.ToLower(text)

	var out []Suggestion
	seen := map[string]bool{}
	for _, t := range triggers {
		if seen[t.suggestion.Command] {
			continue
		}
		for _, kw := range t.keywords {
			if strings.Contains(lower, kw) {
				out = append(out, t.suggestion)
				seen[t.suggestion.Command] = true
				break
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

// AnalyzeConversation scans the most recent messages of a
// conversation as one unit. Older history is ignored: stale cues
// should not keep resurfacing the same advice.
func AnalyzeConversation(messages []string) []Suggestion {
	const window = 5
	if len(messages) > window {
		messages = messages[len(messages)-window:]
	}
	return Analyze(strings.Join(messages, "\n"))
}
