package command

import "strings"

// maxSuggestions caps the autocomplete list.
const maxSuggestions = 5

// catalog is the fixed set of example commands offered for
// autocomplete. Kept short on purpose: these are starting points, not
// an exhaustive grammar.
var catalog = []string{
	"/mcp help",
	"/mcp test jailbreak",
	"/mcp test bias",
	"/mcp test privacy",
	"/mcp dataset list",
	"/mcp dataset load harmbench",
	"/mcp enhance",
	"/mcp analyze",
	"/mcp list tools",
	"/mcp list prompts",
	"/mcp list datasets",
	"/mcp resources",
	"/mcp resources read violentutf://datasets/harmbench",
	"/mcp prompt jailbreak_test",
	"/mcp doc getting-started",
	"/mcp search prompt injection",
}

// Suggest returns up to maxSuggestions catalog entries matching the
// partial input: prefix matches first, then substring matches.
// Deterministic for identical input.
func Suggest(partial string) []string {
	needle := strings.ToLower(strings.TrimSpace(partial))
	if needle == "" {
		return nil
	}

	var out []string
	for _, c := range catalog {
		if strings.HasPrefix(strings.ToLower(c), needle) {
			out = append(out, c)
			if len(out) == maxSuggestions {
				return out
			}
		}
	}
	for _, c := range catalog {
		if strings.HasPrefix(strings.ToLower(c), needle) {
			continue
		}
		if strings.Contains(strings.ToLower(c), needle) {
			out = append(out, c)
			if len(out) == maxSuggestions {
				return out
			}
		}
	}
	return out
}
