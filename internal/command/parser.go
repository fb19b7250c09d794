// Package command maps free-text operator input to structured command
// intents. Parsing is a single deterministic pass over an ordered
// rule table: first match wins, and the table order is an explicit
// priority list, not an accident of construction.
package command

import (
	"regexp"
	"strings"
)

// Type classifies a parsed command.
type Type int

const (
	Unknown Type = iota
	Help
	Test
	Dataset
	Enhance
	Analyze
	List
	Resources
	Prompt
	Documentation
	Search
)

func (t Type) String() string {
	switch t {
	case Help:
		return "help"
	case Test:
		return "test"
	case Dataset:
		return "dataset"
	case Enhance:
		return "enhance"
	case Analyze:
		return "analyze"
	case List:
		return "list"
	case Resources:
		return "resources"
	case Prompt:
		return "prompt"
	case Documentation:
		return "documentation"
	case Search:
		return "search"
	}
	return "unknown"
}

// Parsed is the result of one parse call. Created fresh per call and
// never mutated afterwards.
type Parsed struct {
	Type       Type
	Subcommand string
	Arguments  map[string]string
	Raw        string
}

type rule struct {
	typ     Type
	pattern *regexp.Regexp
}

// rules is the parse priority list. Matching walks it top to bottom
// and stops at the first pattern that matches anywhere in the trimmed
// input. Explicit /mcp slash commands come before loose natural-
// language forms, and HELP outranks DOCUMENTATION, so overlapping
// phrasings like "help with setup" resolve the same way every time.
// Reordering this table changes observable behavior.
var rules = []rule{
	{Help, regexp.MustCompile(`(?i)^/mcp\s+help\b`)},
	{Help, regexp.MustCompile(`(?i)^/mcp\s*$`)},
	{Test, regexp.MustCompile(`(?i)^/mcp\s+test\s+(?P<test_type>[\w-]+)`)},
	{Dataset, regexp.MustCompile(`(?i)^/mcp\s+dataset\s+(?P<action>load|list|show|transform)(?:\s+(?P<dataset_name>[\w./-]+))?`)},
	{Enhance, regexp.MustCompile(`(?i)^/mcp\s+enhance\b`)},
	{Enhance, regexp.MustCompile(`(?i)\b(?:enhance|improve)\s+(?:this\s+|my\s+)?prompt\b`)},
	{Analyze, regexp.MustCompile(`(?i)^/mcp\s+analyze\b`)},
	{Analyze, regexp.MustCompile(`(?i)\banalyze\s+(?:this\s+)?(?:prompt|text|conversation)\b`)},
	{List, regexp.MustCompile(`(?i)^/mcp\s+list\s+(?P<target>\w+)`)},
	{Resources, regexp.MustCompile(`(?i)^/mcp\s+resources(?:\s+(?P<action>read|show)\s+(?P<uri>\S+))?`)},
	{Prompt, regexp.MustCompile(`(?i)^/mcp\s+prompt\s+(?P<name>[\w-]+)(?:\s+(?P<args>.+))?`)},
	{Documentation, regexp.MustCompile(`(?i)^/mcp\s+docs?\s+(?P<topic>.+)`)},
	{Documentation, regexp.MustCompile(`(?i)\bshow\s+(?:me\s+)?(?:the\s+)?doc(?:s|umentation)\s+(?:for|about|on)\s+(?P<topic>.+)`)},
	{Documentation, regexp.MustCompile(`(?i)\bhelp\s+(?:me\s+)?with\s+(?P<topic>.+)`)},
	{Search, regexp.MustCompile(`(?i)^/mcp\s+search\s+(?P<query>.+)`)},
	{Search, regexp.MustCompile(`(?i)\bsearch\s+(?:the\s+)?(?:docs\s+)?for\s+(?P<query>.+)`)},
}

// Parse classifies text into a command. The original input is carried
// through as Raw; named capture groups become Arguments, except for
// "action", which becomes the Subcommand. Parsing has no hidden
// state: identical input always yields identical output.
func Parse(text string) Parsed {
	trimmed := strings.TrimSpace(text)
	for _, r := range rules {
		m := r.pattern.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		parsed := Parsed{
			Type:      r.typ,
			Arguments: map[string]string{},
			Raw:       text,
		}
		for i, name := range r.pattern.SubexpNames() {
			if name == "" || i >= len(m) || m[i] == "" {
				continue
			}
			if name == "action" {
				parsed.Subcommand = strings.ToLower(m[i])
				continue
			}
			parsed.Arguments[name] = m[i]
		}
		return parsed
	}
	return Parsed{Type: Unknown, Arguments: map[string]string{}, Raw: text}
}
