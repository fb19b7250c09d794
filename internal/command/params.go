package command

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	temperaturePattern = regexp.MustCompile(`(?i)\btemp(?:erature)?\s*[:=]?\s*([0-9]*\.?[0-9]+)`)
	maxTokensPattern   = regexp.MustCompile(`(?i)\b(?:max[_\s])?tokens?\s*[:=]?\s*([0-9]+)`)
)

// qualitative maps descriptive words to a temperature. A numeric
// temperature in the same text wins over these. Ordered so that a
// text containing two descriptors resolves the same way every call.
var qualitative = []struct {
	word string
	temp float64
}{
	{"creative", 0.9},
	{"imaginative", 0.9},
	{"balanced", 0.7},
	{"precise", 0.2},
	{"accurate", 0.2},
	{"deterministic", 0.0},
}

// ExtractParameters scans text for generation parameters, independent
// of Parse. Numeric and qualitative extractions can coexist in the
// returned map (e.g. an explicit token limit next to "creative").
func ExtractParameters(text string) map[string]any {
	params := map[string]any{}

	if m := temperaturePattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			params["temperature"] = v
		}
	}
	if m := maxTokensPattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			params["max_tokens"] = v
		}
	}

	if _, set := params["temperature"]; !set {
		lower := strings.ToLower(text)
		for _, q := range qualitative {
			if strings.Contains(lower, q.word) {
				params["temperature"] = q.temp
				break
			}
		}
	}

	return params
}
