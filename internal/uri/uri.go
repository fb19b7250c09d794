// Package uri provides canonical resource URI parsing and formatting.
//
// All resource references follow the canonical format:
//
//	violentutf://category/name
//
// Examples: violentutf://datasets/harmbench, violentutf://docs/getting-started
//
// Loose forms are accepted by Parse for operator convenience:
//   - "category/name" → scheme defaults to "violentutf"
//   - "name" alone is rejected — a bare word is ambiguous between
//     categories and the caller should say which one it means.
package uri

import (
	"fmt"
	"strings"
)

// Scheme is the canonical URI scheme for ViolentUTF resources.
const Scheme = "violentutf"

// Resource is a parsed canonical resource reference.
type Resource struct {
	Category string
	Name     string
}

// String returns the canonical format.
func (r Resource) String() string {
	return fmt.Sprintf("%s://%s/%s", Scheme, r.Category, r.Name)
}

// validCategories is the set of resource categories the backend
// serves. Kept in sync with the server's resource registry.
var validCategories = map[string]bool{
	"datasets":   true,
	"prompts":    true,
	"docs":       true,
	"results":    true,
	"generators": true,
	"sessions":   true,
}

// IsCategory reports whether s names a known resource category.
func IsCategory(s string) bool { return validCategories[s] }

// Parse parses a resource reference into a Resource.
//
// Accepted formats:
//   - "violentutf://category/name" (canonical)
//   - "category/name" (scheme defaults to violentutf)
func Parse(s string) (Resource, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Resource{}, fmt.Errorf("resource uri cannot be empty")
	}

	if rest, ok := strings.CutPrefix(s, Scheme+"://"); ok {
		s = rest
	} else if strings.Contains(s, "://") {
		scheme, _, _ := strings.Cut(s, "://")
		return Resource{}, fmt.Errorf("unsupported uri scheme %q (want %s://)", scheme, Scheme)
	}

	category, name, ok := strings.Cut(s, "/")
	if !ok || category == "" || name == "" {
		return Resource{}, fmt.Errorf("invalid resource uri %q: want category/name", s)
	}
	if !IsCategory(category) {
		return Resource{}, fmt.Errorf("unknown resource category %q", category)
	}

	return Resource{Category: category, Name: name}, nil
}

// Normalize parses a resource reference and returns its canonical
// string form.
func Normalize(s string) (string, error) {
	r, err := Parse(s)
	if err != nil {
		return "", err
	}
	return r.String(), nil
}
