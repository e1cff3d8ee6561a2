package selection

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// MatchPatterns returns the names matching any of the glob patterns, in the
// order of names. Matching is case-insensitive. No patterns selects everything.
func MatchPatterns(names, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		return append([]string(nil), names...), nil
	}

	lowered := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid target pattern %q", p)
		}
		lowered = append(lowered, p)
	}

	var matched []string
	for _, name := range names {
		for _, p := range lowered {
			ok, err := doublestar.Match(p, strings.ToLower(name))
			if err != nil {
				return nil, fmt.Errorf("invalid target pattern %q: %w", p, err)
			}
			if ok {
				matched = append(matched, name)
				break
			}
		}
	}
	return matched, nil
}

// Preselect narrows the session's selection to the names matching patterns
func Preselect(s *Session, patterns []string) error {
	if len(patterns) == 0 {
		return nil
	}
	matched, err := MatchPatterns(s.State().names, patterns)
	if err != nil {
		return err
	}
	return s.SetSelected(matched)
}
