// Package detect classifies bootloader console lines against a configurable,
// ordered list of marker strings.
package detect

import (
	"errors"
	"strings"

	"phyboot/internal/domain"
)

// DefaultMarkers is the Phytium Pi U-Boot prompt.
var DefaultMarkers = []string{"Phytium-Pi#"}

// AutobootBanner is printed by U-Boot while its autoboot countdown runs.
const AutobootBanner = "Hit any key to stop autoboot:"

// Detector matches by case-sensitive substring containment on the trimmed
// line. Rules are tried in order and the first hit wins.
type Detector struct {
	rules []domain.Rule
}

// New returns a Detector over rules. Every rule needs a non-blank pattern and
// a marker other than MarkerNone.
func New(rules ...domain.Rule) (*Detector, error) {
	if len(rules) == 0 {
		return nil, errors.New("detect: at least one marker rule is required")
	}
	out := make([]domain.Rule, 0, len(rules))
	for _, r := range rules {
		p := strings.TrimSpace(r.Pattern)
		if p == "" {
			return nil, errors.New("detect: empty marker pattern")
		}
		if r.Marker == domain.MarkerNone {
			return nil, errors.New("detect: rule " + p + " has no marker")
		}
		out = append(out, domain.Rule{Marker: r.Marker, Pattern: p})
	}
	return &Detector{rules: out}, nil
}

// FromStrings builds a Detector where every pattern signals a ready prompt.
func FromStrings(patterns []string) (*Detector, error) {
	rules := make([]domain.Rule, 0, len(patterns))
	for _, p := range patterns {
		rules = append(rules, domain.Rule{Marker: domain.MarkerReadyPrompt, Pattern: p})
	}
	return New(rules...)
}

// Classify returns the marker of the first rule contained in line, or
// MarkerNone.
func (d *Detector) Classify(line string) domain.PromptMarker {
	line = strings.TrimSpace(line)
	if line == "" {
		return domain.MarkerNone
	}
	for _, r := range d.rules {
		if strings.Contains(line, r.Pattern) {
			return r.Marker
		}
	}
	return domain.MarkerNone
}

var _ domain.Detector = (*Detector)(nil)
