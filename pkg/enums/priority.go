package enums

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Priority is the product urgency level stored by the catalog as 1-4.
type Priority int

const (
	PriorityLow      Priority = 1
	PriorityMedium   Priority = 2
	PriorityHigh     Priority = 3
	PriorityCritical Priority = 4

	// DefaultPriority applies whenever the catalog sends nothing usable.
	DefaultPriority = PriorityMedium
)

var validPriorities = []Priority{
	PriorityLow,
	PriorityMedium,
	PriorityHigh,
	PriorityCritical,
}

// legacyPriorityLabels maps the word labels older catalog rows still carry.
// Order matters for substring matching.
var legacyPriorityLabels = []struct {
	label    string
	priority Priority
}{
	{label: "low", priority: PriorityLow},
	{label: "medium", priority: PriorityMedium},
	{label: "high", priority: PriorityHigh},
	{label: "critical", priority: PriorityCritical},
}

// Priorities returns the selectable priorities in display order.
func Priorities() []Priority {
	out := make([]Priority, len(validPriorities))
	copy(out, validPriorities)
	return out
}

// String returns the display label (Low, Medium, High, Critical).
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	case PriorityCritical:
		return "Critical"
	}
	return strconv.Itoa(int(p))
}

// IsValid reports whether the value is a known Priority.
func (p Priority) IsValid() bool {
	for _, candidate := range validPriorities {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePriority converts a numeric string or a legacy label into a Priority.
// Labels match case-insensitively, exactly first and then by substring.
func ParsePriority(value string) (Priority, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return 0, fmt.Errorf("empty priority")
	}
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
		p := Priority(n)
		if float64(p) != n || !p.IsValid() {
			return 0, fmt.Errorf("invalid priority %q", value)
		}
		return p, nil
	}
	for _, entry := range legacyPriorityLabels {
		if trimmed == entry.label {
			return entry.priority, nil
		}
	}
	for _, entry := range legacyPriorityLabels {
		if strings.Contains(trimmed, entry.label) {
			return entry.priority, nil
		}
	}
	return 0, fmt.Errorf("invalid priority %q", value)
}

// NormalizePriority is ParsePriority with the catalog default for anything
// unrecognized.
func NormalizePriority(value string) Priority {
	p, err := ParsePriority(value)
	if err != nil {
		return DefaultPriority
	}
	return p
}

// MarshalJSON always writes the numeric code.
func (p Priority) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(p))), nil
}

// UnmarshalJSON accepts numbers, numeric strings, legacy labels and null.
// Values that cannot be resolved fall back to DefaultPriority.
func (p *Priority) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		*p = DefaultPriority
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode priority: %w", err)
		}
		*p = NormalizePriority(s)
		return nil
	}
	*p = NormalizePriority(raw)
	return nil
}
