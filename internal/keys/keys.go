package keys

import "strings"

// AbilityKeyFromName produces a canonical ability ID from a display name.
// Behavior: trims, lower-cases and replaces spaces with underscores, so
// "Swift Strike" becomes "swift_strike". Suitable for stable catalog keys.
func AbilityKeyFromName(name string) string {
	s := strings.TrimSpace(name)
	return strings.ToLower(strings.ReplaceAll(s, " ", "_"))
}
