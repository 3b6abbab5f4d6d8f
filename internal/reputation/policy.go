// Package reputation classifies counterparty addresses using an external
// label service and a keyword marker policy.
package reputation

import "strings"

// LabelInfo carries the free-text labels an external service publishes for
// an address.
type LabelInfo struct {
	Labels []string
	Slugs  []string
}

// DefaultScamMarkers is the marker vocabulary for scam-adjacent labels.
// Matching is substring-based and deliberately conservative: it can
// overmatch benign labels ("hackathon"), which is accepted in the absence
// of a canonical scam registry.
var DefaultScamMarkers = []string{
	"phish", "hack", "scam", "drainer", "malicious",
	"exploit", "fraud", "blacklist", "ofac",
}

// ClassifyAsScam reports whether any label or slug contains one of the
// markers, case-insensitive. A nil info is never scam.
func ClassifyAsScam(info *LabelInfo, markers []string) bool {
	if info == nil {
		return false
	}
	for _, set := range [][]string{info.Labels, info.Slugs} {
		for _, label := range set {
			l := strings.ToLower(label)
			for _, m := range markers {
				if strings.Contains(l, m) {
					return true
				}
			}
		}
	}
	return false
}
