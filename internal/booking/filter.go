package booking

import (
	"strings"

	"github.com/glamora-hn/booking-engine/internal/catalog"
)

// EligibleStylists narrows the roster to stylists whose specialty mentions
// the selected service's category. The match is a lowercased substring test
// against free text, so it can legitimately come up empty; in that case the
// full roster is returned rather than blocking the flow. Zero matches means
// "filter not applicable", not "no one qualifies".
func EligibleStylists(roster []catalog.StylistProfile, svc *catalog.ServiceOffering) []catalog.StylistProfile {
	if svc == nil {
		return roster
	}
	category := strings.ToLower(strings.TrimSpace(svc.Category))
	if category == "" {
		return roster
	}

	matched := make([]catalog.StylistProfile, 0, len(roster))
	for _, s := range roster {
		specialty := strings.ToLower(strings.TrimSpace(s.Specialty))
		if strings.Contains(specialty, category) {
			matched = append(matched, s)
		}
	}
	if len(matched) == 0 {
		return roster
	}
	return matched
}
