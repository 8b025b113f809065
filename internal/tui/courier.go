package tui

import "strings"

// CourierKey maps a human courier name to a stable short key used for
// badges and grouping. Matching is case-insensitive substring; unknown
// couriers map to "unknown".
func CourierKey(name string) string {
	if name == "" {
		return "unknown"
	}
	name = strings.ToLower(name)

	switch {
	case strings.Contains(name, "cj"):
		return "cj"
	case strings.Contains(name, "cvsnet"), strings.Contains(name, "gs"), strings.Contains(name, "cvs"):
		return "cvs"
	case strings.Contains(name, "lotte"), strings.Contains(name, "롯데"):
		return "lotte"
	case strings.Contains(name, "7-11"), strings.Contains(name, "7-eleven"):
		return "7-eleven"
	case strings.Contains(name, "hanjin"):
		return "hanjin"
	case strings.Contains(name, "cu"), strings.Contains(name, "cupost"):
		return "cupost"
	case strings.Contains(name, "post"), strings.Contains(name, "korea"):
		return "koreapost"
	}
	return "unknown"
}

// courierBadges maps courier keys to the short tag rendered on a card.
var courierBadges = map[string]string{
	"cj":        "CJ",
	"cvs":       "GS",
	"lotte":     "LT",
	"7-eleven":  "7E",
	"hanjin":    "HJ",
	"cupost":    "CU",
	"koreapost": "KP",
	"unknown":   "??",
}

// CourierBadge returns the two-character tag for a courier name.
func CourierBadge(name string) string {
	return courierBadges[CourierKey(name)]
}
