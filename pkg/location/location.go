// Package location normalizes free-text locations into a city and region
// pair covering the service area.
package location

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// regionForCity maps well-known cities in the service area to their
// state, for visitors who only type a city.
var regionForCity = map[string]string{
	"lagos":     "Lagos",
	"ikeja":     "Lagos",
	"lekki":     "Lagos",
	"surulere":  "Lagos",
	"yaba":      "Lagos",
	"ibadan":    "Oyo",
	"ogbomosho": "Oyo",
	"oyo":       "Oyo",
	"iseyin":    "Oyo",
}

// Parse splits free text like "Ibadan", "Ikeja, Lagos" or "yaba lagos"
// into a canonically cased (city, region) pair. The region falls back to
// the known-city table, then to fallbackRegion.
func Parse(raw, fallbackRegion string) (city, region string) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ""
	}

	parts := strings.SplitN(trimmed, ",", 2)
	city = titleCaser.String(strings.TrimSpace(parts[0]))
	if len(parts) == 2 {
		region = titleCaser.String(strings.TrimSpace(parts[1]))
		return city, region
	}

	// "yaba lagos" style: last word may be a region name.
	words := strings.Fields(city)
	if len(words) > 1 {
		last := strings.ToLower(words[len(words)-1])
		if last == "lagos" || last == "oyo" {
			return strings.Join(words[:len(words)-1], " "), titleCaser.String(last)
		}
	}

	if r, ok := regionForCity[strings.ToLower(city)]; ok {
		return city, r
	}
	return city, fallbackRegion
}
