package search

import "strings"

// Synonym table checked before the qualifier logic. Matched against the
// whole query (with an optional plural "s").
var designationSynonyms = map[string]string{
	"senior prof":     "Senior Professor",
	"prof":            "Professor",
	"emeritus prof":   "Emeritus Professor",
	"assoc prof":      "Associate Professor",
	"associate prof":  "Associate Professor",
	"asst prof":       "Assistant Professor",
	"assistant prof":  "Assistant Professor",
	"adjunct prof":    "Adjunct Professor",
	"lecturer":        "Lecturer",
	"senior lecturer": "Senior Lecturer",
}

// NormalizeDesignation maps free-text rank references onto the standard
// designation labels. Qualified professor ranks are checked before plain
// "Professor", which requires the absence of every qualifying word, so
// "senior professor" is never conflated with "Professor". Unrecognized
// input is returned unchanged.
func NormalizeDesignation(query string) string {
	if query == "" {
		return ""
	}
	q := strings.ToLower(strings.TrimSpace(query))

	for key, value := range designationSynonyms {
		if q == key || q == key+"s" {
			return value
		}
	}

	switch {
	case strings.Contains(q, "senior") && strings.Contains(q, "professor"):
		return "Senior Professor"
	case strings.Contains(q, "emeritus"):
		return "Emeritus Professor"
	case strings.Contains(q, "associate"):
		return "Associate Professor"
	case strings.Contains(q, "assistant"):
		return "Assistant Professor"
	case strings.Contains(q, "adjunct"):
		return "Adjunct Professor"
	case strings.Contains(q, "professor") &&
		!strings.Contains(q, "associate") &&
		!strings.Contains(q, "assistant") &&
		!strings.Contains(q, "senior") &&
		!strings.Contains(q, "adjunct") &&
		!strings.Contains(q, "emeritus"):
		return "Professor"
	case strings.Contains(q, "lecturer"):
		if strings.Contains(q, "senior") {
			return "Senior Lecturer"
		}
		return "Lecturer"
	}

	return query
}
