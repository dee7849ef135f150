// Package analysis holds the pure transform stages of the pipeline: each
// function takes a table in and returns a new derived table, never mutating
// its input.
package analysis

import (
	"regexp"

	"github.com/mkaplinsky/parksafe/internal/models"
)

// autoTheftRe matches both sub-categories of the auto-theft family
// ("Theft of Vehicle", "Theft from Vehicle") regardless of case or the
// exact wording between "theft" and "vehicle". It does not match bicycle
// thefts or "Other Theft".
var autoTheftRe = regexp.MustCompile(`(?i)theft\s+(of|from)\s+.*vehicle`)

// IsAutoTheft reports whether an incident type belongs to the auto-theft
// family.
func IsAutoTheft(incidentType string) bool {
	return autoTheftRe.MatchString(incidentType)
}

// FilterAutoTheft returns the incidents whose type matches the auto-theft
// family and whose year lies in the closed range [yearFrom, yearTo]. The
// year bound exists to drop the in-progress final year of the extract.
func FilterAutoTheft(incidents []models.Incident, yearFrom, yearTo int) []models.Incident {
	var out []models.Incident
	for _, inc := range incidents {
		if !IsAutoTheft(inc.Type) {
			continue
		}
		if inc.Year < yearFrom || inc.Year > yearTo {
			continue
		}
		out = append(out, inc)
	}
	return out
}
