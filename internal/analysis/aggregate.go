package analysis

import (
	"sort"

	"github.com/mkaplinsky/parksafe/internal/models"
)

// CountByYear groups incidents by year, ordered year ascending for charting.
func CountByYear(incidents []models.Incident) []models.YearCount {
	counts := make(map[int]int)
	for _, inc := range incidents {
		counts[inc.Year]++
	}

	out := make([]models.YearCount, 0, len(counts))
	for year, n := range counts {
		out = append(out, models.YearCount{Year: year, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// CountByNeighbourhood groups incidents by neighbourhood. Incidents without
// one are counted under the "None Listed" label, never dropped. Rows are
// ordered count descending, ties by name ascending, so repeated runs chart
// identically.
func CountByNeighbourhood(incidents []models.Incident) []models.NeighbourhoodCount {
	counts := make(map[string]int)
	for _, inc := range incidents {
		counts[inc.NeighbourhoodLabel()]++
	}

	out := make([]models.NeighbourhoodCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, models.NeighbourhoodCount{Neighbourhood: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Neighbourhood < out[j].Neighbourhood
	})
	return out
}

// CountByHour groups incidents by hour of day, ordered hour ascending.
// Records with no recorded time carry hour 0 from the source and are
// counted there rather than dropped.
func CountByHour(incidents []models.Incident) []models.HourCount {
	counts := make(map[int]int)
	for _, inc := range incidents {
		counts[inc.Hour]++
	}

	out := make([]models.HourCount, 0, len(counts))
	for hour, n := range counts {
		out = append(out, models.HourCount{Hour: hour, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out
}

// CountByStreet groups incidents by the street name extracted from the
// hundred-block field. Rows are ordered count descending with ties broken
// by first appearance in the input, which is also the tie rule TopStreets
// inherits.
func CountByStreet(incidents []models.Incident) []models.StreetCount {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, inc := range incidents {
		street := ExtractStreet(inc.HundredBlock)
		if _, ok := firstSeen[street]; !ok {
			firstSeen[street] = i
		}
		counts[street]++
	}

	out := make([]models.StreetCount, 0, len(counts))
	for street, n := range counts {
		out = append(out, models.StreetCount{Street: street, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return firstSeen[out[i].Street] < firstSeen[out[j].Street]
	})
	return out
}

// TopStreets returns the first n rows of a street count table. The table is
// already fully ordered, so truncation is deterministic.
func TopStreets(streets []models.StreetCount, n int) []models.StreetCount {
	if n > len(streets) {
		n = len(streets)
	}
	out := make([]models.StreetCount, n)
	copy(out, streets[:n])
	return out
}
