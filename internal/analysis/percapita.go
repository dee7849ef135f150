package analysis

import (
	"database/sql"

	"github.com/mkaplinsky/parksafe/internal/models"
)

// censusRenames maps census neighbourhood spellings onto the spellings used
// by the incident extract. The two datasets come from different city
// departments and disagree on exactly one name as far as we know; the
// joiner reports any further gaps rather than assuming this list is
// complete.
var censusRenames = map[string]string{
	"Downtown": "Central Business District",
}

// PopulationLookup builds a neighbourhood -> population map from census
// entries, keeping only the rows with the given variable id and applying
// the one-time name reconciliation.
func PopulationLookup(entries []models.CensusEntry, variableID int) map[string]float64 {
	pop := make(map[string]float64)
	for _, e := range entries {
		if e.VariableID != variableID {
			continue
		}
		name := e.Neighbourhood
		if renamed, ok := censusRenames[name]; ok {
			name = renamed
		}
		pop[name] = e.Value
	}
	return pop
}

// JoinPerCapita left-joins a neighbourhood count table (driving side)
// against a population lookup and derives a per-thousand rate. A missing or
// zero population yields a null rate, never zero or infinity. The second
// return value lists the incident neighbourhoods that found no population,
// so reconciliation gaps surface instead of vanishing into the join.
func JoinPerCapita(counts []models.NeighbourhoodCount, population map[string]float64) ([]models.PerCapitaRow, []string) {
	rows := make([]models.PerCapitaRow, 0, len(counts))
	var unmatched []string

	for _, c := range counts {
		row := models.PerCapitaRow{Neighbourhood: c.Neighbourhood, Count: c.Count}

		pop, ok := population[c.Neighbourhood]
		if !ok {
			unmatched = append(unmatched, c.Neighbourhood)
			rows = append(rows, row)
			continue
		}

		row.Population = sql.NullFloat64{Float64: pop, Valid: true}
		if pop > 0 {
			row.PerThousand = sql.NullFloat64{Float64: float64(c.Count) / (pop / 1000), Valid: true}
		}
		rows = append(rows, row)
	}

	return rows, unmatched
}
