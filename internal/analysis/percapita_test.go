package analysis

import (
	"reflect"
	"testing"

	"github.com/mkaplinsky/parksafe/internal/models"
)

func TestPopulationLookup_RenamesAndFilters(t *testing.T) {
	entries := []models.CensusEntry{
		{VariableID: 1, Variable: "Total population", Neighbourhood: "Downtown", Value: 62030},
		{VariableID: 1, Variable: "Total population", Neighbourhood: "Sunset", Value: 36500},
		{VariableID: 4, Variable: "Median age", Neighbourhood: "Sunset", Value: 41.2},
	}

	got := PopulationLookup(entries, 1)
	want := map[string]float64{
		"Central Business District": 62030,
		"Sunset":                    36500,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PopulationLookup = %v, want %v", got, want)
	}
}

func TestJoinPerCapita(t *testing.T) {
	counts := []models.NeighbourhoodCount{
		{Neighbourhood: "Sunset", Count: 120},
		{Neighbourhood: "Ghost Town", Count: 10},
		{Neighbourhood: "None Listed", Count: 7},
	}
	population := map[string]float64{
		"Sunset":     24000,
		"Ghost Town": 0,
	}

	rows, unmatched := JoinPerCapita(counts, population)

	if len(rows) != 3 {
		t.Fatalf("join dropped rows: got %d, want 3", len(rows))
	}

	// 120 incidents / 24 people-thousands = exactly 5.0.
	if !rows[0].PerThousand.Valid || rows[0].PerThousand.Float64 != 5.0 {
		t.Errorf("Sunset rate = %+v, want exactly 5.0", rows[0].PerThousand)
	}

	// Zero population: rate undefined, not 0 and not +Inf.
	if !rows[1].Population.Valid {
		t.Error("Ghost Town population should be present")
	}
	if rows[1].PerThousand.Valid {
		t.Errorf("Ghost Town rate = %+v, want null", rows[1].PerThousand)
	}

	// No census match: null population, null rate, reported as unmatched.
	if rows[2].Population.Valid || rows[2].PerThousand.Valid {
		t.Errorf("None Listed row = %+v, want null population and rate", rows[2])
	}
	if !reflect.DeepEqual(unmatched, []string{"None Listed"}) {
		t.Errorf("unmatched = %v, want [None Listed]", unmatched)
	}
}
