package narrative

import (
	"strings"
	"testing"
)

func TestFallback(t *testing.T) {
	s := Stats{
		TheftCount:          38918,
		YearFrom:            2003,
		YearTo:              2018,
		PeakHour:            18,
		TopStreet:           "GRANVILLE ST",
		SafestNeighbourhood: "Shaughnessy",
		SafestRate:          1.42,
		WorstNeighbourhood:  "Central Business District",
		WorstRate:           9.87,
	}

	got := Fallback(s)
	for _, want := range []string{
		"38918", "2003", "2018", "18:00",
		"GRANVILLE ST", "Shaughnessy", "Central Business District",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("fallback missing %q in %q", want, got)
		}
	}
}

func TestFallback_NoExtremes(t *testing.T) {
	got := Fallback(Stats{TheftCount: 3, YearFrom: 2016, YearTo: 2016, PeakHour: 0})
	if strings.Contains(got, "per 1,000") {
		t.Errorf("fallback should omit per-capita sentence without extremes: %q", got)
	}
	if !strings.Contains(got, "00:00") {
		t.Errorf("fallback missing peak hour: %q", got)
	}
}

func TestPromptContainsFacts(t *testing.T) {
	s := Stats{TheftCount: 7, YearFrom: 2010, YearTo: 2012, PeakHour: 9, TopStreet: "MAIN ST"}
	p := prompt(s)
	for _, want := range []string{"7 incidents", "09:00", "MAIN ST", "safe to park"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
