package analysis

import (
	"testing"

	"github.com/mkaplinsky/parksafe/internal/models"
)

func TestIsAutoTheft(t *testing.T) {
	tests := []struct {
		incidentType string
		want         bool
	}{
		{"Theft of Vehicle", true},
		{"Theft from Vehicle", true},
		{"THEFT FROM VEHICLE", true},
		{"theft of vehicle", true},
		{"Theft of Motor Vehicle", true},
		{"Theft of Bicycle", false},
		{"Other Theft", false},
		{"Break and Enter Residential/Other", false},
		{"Vehicle Collision or Pedestrian Struck (with Injury)", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.incidentType, func(t *testing.T) {
			if got := IsAutoTheft(tt.incidentType); got != tt.want {
				t.Errorf("IsAutoTheft(%q) = %v, want %v", tt.incidentType, got, tt.want)
			}
		})
	}
}

func TestFilterAutoTheft_YearBounds(t *testing.T) {
	incidents := []models.Incident{
		{Type: "Theft of Vehicle", Year: 2002},
		{Type: "Theft of Vehicle", Year: 2003},
		{Type: "Theft from Vehicle", Year: 2010},
		{Type: "Theft from Vehicle", Year: 2018},
		{Type: "Theft of Vehicle", Year: 2019}, // partial final year, excluded
		{Type: "Other Theft", Year: 2010},
	}

	got := FilterAutoTheft(incidents, 2003, 2018)
	if len(got) != 3 {
		t.Fatalf("filtered %d incidents, want 3", len(got))
	}
	for _, inc := range got {
		if inc.Year < 2003 || inc.Year > 2018 {
			t.Errorf("year %d escaped the bound", inc.Year)
		}
	}
}

func TestFilterAutoTheft_DoesNotMutateInput(t *testing.T) {
	incidents := []models.Incident{
		{Type: "Theft of Vehicle", Year: 2010},
		{Type: "Other Theft", Year: 2010},
	}
	FilterAutoTheft(incidents, 2003, 2018)

	if incidents[1].Type != "Other Theft" {
		t.Error("input slice was mutated")
	}
}
