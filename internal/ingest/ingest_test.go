package ingest

import (
	"strings"
	"testing"
)

const incidentCSV = `TYPE,YEAR,MONTH,DAY,HOUR,MINUTE,HUNDRED_BLOCK,NEIGHBOURHOOD,X,Y
Theft from Vehicle,2016,3,12,18,30,4XX W 15TH AVE,Fairview,491234.5,5456789.1
Theft of Vehicle,2016,7,1,,,10XX GRANVILLE ST,,0,0
Other Theft,bad-year,1,1,0,0,1XX MAIN ST,Strathcona,492000,5459000
`

func TestParseIncidents(t *testing.T) {
	incidents, err := ParseIncidents(strings.NewReader(incidentCSV))
	if err != nil {
		t.Fatalf("ParseIncidents: %v", err)
	}

	if len(incidents) != 2 {
		t.Fatalf("parsed %d incidents, want 2 (bad-year row skipped)", len(incidents))
	}

	first := incidents[0]
	if first.Type != "Theft from Vehicle" || first.Year != 2016 || first.Hour != 18 || first.Minute != 30 {
		t.Errorf("first row parsed as %+v", first)
	}
	if !first.Neighbourhood.Valid || first.Neighbourhood.String != "Fairview" {
		t.Errorf("first neighbourhood = %+v, want Fairview", first.Neighbourhood)
	}
	if first.Easting != 491234.5 || first.Northing != 5456789.1 {
		t.Errorf("first coordinates = (%v, %v)", first.Easting, first.Northing)
	}

	second := incidents[1]
	if second.Neighbourhood.Valid {
		t.Errorf("blank neighbourhood should be invalid, got %+v", second.Neighbourhood)
	}
	if second.Hour != 0 || second.Minute != 0 {
		t.Errorf("blank time should zero-fill, got %d:%d", second.Hour, second.Minute)
	}
	if second.Easting != 0 {
		t.Errorf("blank coordinate should be 0, got %v", second.Easting)
	}
}

func TestParseIncidents_MissingColumns(t *testing.T) {
	csv := "TYPE,YEAR,MONTH\nTheft of Vehicle,2016,3\n"
	_, err := ParseIncidents(strings.NewReader(csv))
	if err == nil {
		t.Fatal("expected error for missing columns")
	}
	for _, col := range []string{"HUNDRED_BLOCK", "NEIGHBOURHOOD", "X", "Y"} {
		if !strings.Contains(err.Error(), col) {
			t.Errorf("error %q should name missing column %s", err, col)
		}
	}
}

const censusCSV = `ID,Variable,Downtown,Sunset,Fairview
1,"Total - Age groups of the population","62,030","36,500","33,620"
4,Median age,38.4,41.2,39.9
7,Blank row test,,,
`

func TestParseCensus(t *testing.T) {
	entries, err := ParseCensus(strings.NewReader(censusCSV))
	if err != nil {
		t.Fatalf("ParseCensus: %v", err)
	}

	// 3 population cells + 3 median-age cells; the blank row contributes none.
	if len(entries) != 6 {
		t.Fatalf("parsed %d entries, want 6", len(entries))
	}

	first := entries[0]
	if first.VariableID != 1 || first.Neighbourhood != "Downtown" || first.Value != 62030 {
		t.Errorf("first entry = %+v", first)
	}
	if first.Variable != "Total - Age groups of the population" {
		t.Errorf("variable = %q", first.Variable)
	}
}

func TestParseCensus_BadHeader(t *testing.T) {
	csv := "Code,Name,Downtown\n1,Population,100\n"
	if _, err := ParseCensus(strings.NewReader(csv)); err == nil {
		t.Fatal("expected error for wrong leading columns")
	}
}
