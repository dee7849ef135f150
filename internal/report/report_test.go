package report

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mkaplinsky/parksafe/internal/models"
)

func mappableIncident() models.Incident {
	return models.Incident{
		Type:         "Theft from Vehicle",
		Year:         2016,
		Month:        3,
		Day:          12,
		Hour:         18,
		Minute:       30,
		HundredBlock: "4XX W 15TH AVE",
		Lat:          sql.NullFloat64{Float64: 49.2795, Valid: true},
		Lon:          sql.NullFloat64{Float64: -123.11, Valid: true},
		GeoStatus:    models.GeoOK,
	}
}

func testData() Data {
	return Data{
		YearFrom:   2003,
		YearTo:     2018,
		CensusYear: 2016,
		TheftCount: 5,
		ByYear: []models.YearCount{
			{Year: 2015, Count: 2}, {Year: 2016, Count: 3},
		},
		PerCapita: []models.PerCapitaRow{
			{Neighbourhood: "Sunset", Count: 120,
				Population:  sql.NullFloat64{Float64: 24000, Valid: true},
				PerThousand: sql.NullFloat64{Float64: 5, Valid: true}},
			{Neighbourhood: "None Listed", Count: 7},
		},
		TopStreets: []models.StreetCount{{Street: "GRANVILLE ST", Count: 3}},
		ByHour:     []models.HourCount{{Hour: 3, Count: 1}, {Hour: 18, Count: 4}},
		Unmatched:  []string{"None Listed"},
		Mappable:   []models.Incident{mappableIncident()},
		Narrative:  "A quiet year on the whole.",
	}
}

func TestPopupText(t *testing.T) {
	got := PopupText(mappableIncident())
	want := "Theft from Vehicle<br>4XX W 15TH AVE<br>2016-03-12 18:30"
	if got != want {
		t.Errorf("PopupText = %q, want %q", got, want)
	}
}

func TestRenderMap_SkipsAnomalies(t *testing.T) {
	r := NewRenderer()

	anomaly := models.Incident{Type: "Theft of Vehicle", Year: 2016, GeoStatus: models.GeoZeroEasting}
	var buf bytes.Buffer
	if err := r.RenderMap(&buf, []models.Incident{mappableIncident(), anomaly}); err != nil {
		t.Fatalf("RenderMap: %v", err)
	}

	html := buf.String()
	if !strings.Contains(html, "4XX W 15TH AVE") {
		t.Error("valid incident missing from map")
	}
	if !strings.Contains(html, "1 incidents") {
		t.Error("anomalous incident should not be counted on the map")
	}
}

func TestDataHeadlines(t *testing.T) {
	d := testData()
	if got := d.PeakHour(); got != 18 {
		t.Errorf("PeakHour = %d, want 18", got)
	}
	if got := d.TopStreet(); got != "GRANVILLE ST" {
		t.Errorf("TopStreet = %q, want GRANVILLE ST", got)
	}

	empty := Data{}
	if got := empty.TopStreet(); got != "" {
		t.Errorf("TopStreet on empty data = %q, want empty", got)
	}
}

func TestWriteAll(t *testing.T) {
	dir := t.TempDir()
	if err := NewRenderer().WriteAll(dir, testData()); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	for _, name := range []string{
		"thefts_by_year.png", "per_capita.png", "top_streets.png",
		"thefts_by_hour.png", "summary_card.png", "map.html", "index.html",
	} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("missing output %s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("output %s is empty", name)
		}
	}

	index, err := os.ReadFile(filepath.Join(dir, "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	html := string(index)
	for _, want := range []string{"GRANVILLE ST", "n/a", "None Listed", "A quiet year"} {
		if !strings.Contains(html, want) {
			t.Errorf("index.html missing %q", want)
		}
	}
}

func TestGenerateCard(t *testing.T) {
	card, err := GenerateCard(CardData{TheftCount: 42, YearFrom: 2003, YearTo: 2018, PeakHour: 18, TopStreet: "MAIN ST"})
	if err != nil {
		t.Fatalf("GenerateCard: %v", err)
	}
	// PNG magic bytes.
	if len(card) < 8 || card[1] != 'P' || card[2] != 'N' || card[3] != 'G' {
		t.Error("output is not a PNG")
	}
}
