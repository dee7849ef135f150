// Package report renders the run's outputs: chart PNGs, a summary card, a
// clustered incident map, and the narrative index page that ties them
// together.
package report

import (
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/mkaplinsky/parksafe/internal/models"
)

//go:embed templates/*
var templateFS embed.FS

// Data is everything the report pages need from a finished run.
type Data struct {
	YearFrom   int
	YearTo     int
	CensusYear int

	TheftCount  int
	ZeroEasting int

	ByYear     []models.YearCount
	PerCapita  []models.PerCapitaRow
	TopStreets []models.StreetCount
	ByHour     []models.HourCount
	Unmatched  []string
	Mappable   []models.Incident

	Narrative string
}

// PeakHour returns the hour with the most thefts, for the headline.
func (d Data) PeakHour() int {
	best, bestCount := 0, -1
	for _, h := range d.ByHour {
		if h.Count > bestCount {
			best, bestCount = h.Hour, h.Count
		}
	}
	return best
}

// TopStreet returns the worst street, or "" when there is none.
func (d Data) TopStreet() string {
	if len(d.TopStreets) == 0 {
		return ""
	}
	return d.TopStreets[0].Street
}

type Renderer struct {
	templates *template.Template
}

func NewRenderer() *Renderer {
	funcs := template.FuncMap{
		"rate": func(r models.PerCapitaRow) string {
			if !r.PerThousand.Valid {
				return "n/a"
			}
			return fmt.Sprintf("%.2f", r.PerThousand.Float64)
		},
		"add1": func(i int) int { return i + 1 },
		"population": func(r models.PerCapitaRow) string {
			if !r.Population.Valid {
				return "n/a"
			}
			return fmt.Sprintf("%.0f", r.Population.Float64)
		},
	}
	return &Renderer{
		templates: template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")),
	}
}

// WriteAll renders every output into outDir.
func (r *Renderer) WriteAll(outDir string, data Data) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	charts := []struct {
		name   string
		render func(f *os.File) error
	}{
		{"thefts_by_year.png", func(f *os.File) error { return RenderYearLine(f, data.ByYear) }},
		{"per_capita.png", func(f *os.File) error { return RenderPerCapitaBar(f, data.PerCapita, 15) }},
		{"top_streets.png", func(f *os.File) error { return RenderStreetBar(f, data.TopStreets) }},
		{"thefts_by_hour.png", func(f *os.File) error { return RenderHourHistogram(f, data.ByHour) }},
	}
	for _, c := range charts {
		if err := r.writeFile(outDir, c.name, c.render); err != nil {
			return err
		}
	}

	card, err := GenerateCard(CardData{
		TheftCount: data.TheftCount,
		YearFrom:   data.YearFrom,
		YearTo:     data.YearTo,
		PeakHour:   data.PeakHour(),
		TopStreet:  data.TopStreet(),
	})
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outDir, "summary_card.png"), card, 0o644); err != nil {
		return fmt.Errorf("write summary card: %w", err)
	}

	if err := r.writeFile(outDir, "map.html", func(f *os.File) error {
		return r.RenderMap(f, data.Mappable)
	}); err != nil {
		return err
	}

	return r.writeFile(outDir, "index.html", func(f *os.File) error {
		return r.templates.ExecuteTemplate(f, "report.html", data)
	})
}

func (r *Renderer) writeFile(outDir, name string, render func(*os.File) error) error {
	f, err := os.Create(filepath.Join(outDir, name))
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	defer f.Close()

	if err := render(f); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}
