package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/mkaplinsky/parksafe/internal/models"
)

const (
	chartWidth  = 1024
	chartHeight = 512
)

// RenderYearLine draws the thefts-by-year line chart.
func RenderYearLine(w io.Writer, rows []models.YearCount) error {
	if len(rows) < 2 {
		return fmt.Errorf("year chart needs at least 2 points, have %d", len(rows))
	}

	xs := make([]float64, len(rows))
	ys := make([]float64, len(rows))
	for i, r := range rows {
		xs[i] = float64(r.Year)
		ys[i] = float64(r.Count)
	}

	c := chart.Chart{
		Title:  "Auto thefts by year",
		Width:  chartWidth,
		Height: chartHeight,
		XAxis: chart.XAxis{
			ValueFormatter: chart.IntValueFormatter,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "thefts",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					StrokeWidth: 2.5,
				},
			},
		},
	}
	return c.Render(chart.PNG, w)
}

// RenderPerCapitaBar draws theft rates per thousand residents for the
// neighbourhoods with a defined rate, highest first. Neighbourhoods with a
// null rate belong in the report table, not the chart.
func RenderPerCapitaBar(w io.Writer, rows []models.PerCapitaRow, limit int) error {
	var rated []models.PerCapitaRow
	for _, r := range rows {
		if r.PerThousand.Valid {
			rated = append(rated, r)
		}
	}
	if len(rated) == 0 {
		return fmt.Errorf("no neighbourhoods with a defined per-capita rate")
	}

	sort.SliceStable(rated, func(i, j int) bool {
		if rated[i].PerThousand.Float64 != rated[j].PerThousand.Float64 {
			return rated[i].PerThousand.Float64 > rated[j].PerThousand.Float64
		}
		return rated[i].Neighbourhood < rated[j].Neighbourhood
	})
	if limit > 0 && len(rated) > limit {
		rated = rated[:limit]
	}

	bars := make([]chart.Value, len(rated))
	for i, r := range rated {
		bars[i] = chart.Value{Label: r.Neighbourhood, Value: r.PerThousand.Float64}
	}

	c := chart.BarChart{
		Title:    "Thefts per 1,000 residents",
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 30,
		XAxis: chart.Style{
			TextRotationDegrees: 45.0,
		},
		Bars: bars,
	}
	return c.Render(chart.PNG, w)
}

// RenderStreetBar draws the worst-streets ranking.
func RenderStreetBar(w io.Writer, rows []models.StreetCount) error {
	if len(rows) == 0 {
		return fmt.Errorf("no street counts to chart")
	}

	bars := make([]chart.Value, len(rows))
	for i, r := range rows {
		bars[i] = chart.Value{Label: r.Street, Value: float64(r.Count)}
	}

	c := chart.BarChart{
		Title:    "Worst streets for auto theft",
		Width:    1400,
		Height:   chartHeight,
		BarWidth: 24,
		XAxis: chart.Style{
			TextRotationDegrees: 90.0,
		},
		Bars: bars,
	}
	return c.Render(chart.PNG, w)
}

// RenderHourHistogram draws the hour-of-day distribution.
func RenderHourHistogram(w io.Writer, rows []models.HourCount) error {
	if len(rows) == 0 {
		return fmt.Errorf("no hour counts to chart")
	}

	bars := make([]chart.Value, len(rows))
	for i, r := range rows {
		bars[i] = chart.Value{Label: fmt.Sprintf("%02d", r.Hour), Value: float64(r.Count)}
	}

	c := chart.BarChart{
		Title:    "Auto thefts by hour of day",
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 26,
		Bars:     bars,
	}
	return c.Render(chart.PNG, w)
}
