package report

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"github.com/mkaplinsky/parksafe/internal/models"
)

// mapMarker is the JSON shape the Leaflet template consumes.
type mapMarker struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Popup string  `json:"popup"`
}

// PopupText assembles the marker popup from the incident's fields:
// type, hundred block, date and time.
func PopupText(inc models.Incident) string {
	return fmt.Sprintf("%s<br>%s<br>%04d-%02d-%02d %02d:%02d",
		inc.Type, inc.HundredBlock, inc.Year, inc.Month, inc.Day, inc.Hour, inc.Minute)
}

// RenderMap writes the clustered Leaflet map for the given incidents.
// Records without valid coordinates are skipped: the zero-easting artifact
// must never appear as a point on the map.
func (r *Renderer) RenderMap(w io.Writer, incidents []models.Incident) error {
	markers := make([]mapMarker, 0, len(incidents))
	for _, inc := range incidents {
		if !inc.Lat.Valid || !inc.Lon.Valid || inc.GeoStatus != models.GeoOK {
			continue
		}
		markers = append(markers, mapMarker{
			Lat:   inc.Lat.Float64,
			Lon:   inc.Lon.Float64,
			Popup: PopupText(inc),
		})
	}

	encoded, err := json.Marshal(markers)
	if err != nil {
		return fmt.Errorf("marshal markers: %w", err)
	}

	data := struct {
		Markers template.JS
		Count   int
	}{
		Markers: template.JS(encoded),
		Count:   len(markers),
	}
	return r.templates.ExecuteTemplate(w, "map.html", data)
}
