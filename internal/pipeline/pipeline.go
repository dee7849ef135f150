// Package pipeline wires the analysis stages into one pass: ingest both
// datasets, normalize coordinates, filter to auto thefts, aggregate along
// each dimension, and join per-capita rates. Every stage consumes its input
// and returns a new table; nothing is mutated in place.
package pipeline

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/mkaplinsky/parksafe/internal/analysis"
	"github.com/mkaplinsky/parksafe/internal/geo"
	"github.com/mkaplinsky/parksafe/internal/ingest"
	"github.com/mkaplinsky/parksafe/internal/metrics"
	"github.com/mkaplinsky/parksafe/internal/models"
)

type Config struct {
	IncidentsPath        string
	CensusPath           string
	YearFrom             int
	YearTo               int
	CensusYear           int
	PopulationVariableID int
	TopStreets           int
}

// Result holds every derived table of one run.
type Result struct {
	Incidents []models.Incident // all records, coordinates normalized
	Thefts    []models.Incident // auto-theft family inside the year bound
	Census    []models.CensusEntry

	ByYear          []models.YearCount
	ByNeighbourhood []models.NeighbourhoodCount
	ByStreet        []models.StreetCount
	TopStreets      []models.StreetCount
	ByHour          []models.HourCount

	// PerCapita joins the census-year theft counts against population.
	PerCapita   []models.PerCapitaRow
	Unmatched   []string
	ZeroEasting int
	OutOfRange  int
}

// Run executes the full pipeline over the two source files.
func Run(cfg Config) (*Result, error) {
	incidents, err := loadIncidents(cfg.IncidentsPath)
	if err != nil {
		return nil, err
	}
	census, err := loadCensus(cfg.CensusPath)
	if err != nil {
		return nil, err
	}

	res := &Result{Census: census}
	res.Incidents, res.ZeroEasting, res.OutOfRange = Normalize(incidents)
	log.Printf("normalized %d incidents (%d zero-easting, %d out-of-range)",
		len(res.Incidents), res.ZeroEasting, res.OutOfRange)

	res.Thefts = analysis.FilterAutoTheft(res.Incidents, cfg.YearFrom, cfg.YearTo)
	log.Printf("filtered to %d auto thefts in %d-%d", len(res.Thefts), cfg.YearFrom, cfg.YearTo)

	res.ByYear = analysis.CountByYear(res.Thefts)
	res.ByNeighbourhood = analysis.CountByNeighbourhood(res.Thefts)
	res.ByStreet = analysis.CountByStreet(res.Thefts)
	res.TopStreets = analysis.TopStreets(res.ByStreet, cfg.TopStreets)
	res.ByHour = analysis.CountByHour(res.Thefts)

	censusYearThefts := analysis.FilterAutoTheft(res.Incidents, cfg.CensusYear, cfg.CensusYear)
	population := analysis.PopulationLookup(census, cfg.PopulationVariableID)
	res.PerCapita, res.Unmatched = analysis.JoinPerCapita(
		analysis.CountByNeighbourhood(censusYearThefts), population)

	if len(res.Unmatched) > 0 {
		log.Printf("warning: %d neighbourhoods have no census population: %v",
			len(res.Unmatched), res.Unmatched)
	}

	return res, nil
}

// Normalize converts each incident's UTM coordinates to lat/lon, tagging
// records the projection rejects instead of dropping them. It returns a new
// slice; the input is left untouched.
func Normalize(incidents []models.Incident) (out []models.Incident, zeroEasting, outOfRange int) {
	out = make([]models.Incident, len(incidents))
	for i, inc := range incidents {
		p, err := geo.Inverse(inc.Easting, inc.Northing)
		switch err {
		case nil:
			inc.Lat = sql.NullFloat64{Float64: p.Lat, Valid: true}
			inc.Lon = sql.NullFloat64{Float64: p.Lon, Valid: true}
			inc.GeoStatus = models.GeoOK
		case geo.ErrZeroEasting:
			inc.GeoStatus = models.GeoZeroEasting
			metrics.CoordinateAnomalies.WithLabelValues("zero_easting").Inc()
			zeroEasting++
		default:
			inc.GeoStatus = models.GeoOutOfRange
			metrics.CoordinateAnomalies.WithLabelValues("out_of_range").Inc()
			outOfRange++
		}
		inc.AutoTheft = analysis.IsAutoTheft(inc.Type)
		out[i] = inc
	}
	return out, zeroEasting, outOfRange
}

func loadIncidents(path string) ([]models.Incident, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open incidents file: %w", err)
	}
	defer f.Close()

	incidents, err := ingest.ParseIncidents(f)
	if err != nil {
		return nil, err
	}
	log.Printf("parsed %d incidents from %s", len(incidents), path)
	return incidents, nil
}

func loadCensus(path string) ([]models.CensusEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open census file: %w", err)
	}
	defer f.Close()

	entries, err := ingest.ParseCensus(f)
	if err != nil {
		return nil, err
	}
	log.Printf("parsed %d census entries from %s", len(entries), path)
	return entries, nil
}
