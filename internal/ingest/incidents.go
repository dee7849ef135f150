// Package ingest loads the two source datasets: the municipal crime extract
// and the census local-area profile.
package ingest

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mkaplinsky/parksafe/internal/metrics"
	"github.com/mkaplinsky/parksafe/internal/models"
)

// Columns the incident extract must carry. A missing column is a malformed
// source file and aborts the run.
var incidentColumns = []string{
	"TYPE", "YEAR", "MONTH", "DAY", "HOUR", "MINUTE",
	"HUNDRED_BLOCK", "NEIGHBOURHOOD", "X", "Y",
}

// ParseIncidents reads the crime extract CSV. Rows with an unparseable year
// are skipped and counted; blank HOUR/MINUTE cells are zero-filled per the
// source convention, and blank coordinates become (0, 0), which the
// normalizer later tags as the zero-easting anomaly.
func ParseIncidents(r io.Reader) ([]models.Incident, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read incident header: %w", err)
	}

	idx, err := columnIndex(header, incidentColumns)
	if err != nil {
		return nil, fmt.Errorf("incident file: %w", err)
	}

	var incidents []models.Incident
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read incident row: %w", err)
		}

		year, err := strconv.Atoi(strings.TrimSpace(row[idx["YEAR"]]))
		if err != nil {
			metrics.RowsSkipped.WithLabelValues("bad_year").Inc()
			continue
		}

		inc := models.Incident{
			Type:         strings.TrimSpace(row[idx["TYPE"]]),
			Year:         year,
			Month:        intOrZero(row[idx["MONTH"]]),
			Day:          intOrZero(row[idx["DAY"]]),
			Hour:         intOrZero(row[idx["HOUR"]]),
			Minute:       intOrZero(row[idx["MINUTE"]]),
			HundredBlock: strings.TrimSpace(row[idx["HUNDRED_BLOCK"]]),
			Easting:      floatOrZero(row[idx["X"]]),
			Northing:     floatOrZero(row[idx["Y"]]),
		}

		if name := strings.TrimSpace(row[idx["NEIGHBOURHOOD"]]); name != "" {
			inc.Neighbourhood = sql.NullString{String: name, Valid: true}
		}

		incidents = append(incidents, inc)
		metrics.IncidentsParsed.Inc()
	}

	return incidents, nil
}

// columnIndex maps required column names to their positions, reporting every
// missing column at once so the user fixes the file in one pass.
func columnIndex(header, required []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range required {
		if _, ok := idx[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

func intOrZero(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}

func floatOrZero(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
