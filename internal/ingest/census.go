package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mkaplinsky/parksafe/internal/metrics"
	"github.com/mkaplinsky/parksafe/internal/models"
)

// ParseCensus reads the wide-form census profile (one row per statistic,
// one column per neighbourhood) and reshapes it to long form. Value cells
// use thousands separators ("62,030"); blank or non-numeric cells are
// skipped rather than zero-filled so absent statistics stay absent.
func ParseCensus(r io.Reader) ([]models.CensusEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read census header: %w", err)
	}
	if len(header) < 3 {
		return nil, fmt.Errorf("census file: expected ID, Variable and neighbourhood columns, got %d columns", len(header))
	}
	if strings.TrimSpace(header[0]) != "ID" || strings.TrimSpace(header[1]) != "Variable" {
		return nil, fmt.Errorf("census file: first columns must be ID, Variable; got %q, %q", header[0], header[1])
	}

	neighbourhoods := make([]string, len(header))
	for i := 2; i < len(header); i++ {
		neighbourhoods[i] = strings.TrimSpace(header[i])
	}

	var entries []models.CensusEntry
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read census row: %w", err)
		}
		if len(row) < 3 {
			metrics.RowsSkipped.WithLabelValues("short_census_row").Inc()
			continue
		}

		id, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			metrics.RowsSkipped.WithLabelValues("bad_census_id").Inc()
			continue
		}
		variable := strings.TrimSpace(row[1])

		for i := 2; i < len(row) && i < len(header); i++ {
			cell := strings.ReplaceAll(strings.TrimSpace(row[i]), ",", "")
			if cell == "" {
				continue
			}
			value, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				continue
			}
			entries = append(entries, models.CensusEntry{
				VariableID:    id,
				Variable:      variable,
				Neighbourhood: neighbourhoods[i],
				Value:         value,
			})
		}
	}

	return entries, nil
}
