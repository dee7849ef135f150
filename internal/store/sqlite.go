// Package store persists the ingested datasets and the derived aggregate
// tables to SQLite, so a finished run can be inspected with sqlite3 and the
// map/report stages can query records back out.
package store

import (
	"database/sql"
	"fmt"

	"github.com/mkaplinsky/parksafe/internal/models"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// ReplaceIncidents swaps the incidents table for the given batch in one
// transaction. Each run rebuilds the table from the source file; there is
// no cross-run state to reconcile.
func (s *Store) ReplaceIncidents(incidents []models.Incident) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM incidents"); err != nil {
		return fmt.Errorf("clear incidents: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO incidents (type, year, month, day, hour, minute, hundred_block, neighbourhood, easting, northing, lat, lon, geo_status, auto_theft)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, inc := range incidents {
		if _, err := stmt.Exec(
			inc.Type, inc.Year, inc.Month, inc.Day, inc.Hour, inc.Minute,
			inc.HundredBlock, inc.Neighbourhood, inc.Easting, inc.Northing,
			inc.Lat, inc.Lon, inc.GeoStatus, inc.AutoTheft,
		); err != nil {
			return fmt.Errorf("insert incident: %w", err)
		}
	}

	return tx.Commit()
}

// ReplaceCensus swaps the census table for the given long-form entries.
func (s *Store) ReplaceCensus(entries []models.CensusEntry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM census"); err != nil {
		return fmt.Errorf("clear census: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO census (variable_id, variable, neighbourhood, value)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(variable_id, neighbourhood) DO UPDATE SET
			variable = excluded.variable,
			value = excluded.value
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(e.VariableID, e.Variable, e.Neighbourhood, e.Value); err != nil {
			return fmt.Errorf("insert census entry: %w", err)
		}
	}

	return tx.Commit()
}

// SaveYearCounts writes the by-year aggregate.
func (s *Store) SaveYearCounts(counts []models.YearCount) error {
	return s.replaceRows("theft_counts_year",
		"INSERT INTO theft_counts_year (year, count) VALUES (?, ?)",
		len(counts), func(i int) []any {
			return []any{counts[i].Year, counts[i].Count}
		})
}

// SaveNeighbourhoodRates writes the per-capita aggregate. Null populations
// and rates stay null in the table so a missing join is visible downstream.
func (s *Store) SaveNeighbourhoodRates(rows []models.PerCapitaRow) error {
	return s.replaceRows("theft_counts_neighbourhood",
		"INSERT INTO theft_counts_neighbourhood (neighbourhood, count, population, per_thousand) VALUES (?, ?, ?, ?)",
		len(rows), func(i int) []any {
			return []any{rows[i].Neighbourhood, rows[i].Count, rows[i].Population, rows[i].PerThousand}
		})
}

// SaveStreetCounts writes the by-street aggregate.
func (s *Store) SaveStreetCounts(counts []models.StreetCount) error {
	return s.replaceRows("theft_counts_street",
		"INSERT INTO theft_counts_street (street, count) VALUES (?, ?)",
		len(counts), func(i int) []any {
			return []any{counts[i].Street, counts[i].Count}
		})
}

// SaveHourCounts writes the by-hour aggregate.
func (s *Store) SaveHourCounts(counts []models.HourCount) error {
	return s.replaceRows("theft_counts_hour",
		"INSERT INTO theft_counts_hour (hour, count) VALUES (?, ?)",
		len(counts), func(i int) []any {
			return []any{counts[i].Hour, counts[i].Count}
		})
}

func (s *Store) replaceRows(table, insert string, n int, args func(int) []any) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM " + table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}

	stmt, err := tx.Prepare(insert)
	if err != nil {
		return fmt.Errorf("prepare %s insert: %w", table, err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if _, err := stmt.Exec(args(i)...); err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
	}

	return tx.Commit()
}

// GetMappableThefts returns auto-theft incidents with valid coordinates for
// the interactive map, in a stable order. Records tagged with a coordinate
// anomaly never appear here, per the zero-easting policy. limit <= 0 means
// no limit.
func (s *Store) GetMappableThefts(yearFrom, yearTo, limit int) ([]models.Incident, error) {
	query := `
		SELECT id, type, year, month, day, hour, minute, hundred_block, neighbourhood, easting, northing, lat, lon, geo_status
		FROM incidents
		WHERE auto_theft = TRUE AND geo_status = 'ok' AND year >= ? AND year <= ?
		ORDER BY year, month, day, hour, minute, id
	`
	args := []any{yearFrom, yearTo}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var incidents []models.Incident
	for rows.Next() {
		var inc models.Incident
		if err := rows.Scan(&inc.ID, &inc.Type, &inc.Year, &inc.Month, &inc.Day, &inc.Hour, &inc.Minute,
			&inc.HundredBlock, &inc.Neighbourhood, &inc.Easting, &inc.Northing,
			&inc.Lat, &inc.Lon, &inc.GeoStatus); err != nil {
			return nil, err
		}
		incidents = append(incidents, inc)
	}
	return incidents, rows.Err()
}

// CountThefts returns the stored auto-theft count inside the year bound,
// used as a cross-check against the in-memory aggregation.
func (s *Store) CountThefts(yearFrom, yearTo int) (int, error) {
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM incidents WHERE auto_theft = TRUE AND year >= ? AND year <= ?
	`, yearFrom, yearTo).Scan(&n)
	return n, err
}
