package models

import (
	"database/sql"
)

// Geo status values set by the coordinate normalizer.
const (
	GeoOK          = "ok"
	GeoZeroEasting = "zero_easting" // easting exactly 0: edge-of-zone artifact, not a real location
	GeoOutOfRange  = "out_of_range"
)

// NoneListed is the neighbourhood label used for incidents without one.
const NoneListed = "None Listed"

type Incident struct {
	ID            int64
	Type          string
	Year          int
	Month         int
	Day           int
	Hour          int
	Minute        int
	HundredBlock  string
	Neighbourhood sql.NullString
	Easting       float64
	Northing      float64
	Lat           sql.NullFloat64
	Lon           sql.NullFloat64
	GeoStatus     string
	AutoTheft     bool
}

// NeighbourhoodLabel returns the neighbourhood name, or NoneListed when the
// source left it blank.
func (i Incident) NeighbourhoodLabel() string {
	if i.Neighbourhood.Valid {
		return i.Neighbourhood.String
	}
	return NoneListed
}

// CensusEntry is one (variable, neighbourhood) observation in long form,
// reshaped from the wide census profile CSV.
type CensusEntry struct {
	VariableID    int
	Variable      string
	Neighbourhood string
	Value         float64
}

type YearCount struct {
	Year  int
	Count int
}

type NeighbourhoodCount struct {
	Neighbourhood string
	Count         int
}

type StreetCount struct {
	Street string
	Count  int
}

type HourCount struct {
	Hour  int
	Count int
}

// PerCapitaRow is a neighbourhood count joined against census population.
// Population and PerThousand are null when the neighbourhood has no census
// match or a zero population.
type PerCapitaRow struct {
	Neighbourhood string
	Count         int
	Population    sql.NullFloat64
	PerThousand   sql.NullFloat64
}
