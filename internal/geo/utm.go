// Package geo converts the planar UTM zone 10 coordinates carried by the
// incident extract into WGS84 latitude/longitude.
package geo

import (
	"errors"
	"math"
)

// WGS84 ellipsoid and UTM zone 10 north parameters.
const (
	semiMajor  = 6378137.0
	flattening = 1 / 298.257223563
	scale      = 0.9996

	centralMeridian = -123.0 // zone 10
	falseEasting    = 500000.0

	maxEasting  = 1e6
	maxNorthing = 1e7
)

var (
	// ErrZeroEasting marks the known source-data artifact where an unset
	// coordinate lands exactly on the false-easting boundary. The inverse
	// projection would still yield a number (a longitude near 127.49 E), so
	// the record must be tagged rather than mapped.
	ErrZeroEasting = errors.New("geo: easting is zero")

	// ErrOutOfRange marks NaN, infinite, or wildly out-of-zone input.
	ErrOutOfRange = errors.New("geo: coordinate out of range")
)

// Point is a geographic coordinate in degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Inverse converts a UTM zone 10 north (easting, northing) pair to WGS84
// latitude/longitude using the closed-form series expansion (Snyder,
// "Map Projections: A Working Manual", eq. 8-17..8-25). The computation is
// deterministic: identical input always produces identical output.
func Inverse(easting, northing float64) (Point, error) {
	if easting == 0 {
		return Point{}, ErrZeroEasting
	}
	if !inRange(easting, northing) {
		return Point{}, ErrOutOfRange
	}

	e2 := flattening * (2 - flattening)
	ep2 := e2 / (1 - e2)

	x := easting - falseEasting
	m := northing / scale

	mu := m / (semiMajor * (1 - e2/4 - 3*e2*e2/64 - 5*e2*e2*e2/256))
	e1 := (1 - math.Sqrt(1-e2)) / (1 + math.Sqrt(1-e2))

	// Footpoint latitude.
	phi1 := mu +
		(3*e1/2-27*e1*e1*e1/32)*math.Sin(2*mu) +
		(21*e1*e1/16-55*e1*e1*e1*e1/32)*math.Sin(4*mu) +
		(151*e1*e1*e1/96)*math.Sin(6*mu) +
		(1097*e1*e1*e1*e1/512)*math.Sin(8*mu)

	sinPhi1 := math.Sin(phi1)
	cosPhi1 := math.Cos(phi1)
	tanPhi1 := sinPhi1 / cosPhi1

	c1 := ep2 * cosPhi1 * cosPhi1
	t1 := tanPhi1 * tanPhi1
	n1 := semiMajor / math.Sqrt(1-e2*sinPhi1*sinPhi1)
	r1 := semiMajor * (1 - e2) / math.Pow(1-e2*sinPhi1*sinPhi1, 1.5)
	d := x / (n1 * scale)

	lat := phi1 - (n1*tanPhi1/r1)*
		(d*d/2-
			(5+3*t1+10*c1-4*c1*c1-9*ep2)*d*d*d*d/24+
			(61+90*t1+298*c1+45*t1*t1-252*ep2-3*c1*c1)*d*d*d*d*d*d/720)

	lon := (d -
		(1+2*t1+c1)*d*d*d/6 +
		(5-2*c1+28*t1-3*c1*c1+8*ep2+24*t1*t1)*d*d*d*d*d/120) / cosPhi1

	return Point{
		Lat: lat * 180 / math.Pi,
		Lon: centralMeridian + lon*180/math.Pi,
	}, nil
}

func inRange(easting, northing float64) bool {
	if math.IsNaN(easting) || math.IsInf(easting, 0) ||
		math.IsNaN(northing) || math.IsInf(northing, 0) {
		return false
	}
	return easting > 0 && easting < maxEasting && northing >= 0 && northing <= maxNorthing
}
