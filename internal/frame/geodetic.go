package frame

import "math"

// WGS-84 ellipsoid parameters.
const (
	wgs84A  = 6378.137              // semi-major axis (km)
	wgs84F  = 1.0 / 298.257223563   // flattening
	wgs84E2 = wgs84F * (2 - wgs84F) // first eccentricity squared
)

// Geodetic holds a WGS-84 geodetic position (latitude/longitude in degrees,
// altitude in meters).
type Geodetic struct {
	LatDeg float64 `json:"lat_deg"`
	LonDeg float64 `json:"lon_deg"`
	AltM   float64 `json:"alt_m"`
}

// FromGeodetic returns the ITRS position (km) of a geodetic point.
func FromGeodetic(g Geodetic) Vector[ITRS] {
	lat := g.LatDeg * math.Pi / 180.0
	lon := g.LonDeg * math.Pi / 180.0
	altKm := g.AltM / 1000.0

	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)

	// Radius of curvature in the prime vertical.
	N := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)

	return Vector[ITRS]{
		X: (N + altKm) * cosLat * math.Cos(lon),
		Y: (N + altKm) * cosLat * math.Sin(lon),
		Z: (N*(1-wgs84E2) + altKm) * sinLat,
	}
}

// ToGeodetic converts an ITRS position (km) to geodetic coordinates using
// the iterative Bowring method.
func ToGeodetic(v Vector[ITRS]) Geodetic {
	lon := math.Atan2(v.Y, v.X)
	p := math.Sqrt(v.X*v.X + v.Y*v.Y)

	lat := math.Atan2(v.Z, p*(1-wgs84E2))
	for i := 0; i < 5; i++ {
		sinLat := math.Sin(lat)
		N := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)
		lat = math.Atan2(v.Z+wgs84E2*N*sinLat, p)
	}

	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)
	N := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)

	var altKm float64
	if math.Abs(cosLat) > 1e-10 {
		altKm = p/cosLat - N
	} else {
		altKm = math.Abs(v.Z)/math.Abs(sinLat) - N*(1-wgs84E2)
	}

	return Geodetic{
		LatDeg: lat * 180.0 / math.Pi,
		LonDeg: lon * 180.0 / math.Pi,
		AltM:   altKm * 1000.0,
	}
}

// PlausibleOrbit reports whether an Earth-fixed position (km) is finite and
// between the Earth's surface and a little beyond GEO.
func PlausibleOrbit(v Vector[ITRS]) bool {
	for _, c := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	const minRadius, maxRadius = 6200.0, 50000.0
	mag := v.Norm()
	return mag >= minRadius && mag <= maxRadius
}
