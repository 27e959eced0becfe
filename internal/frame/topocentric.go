package frame

import "math"

// Horizontal is a direction in an observer's local horizon system.
type Horizontal struct {
	AzimuthDeg   float64 `json:"azimuth_deg"`   // 0 = north, clockwise
	ElevationDeg float64 `json:"elevation_deg"` // 0 = horizon, 90 = zenith
	RangeKm      float64 `json:"range_km"`
}

// LookAngles returns the geometric direction from observer to target (ITRS,
// km). Refraction is not applied.
//
// The range vector is rotated into SEZ (south, east, zenith) per Vallado
// section 4.4.
func LookAngles(observer Geodetic, target Vector[ITRS]) Horizontal {
	rho := target.Sub(FromGeodetic(observer))

	lat := observer.LatDeg * math.Pi / 180.0
	lon := observer.LonDeg * math.Pi / 180.0
	sinLat, cosLat := math.Sin(lat), math.Cos(lat)
	sinLon, cosLon := math.Sin(lon), math.Cos(lon)

	south := sinLat*cosLon*rho.X + sinLat*sinLon*rho.Y - cosLat*rho.Z
	east := -sinLon*rho.X + cosLon*rho.Y
	zenith := cosLat*cosLon*rho.X + cosLat*sinLon*rho.Y + sinLat*rho.Z

	rng := rho.Norm()
	if rng == 0 {
		return Horizontal{ElevationDeg: 90}
	}

	// North is -south.
	az := math.Atan2(east, -south)
	if az < 0 {
		az += 2 * math.Pi
	}

	return Horizontal{
		AzimuthDeg:   az * 180.0 / math.Pi,
		ElevationDeg: math.Asin(zenith/rng) * 180.0 / math.Pi,
		RangeKm:      rng,
	}
}
