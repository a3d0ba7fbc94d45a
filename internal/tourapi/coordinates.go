package tourapi

import (
	"math"
	"strconv"
	"strings"
)

// coordinateScale converts the upstream fixed-point encoding to degrees.
const coordinateScale = 1e7

// Coordinates is a WGS84 point in decimal degrees.
type Coordinates struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

// Valid reports whether both components are finite numbers.
func (c Coordinates) Valid() bool {
	return !math.IsNaN(c.Lng) && !math.IsNaN(c.Lat) && !math.IsInf(c.Lng, 0) && !math.IsInf(c.Lat, 0)
}

// ConvertCoordinates converts mapx/mapy (e.g. "1269125690") to degrees.
// A component that is not numeric comes back as NaN.
func ConvertCoordinates(mapx, mapy string) Coordinates {
	return Coordinates{
		Lng: scaleCoordinate(mapx),
		Lat: scaleCoordinate(mapy),
	}
}

func scaleCoordinate(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v / coordinateScale
}
