// Package exifutil reads GPS coordinates from image metadata and writes
// reverse-geocode results back out as XMP sidecars.
package exifutil

import (
	"errors"
	"fmt"
	"os"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/locationator/locationator/internal/geo"
)

// ErrNoGPS is returned when an image carries no GPS latitude/longitude.
var ErrNoGPS = errors.New("could not find GPS latitude/longitude in metadata")

// Coordinates extracts the GPS position from an image file's EXIF data.
func Coordinates(path string) (geo.Coordinate, error) {
	f, err := os.Open(path)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("decode EXIF from %s: %w", path, err)
	}

	lat, lon, err := x.LatLong()
	if err != nil {
		return geo.Coordinate{}, ErrNoGPS
	}

	coord := geo.Coordinate{Latitude: lat, Longitude: lon}
	if !coord.Valid() {
		return geo.Coordinate{}, ErrNoGPS
	}
	return coord, nil
}
