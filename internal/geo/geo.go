// Package geo defines the domain types shared by the Locationator daemon,
// providers, and CLI: coordinates, placemarks, device locations, and the
// accuracy tokens accepted on the wire.
package geo

import "time"

// Coordinate is a WGS84 latitude/longitude pair.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// ValidLatitude reports whether lat is within [-90, 90].
func ValidLatitude(lat float64) bool {
	return lat >= -90 && lat <= 90
}

// ValidLongitude reports whether lon is within [-180, 180].
func ValidLongitude(lon float64) bool {
	return lon >= -180 && lon <= 180
}

// Valid reports whether both components of the coordinate are in range.
func (c Coordinate) Valid() bool {
	return ValidLatitude(c.Latitude) && ValidLongitude(c.Longitude)
}

// Accuracy is the desired accuracy for a current-location request.
// The tokens match the kCLLocationAccuracy* constants of the platform
// location service the daemon fronts.
type Accuracy string

const (
	AccuracyBest        Accuracy = "best"
	AccuracyNavigation  Accuracy = "navigation"
	AccuracyHundredM    Accuracy = "100m"
	AccuracyKilometer   Accuracy = "1km"
	AccuracyTenM        Accuracy = "10m"
	AccuracyReduced     Accuracy = "reduced"
	AccuracyThreeKM     Accuracy = "3km"
)

// ParseAccuracy validates an accuracy token from the wire.
func ParseAccuracy(s string) (Accuracy, error) {
	switch Accuracy(s) {
	case AccuracyBest, AccuracyNavigation, AccuracyHundredM, AccuracyKilometer,
		AccuracyTenM, AccuracyReduced, AccuracyThreeKM:
		return Accuracy(s), nil
	default:
		return "", &ValidationError{Field: "accuracy", Message: "Invalid accuracy"}
	}
}

// PostalAddress is the structured postal address portion of a placemark.
// Field names follow the JSON contract of the original service; absent
// values serialize as empty strings, never null.
type PostalAddress struct {
	Street                string `json:"street"`
	City                  string `json:"city"`
	State                 string `json:"state"`
	Country               string `json:"country"`
	PostalCode            string `json:"postalCode"`
	ISOCountryCode        string `json:"ISOCountryCode"`
	SubAdministrativeArea string `json:"subAdministrativeArea"`
	SubLocality           string `json:"subLocality"`
}

// Placemark is the result of a reverse-geocode lookup. It is immutable
// once produced by a provider and is serialized verbatim to clients.
type Placemark struct {
	// Location is the [latitude, longitude] pair the placemark describes.
	Location               [2]float64    `json:"location"`
	Name                   string        `json:"name"`
	Thoroughfare           string        `json:"thoroughfare"`
	SubThoroughfare        string        `json:"subThoroughfare"`
	Locality               string        `json:"locality"`
	SubLocality            string        `json:"subLocality"`
	AdministrativeArea     string        `json:"administrativeArea"`
	SubAdministrativeArea  string        `json:"subAdministrativeArea"`
	PostalCode             string        `json:"postalCode"`
	ISOCountryCode         string        `json:"ISOcountryCode"`
	Country                string        `json:"country"`
	PostalAddress          PostalAddress `json:"postalAddress"`
	InlandWater            string        `json:"inlandWater"`
	Ocean                  string        `json:"ocean"`
	AreasOfInterest        []string      `json:"areasOfInterest"`
	TimeZoneName           string        `json:"timeZoneName"`
	TimeZoneAbbreviation   string        `json:"timeZoneAbbreviation"`
	TimeZoneSecondsFromGMT int           `json:"timeZoneSecondsFromGMT"`
}

// Location is a device location fix.
type Location struct {
	Latitude           float64
	Longitude          float64
	Altitude           float64
	HorizontalAccuracy float64
	VerticalAccuracy   float64
	Speed              float64
	Course             float64
	Timestamp          time.Time
}
