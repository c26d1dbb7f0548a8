package exifutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locationator/locationator/internal/geo"
)

func TestCoordinates_MissingFile(t *testing.T) {
	_, err := Coordinates(filepath.Join(t.TempDir(), "nope.jpg"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.jpg")
}

func TestCoordinates_NotAnImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	_, err := Coordinates(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode EXIF")
}

func TestXMPFieldsFromPlacemark(t *testing.T) {
	pm := &geo.Placemark{
		Name:               "SoFi Stadium",
		Locality:           "Inglewood",
		AdministrativeArea: "CA",
		ISOCountryCode:     "US",
		Country:            "United States",
	}

	fields := XMPFieldsFromPlacemark(pm)

	assert.Equal(t, "US", fields.CountryCode)
	assert.Equal(t, "United States", fields.Country)
	assert.Equal(t, "CA", fields.State)
	assert.Equal(t, "Inglewood", fields.City)
	assert.Equal(t, "SoFi Stadium", fields.Location)

	m := fields.Map()
	assert.Equal(t, "US", m["Iptc4xmpCore:CountryCode"])
	assert.Equal(t, "Inglewood", m["photoshop:City"])
	assert.Len(t, m, 5)
}

func TestSidecarPath(t *testing.T) {
	assert.Equal(t, "/photos/img_0001.xmp", SidecarPath("/photos/img_0001.jpg"))
	assert.Equal(t, "/photos/clip.xmp", SidecarPath("/photos/clip.mov"))
	// No extension: append rather than truncate
	assert.Equal(t, "/photos/raw.xmp", SidecarPath("/photos/raw"))
	// Dot in a directory name must not be mistaken for an extension
	assert.Equal(t, "/ph.otos/raw.xmp", SidecarPath("/ph.otos/raw"))
}

func TestWriteSidecar(t *testing.T) {
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "img_0001.jpg")

	fields := XMPFields{
		CountryCode: "US",
		Country:     "United States",
		State:       "CA",
		City:        "Inglewood",
		Location:    "SoFi Stadium",
	}

	path, err := WriteSidecar(imagePath, fields)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "img_0001.xmp"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	body := string(content)
	assert.Contains(t, body, "<x:xmpmeta")
	assert.Contains(t, body, `xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"`)
	assert.Contains(t, body, "<Iptc4xmpCore:CountryCode>US</Iptc4xmpCore:CountryCode>")
	assert.Contains(t, body, "<photoshop:Country>United States</photoshop:Country>")
	assert.Contains(t, body, "<photoshop:State>CA</photoshop:State>")
	assert.Contains(t, body, "<photoshop:City>Inglewood</photoshop:City>")
	assert.Contains(t, body, "<Iptc4xmpCore:Location>SoFi Stadium</Iptc4xmpCore:Location>")
}

func TestWriteSidecar_Overwrites(t *testing.T) {
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "img.jpg")

	_, err := WriteSidecar(imagePath, XMPFields{City: "Inglewood"})
	require.NoError(t, err)
	path, err := WriteSidecar(imagePath, XMPFields{City: "Los Angeles"})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Los Angeles")
	assert.NotContains(t, string(content), "Inglewood")
}
