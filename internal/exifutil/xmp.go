package exifutil

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"github.com/locationator/locationator/internal/geo"
)

// XMPFields are the location fields written to an XMP sidecar. The
// property names follow the IPTC Core and Photoshop schemas so photo
// managers pick them up.
type XMPFields struct {
	CountryCode string // Iptc4xmpCore:CountryCode
	Country     string // photoshop:Country
	State       string // photoshop:State
	City        string // photoshop:City
	Location    string // Iptc4xmpCore:Location
}

// XMPFieldsFromPlacemark maps a reverse-geocode result onto the XMP
// location fields.
func XMPFieldsFromPlacemark(pm *geo.Placemark) XMPFields {
	return XMPFields{
		CountryCode: pm.ISOCountryCode,
		Country:     pm.Country,
		State:       pm.AdministrativeArea,
		City:        pm.Locality,
		Location:    pm.Name,
	}
}

// Map returns the fields keyed by their XMP property names, in the shape
// they are reported to the user.
func (f XMPFields) Map() map[string]string {
	return map[string]string{
		"Iptc4xmpCore:CountryCode": f.CountryCode,
		"photoshop:Country":        f.Country,
		"photoshop:State":          f.State,
		"photoshop:City":           f.City,
		"Iptc4xmpCore:Location":    f.Location,
	}
}

type xmpDescription struct {
	XMLName      xml.Name `xml:"rdf:Description"`
	About        string   `xml:"rdf:about,attr"`
	IptcNS       string   `xml:"xmlns:Iptc4xmpCore,attr"`
	PhotoshopNS  string   `xml:"xmlns:photoshop,attr"`
	CountryCode  string   `xml:"Iptc4xmpCore:CountryCode"`
	Country      string   `xml:"photoshop:Country"`
	State        string   `xml:"photoshop:State"`
	City         string   `xml:"photoshop:City"`
	Location     string   `xml:"Iptc4xmpCore:Location"`
}

type xmpRDF struct {
	XMLName     xml.Name `xml:"rdf:RDF"`
	RDFNS       string   `xml:"xmlns:rdf,attr"`
	Description xmpDescription
}

type xmpMeta struct {
	XMLName xml.Name `xml:"x:xmpmeta"`
	XNS     string   `xml:"xmlns:x,attr"`
	RDF     xmpRDF
}

// SidecarPath returns the XMP sidecar path for an image: the image path
// with its extension replaced by .xmp.
func SidecarPath(imagePath string) string {
	if idx := strings.LastIndex(imagePath, "."); idx > strings.LastIndexByte(imagePath, os.PathSeparator) {
		return imagePath[:idx] + ".xmp"
	}
	return imagePath + ".xmp"
}

// WriteSidecar writes the fields as an XMP sidecar next to the image and
// returns the sidecar path. An existing sidecar is overwritten.
func WriteSidecar(imagePath string, fields XMPFields) (string, error) {
	meta := xmpMeta{
		XNS: "adobe:ns:meta/",
		RDF: xmpRDF{
			RDFNS: "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
			Description: xmpDescription{
				IptcNS:      "http://iptc.org/std/Iptc4xmpCore/1.0/xmlns/",
				PhotoshopNS: "http://ns.adobe.com/photoshop/1.0/",
				CountryCode: fields.CountryCode,
				Country:     fields.Country,
				State:       fields.State,
				City:        fields.City,
				Location:    fields.Location,
			},
		},
	}

	body, err := xml.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal XMP: %w", err)
	}

	path := SidecarPath(imagePath)
	content := xml.Header + string(body) + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write sidecar %s: %w", path, err)
	}
	return path, nil
}
