package geo

import (
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/sams96/rgeo"
)

// ResolverInterface is the narrow coordinate→country contract consumed
// by the aggregation engine.
type ResolverInterface interface {
	Resolve(lat, lng float64) (string, bool)
}

// Resolver maps a geographic coordinate to a normalized country label
// via an offline point-in-polygon dataset. Resolution is a pure
// function: same input, same output.
type Resolver struct {
	rg *rgeo.Rgeo
}

func NewResolver() (ResolverInterface, error) {
	rg, err := rgeo.New(rgeo.Countries110)
	if err != nil {
		return nil, err
	}
	return &Resolver{rg: rg}, nil
}

// Hand-tuned boxes: the polygon dataset frequently mis-attributes the
// Greenland coast, so anything inside the Greenland box (minus the
// Iceland box carved out of it) is forced to "Greenland" before the
// geocoder runs.
type boundingBox struct {
	minLat, maxLat float64
	minLng, maxLng float64
}

var (
	greenlandBox = boundingBox{minLat: 59.0, maxLat: 84.0, minLng: -75.0, maxLng: -10.0}
	icelandBox   = boundingBox{minLat: 63.0, maxLat: 67.0, minLng: -25.0, maxLng: -12.0}
)

func (b boundingBox) contains(lat, lng float64) bool {
	return lat >= b.minLat && lat <= b.maxLat && lng >= b.minLng && lng <= b.maxLng
}

var greenlandNames = map[string]bool{
	"greenland":        true,
	"grønland":         true,
	"kalaallit nunaat": true,
}

func (r *Resolver) Resolve(lat, lng float64) (string, bool) {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return "", false
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return "", false
	}

	if greenlandBox.contains(lat, lng) && !icelandBox.contains(lat, lng) {
		return "Greenland", true
	}

	loc, err := r.rg.ReverseGeocode([]float64{lng, lat})
	if err != nil {
		if !errors.Is(err, rgeo.ErrLocationNotFound) {
			return "", false
		}
		return "", false
	}

	name := firstNonEmpty(loc.Country, loc.CountryLong)
	iso := firstNonEmpty(loc.CountryCode2, loc.CountryCode3)

	if strings.EqualFold(iso, "GL") || greenlandNames[strings.ToLower(strings.TrimSpace(name))] {
		return "Greenland", true
	}

	label := NormalizeLabel(name)
	if label == "" {
		return "", false
	}
	return label, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// canonicalLabels maps official long-form names to the short labels used
// by the map-rendering dataset.
var canonicalLabels = map[string]string{
	"United States of America":                             "United States",
	"United Kingdom of Great Britain and Northern Ireland": "United Kingdom",
	"Russian Federation":                                   "Russia",
	"Democratic Republic of the Congo":                     "Dem. Rep. Congo",
	"Republic of the Congo":                                "Congo",
	"United Republic of Tanzania":                          "Tanzania",
	"Bolivia (Plurinational State of)":                     "Bolivia",
	"Venezuela (Bolivarian Republic of)":                   "Venezuela",
	"Iran (Islamic Republic of)":                           "Iran",
	"Syrian Arab Republic":                                 "Syria",
	"Lao People's Democratic Republic":                     "Laos",
	"Republic of Korea":                                    "South Korea",
	"Democratic People's Republic of Korea":                "North Korea",
	"Republic of Moldova":                                  "Moldova",
	"Czech Republic":                                       "Czechia",
	"Brunei Darussalam":                                    "Brunei",
	"Viet Nam":                                             "Vietnam",
	"Côte d'Ivoire":                                        "Ivory Coast",
	"Myanmar (Burma)":                                      "Myanmar",
	"Republic of North Macedonia":                          "North Macedonia",
	"Cabo Verde":                                           "Cape Verde",
}

// MapFeatureLabels returns the display names the map-rendering dataset
// uses for countries whose official names diverge from it. Labels not
// listed here already match the dataset verbatim.
func MapFeatureLabels() []string {
	labels := make([]string, 0, len(canonicalLabels)+1)
	for _, label := range canonicalLabels {
		labels = append(labels, label)
	}
	labels = append(labels, "Greenland")
	sort.Strings(labels)
	return labels
}

var genericPrefixes = []string{
	"Republic of ",
	"Kingdom of ",
	"State of ",
	"The ",
}

var genericSuffixes = []string{
	" of America",
	" of Great Britain and Northern Ireland",
}

// NormalizeLabel reduces an official country name to the short canonical
// label: table lookup first, then generic prefix/suffix stripping.
func NormalizeLabel(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if label, ok := canonicalLabels[name]; ok {
		return label
	}
	for _, prefix := range genericPrefixes {
		if strings.HasPrefix(name, prefix) {
			name = name[len(prefix):]
			break
		}
	}
	for _, suffix := range genericSuffixes {
		if strings.HasSuffix(name, suffix) {
			name = name[:len(name)-len(suffix)]
			break
		}
	}
	return strings.TrimSpace(name)
}
