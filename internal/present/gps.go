// BYZRA ⸻ internal/present/gps.go
// gps view composed from the latitude/longitude tag quartet

package present

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bradfitz/latlong"

	"exifdrop/internal/tagset"
)

const mapsBase = "https://www.google.com/maps"

// GPSView is the location panel. Latitude and Longitude are display strings
// with six decimals; MapURL carries the unrounded coordinates and is empty
// when they could not be read.
type GPSView struct {
	Latitude  string  `json:"latitude"`
	Longitude string  `json:"longitude"`
	Altitude  string  `json:"altitude,omitempty"`
	GPSDate   string  `json:"gps_date,omitempty"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	MapURL    string  `json:"map_url"`
	TimeZone  string  `json:"time_zone,omitempty"`
}

// Items flattens the view into rows for list-style renderers.
func (g GPSView) Items() []Item {
	items := []Item{
		{Label: "Latitude", Value: g.Latitude},
		{Label: "Longitude", Value: g.Longitude},
	}
	if g.Altitude != "" {
		items = append(items, Item{Label: "Altitude", Value: g.Altitude})
	}
	if g.GPSDate != "" {
		items = append(items, Item{Label: "GPS Date", Value: g.GPSDate})
	}
	if g.TimeZone != "" {
		items = append(items, Item{Label: "Time Zone", Value: g.TimeZone})
	}
	return items
}

// GPS builds the location view. It needs all of GPSLatitude, GPSLongitude,
// GPSLatitudeRef and GPSLongitudeRef; anything less and the view is absent.
// Coordinates whose descriptions are not degrees are shown as described,
// with no map link or time zone.
func GPS(tags tagset.TagSet) (GPSView, bool) {
	lat, okLat := tags.Get("GPSLatitude")
	lon, okLon := tags.Get("GPSLongitude")
	latRef, okLatRef := tags.Get("GPSLatitudeRef")
	lonRef, okLonRef := tags.Get("GPSLongitudeRef")
	if !okLat || !okLon || !okLatRef || !okLonRef {
		return GPSView{}, false
	}

	latHemi := refLetter(latRef)
	lonHemi := refLetter(lonRef)

	var g GPSView
	if alt, ok := tags.Get("GPSAltitude"); ok {
		g.Altitude = alt.String()
	}
	if date, ok := tags.Get("GPSDateStamp"); ok {
		g.GPSDate = date.String()
	}

	latDeg, latErr := parseDegrees(lat)
	lonDeg, lonErr := parseDegrees(lon)
	if latErr != nil || lonErr != nil {
		g.Latitude = strings.TrimSpace(lat.String() + " " + latHemi)
		g.Longitude = strings.TrimSpace(lon.String() + " " + lonHemi)
		return g, true
	}

	g.Latitude = fmt.Sprintf("%.6f° %s", latDeg, latHemi)
	g.Longitude = fmt.Sprintf("%.6f° %s", lonDeg, lonHemi)
	g.Lat = signed(latDeg, latHemi, "S")
	g.Lon = signed(lonDeg, lonHemi, "W")
	g.MapURL = MapURL(g.Lat, g.Lon)
	g.TimeZone = latlong.LookupZoneName(g.Lat, g.Lon)
	return g, true
}

// MapURL links to the coordinates, shortest float form, no rounding.
func MapURL(lat, lon float64) string {
	q := strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lon, 'f', -1, 64)
	return mapsBase + "?q=" + q
}

func parseDegrees(t tagset.Tag) (float64, error) {
	s := strings.TrimSpace(t.String())
	s = strings.TrimSuffix(s, "°")
	return strconv.ParseFloat(s, 64)
}

// raw hemisphere letter, as stored in the ref tag's value
func refLetter(t tagset.Tag) string {
	if s, ok := t.Value.(string); ok && s != "" {
		return strings.TrimSpace(s)
	}
	return t.String()
}

// unsigned degrees in the southern/western hemisphere become negative;
// already signed values are kept
func signed(deg float64, hemi, negative string) float64 {
	if deg > 0 && strings.EqualFold(hemi, negative) {
		return -deg
	}
	return deg
}
