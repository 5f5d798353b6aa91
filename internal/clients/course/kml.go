package course

import (
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"

	kml "github.com/twpayne/go-kml/v2"
)

// KML course documents carry one placemark per tee and green, named
// "Hole <n> Tee" / "Hole <n> Green", with the par in the placemark
// description ("Par 4"). This matches the export format of the course
// mapping tools the feed is built from.

var (
	holeNameRe = regexp.MustCompile(`(?i)^hole\s+(\d+)\s+(tee|green)$`)
	parRe      = regexp.MustCompile(`(?i)par\s*(\d)`)
)

// go-kml only writes KML, so reading uses plain xml decoding. Only the
// elements the feed format uses are declared.
type kmlRoot struct {
	Document *kmlDocument `xml:"Document"`
}

type kmlDocument struct {
	Name       string         `xml:"name"`
	Folders    []kmlFolder    `xml:"Folder"`
	Placemarks []kmlPlacemark `xml:"Placemark"`
}

type kmlFolder struct {
	Placemarks []kmlPlacemark `xml:"Placemark"`
}

type kmlPlacemark struct {
	Name        string `xml:"name"`
	Description string `xml:"description"`
	Coordinates string `xml:"Point>coordinates"`
}

// ParseCourseKML reads a KML course document and assembles its holes.
// Placemarks that don't pair up into a complete tee/green set are dropped
// with a warning rather than failing the whole course.
func ParseCourseKML(r io.Reader) (*CourseData, error) {
	var root kmlRoot
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("failed to parse course KML: %w", err)
	}

	if root.Document == nil {
		return nil, fmt.Errorf("course KML has no document")
	}

	data := &CourseData{Name: root.Document.Name}

	partial := map[int]*Hole{}
	for _, folder := range root.Document.Folders {
		for _, placemark := range folder.Placemarks {
			collectPlacemark(placemark, partial)
		}
	}
	for _, placemark := range root.Document.Placemarks {
		collectPlacemark(placemark, partial)
	}

	nums := make([]int, 0, len(partial))
	for num := range partial {
		nums = append(nums, num)
	}
	sort.Ints(nums)

	for _, num := range nums {
		hole := partial[num]
		if !hole.Valid() {
			slog.Warn("skipping KML hole without a complete tee/green pair",
				"course", data.Name, "hole", num)
			continue
		}
		data.Holes = append(data.Holes, *hole)
	}

	if len(data.Holes) == 0 {
		return nil, fmt.Errorf("course KML contains no usable holes")
	}

	// Course reference coordinate: first hole's tee
	data.Lat = data.Holes[0].TeeLat
	data.Lng = data.Holes[0].TeeLng

	return data, nil
}

// collectPlacemark folds one placemark into the per-hole accumulator
func collectPlacemark(placemark kmlPlacemark, partial map[int]*Hole) {
	match := holeNameRe.FindStringSubmatch(strings.TrimSpace(placemark.Name))
	if match == nil {
		return
	}
	num, err := strconv.Atoi(match[1])
	if err != nil || num < 1 {
		return
	}

	lng, lat, ok := firstCoordinate(placemark.Coordinates)
	if !ok {
		return
	}

	hole, exists := partial[num]
	if !exists {
		// Sentinel coordinates fail Valid() until both placemarks arrive
		hole = &Hole{Num: num, TeeLat: 91, TeeLng: 181, GreenLat: 91, GreenLng: 181}
		partial[num] = hole
	}

	switch strings.ToLower(match[2]) {
	case "tee":
		hole.TeeLat, hole.TeeLng = lat, lng
	case "green":
		hole.GreenLat, hole.GreenLng = lat, lng
	}

	if hole.Par == 0 {
		if parMatch := parRe.FindStringSubmatch(placemark.Description); parMatch != nil {
			hole.Par, _ = strconv.Atoi(parMatch[1])
		}
	}
}

// firstCoordinate extracts the first "longitude,latitude[,altitude]" tuple
// from a KML coordinates element.
func firstCoordinate(raw string) (lng, lat float64, ok bool) {
	fields := strings.Fields(strings.TrimSpace(raw))
	if len(fields) == 0 {
		return 0, 0, false
	}
	parts := strings.Split(fields[0], ",")
	if len(parts) < 2 {
		return 0, 0, false
	}
	lng, errLng := strconv.ParseFloat(parts[0], 64)
	lat, errLat := strconv.ParseFloat(parts[1], 64)
	if errLng != nil || errLat != nil {
		return 0, 0, false
	}
	return lng, lat, true
}

// WriteCourseKML emits a course as a KML document in the same placemark
// scheme ParseCourseKML reads, one tee and one green placemark per hole.
func WriteCourseKML(w io.Writer, data *CourseData) error {
	doc := kml.Document(kml.Name(data.Name))
	for _, hole := range data.Holes {
		tee := kml.Placemark(
			kml.Name(fmt.Sprintf("Hole %d Tee", hole.Num)),
			kml.Point(kml.Coordinates(kml.Coordinate{Lon: hole.TeeLng, Lat: hole.TeeLat})),
		)
		if hole.Par > 0 {
			tee.Add(kml.Description(fmt.Sprintf("Par %d", hole.Par)))
		}
		doc.Add(tee)
		doc.Add(kml.Placemark(
			kml.Name(fmt.Sprintf("Hole %d Green", hole.Num)),
			kml.Point(kml.Coordinates(kml.Coordinate{Lon: hole.GreenLng, Lat: hole.GreenLat})),
		))
	}
	return kml.KML(doc).WriteIndent(w, "", "  ")
}
