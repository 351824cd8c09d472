// Package report renders extraction results as the plain-text ticket report
// and reads such reports back for downstream mapping and mail drafts.
package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dgallion1/ticketgest/internal/extract"
)

// Render returns the report text for res. The first line is the output
// filename; attachment results list one filename per line instead.
func Render(res *extract.Result) string {
	if res == nil {
		return ""
	}
	switch {
	case res.Diggers != nil:
		r := res.Diggers
		return joinLines(res.Filename,
			line("Name", r.Caller),
			line("Company", r.Company),
			line("Working For", r.WorkFor),
			line("Number", r.Cell),
			line("Email", r.Email),
			line("Coordinate1", r.Lon+", "+r.Lat),
			line("Coordinate2", r.Lon2+", "+r.Lat2),
		)
	case res.IUPPS != nil:
		r := res.IUPPS
		return joinLines(res.Filename,
			line("Company", r.Company),
			line("Type", r.Type),
			line("Caller", r.Caller),
			line("Phone", r.Phone),
			line("Email", r.Email),
			line("Coordinate1", r.LonW+", "+r.LatN),
			line("Coordinate2", r.LonE+", "+r.LatS),
		)
	}
	names := make([]string, 0, len(res.Attachments))
	for _, a := range res.Attachments {
		names = append(names, a.Filename)
	}
	return strings.Join(names, "\n")
}

func line(label, value string) string {
	return fmt.Sprintf("%-12s %s", label+":", value)
}

func joinLines(first string, rest ...string) string {
	return strings.Join(append([]string{first}, rest...), "\n")
}

// Coordinate is a lon/lat pair in decimal degrees.
type Coordinate struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// BBox is the rectangle spanned by the two report coordinates.
type BBox struct {
	MinLon float64 `json:"min_lon"`
	MinLat float64 `json:"min_lat"`
	MaxLon float64 `json:"max_lon"`
	MaxLat float64 `json:"max_lat"`
}

// Report is a parsed ticket report.
type Report struct {
	Filename string            `json:"filename,omitempty"`
	Info     map[string]string `json:"info"`
	Coord1   Coordinate        `json:"coordinate1"`
	Coord2   Coordinate        `json:"coordinate2"`
}

// ErrBadCoordinate is wrapped by Parse when a coordinate line is not "lon, lat".
var ErrBadCoordinate = errors.New("malformed coordinate")

// Parse reads a report. Every line containing a colon is split on its first
// colon into a trimmed key and value; a later key overwrites an earlier one.
// A leading line without a colon is taken as the filename. Missing
// coordinates default to 0, 0.
func Parse(r io.Reader) (*Report, error) {
	rep := &Report{Info: make(map[string]string)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	first := true
	for scanner.Scan() {
		text := scanner.Text()
		key, val, ok := strings.Cut(text, ":")
		if !ok {
			if first && strings.TrimSpace(text) != "" {
				rep.Filename = strings.TrimSpace(text)
			}
			if strings.TrimSpace(text) != "" {
				first = false
			}
			continue
		}
		first = false
		rep.Info[strings.TrimSpace(key)] = strings.TrimSpace(val)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}

	var err error
	if rep.Coord1, err = parseCoordinate(rep.Info, "Coordinate1"); err != nil {
		return nil, err
	}
	if rep.Coord2, err = parseCoordinate(rep.Info, "Coordinate2"); err != nil {
		return nil, err
	}
	return rep, nil
}

func parseCoordinate(info map[string]string, key string) (Coordinate, error) {
	raw, ok := info[key]
	if !ok {
		return Coordinate{}, nil
	}
	lonText, latText, ok := strings.Cut(raw, ",")
	if !ok || strings.Contains(latText, ",") {
		return Coordinate{}, fmt.Errorf("%s %q: %w", key, raw, ErrBadCoordinate)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonText), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("%s longitude %q: %w", key, lonText, ErrBadCoordinate)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latText), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("%s latitude %q: %w", key, latText, ErrBadCoordinate)
	}
	return Coordinate{Lon: lon, Lat: lat}, nil
}

// Bounds returns the work area spanned by the two coordinates.
func (r *Report) Bounds() BBox {
	return BBox{
		MinLon: math.Min(r.Coord1.Lon, r.Coord2.Lon),
		MinLat: math.Min(r.Coord1.Lat, r.Coord2.Lat),
		MaxLon: math.Max(r.Coord1.Lon, r.Coord2.Lon),
		MaxLat: math.Max(r.Coord1.Lat, r.Coord2.Lat),
	}
}

// Contact is the person named on the ticket: Name for Diggers, Caller for
// IUPPS.
func (r *Report) Contact() string {
	if v := r.Info["Name"]; v != "" {
		return v
	}
	return r.Info["Caller"]
}

// FirstName is the capitalized first word of Contact, used to greet the
// excavator in a reply. Empty when no contact is known.
func (r *Report) FirstName() string {
	words := strings.Fields(r.Contact())
	if len(words) == 0 {
		return ""
	}
	w := strings.ToLower(words[0])
	runes := []rune(w)
	runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
	return string(runes)
}
