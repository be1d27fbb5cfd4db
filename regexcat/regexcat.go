// Package regexcat is a catalog of named, precompiled regular expressions
// for pulling structured values out of scraped text.
package regexcat

import (
	"geonotes/greatcircle"
	"github.com/paulmach/orb"
	"regexp"
	"sort"
	"strconv"
)

type Pattern struct {
	Name        string
	Description string
	Re          *regexp.Regexp
	// Examples are strings the pattern must match.
	Examples []string
}

var catalog = map[string]Pattern{}

func register(name, description, expr string, examples ...string) {
	catalog[name] = Pattern{
		Name:        name,
		Description: description,
		Re:          regexp.MustCompile(expr),
		Examples:    examples,
	}
}

func init() {
	register("email", "Email address",
		`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`,
		"someone@example.com", "first.last+tag@sub.example.co.uk")
	register("url", "http or https URL",
		`https?://[^\s<>"']+`,
		"https://www.openstreetmap.org/way/123", "http://example.com/a?b=c")
	register("ipv4", "Dotted quad IPv4 address",
		`\b(?:(?:25[0-5]|2[0-4]\d|1?\d?\d)\.){3}(?:25[0-5]|2[0-4]\d|1?\d?\d)\b`,
		"192.168.0.1", "8.8.8.8")
	register("iso_date", "ISO 8601 calendar date",
		`\b\d{4}-(?:0[1-9]|1[0-2])-(?:0[1-9]|[12]\d|3[01])\b`,
		"2024-02-29", "1999-12-31")
	register("uk_postcode", "UK postcode",
		`\b[A-Z]{1,2}\d[A-Z\d]? ?\d[A-Z]{2}\b`,
		"SW1A 1AA", "EH1 1YZ", "M11AE")
	register("us_zip", "US ZIP or ZIP+4 code",
		`\b\d{5}(?:-\d{4})?\b`,
		"90210", "20500-0003")
	register("hex_colour", "CSS hex colour",
		`#(?:[0-9a-fA-F]{6}|[0-9a-fA-F]{3})\b`,
		"#fff", "#3388ff")
	register("lat_lng", "Decimal latitude, longitude pair",
		`(?:^|[^\d.\-])(-?\d{1,2}\.\d+)\s*,\s*(-?\d{1,3}\.\d+)`,
		"51.5074, -0.1278", "at (63.0692,-151.0063)")
	register("osm_way_url", "Link to an OpenStreetMap way",
		`https?://(?:www\.)?openstreetmap\.org/way/(\d+)`,
		"https://www.openstreetmap.org/way/4707064")
	register("phone_e164", "E.164 phone number",
		`\+[1-9]\d{6,14}\b`,
		"+441234567890", "+14155552671")
	register("whitespace_run", "Two or more whitespace characters",
		`\s{2,}`,
		"a  b", "a\n\tb")
}

func Lookup(name string) (Pattern, bool) {
	p, ok := catalog[name]
	return p, ok
}

// Names returns the catalog's pattern names, sorted.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Match reports whether s contains a match of the named pattern. Unknown
// names never match.
func Match(name, s string) bool {
	p, ok := catalog[name]
	if !ok {
		return false
	}
	return p.Re.MatchString(s)
}

func FindAll(name, s string) []string {
	p, ok := catalog[name]
	if !ok {
		return nil
	}
	return p.Re.FindAllString(s, -1)
}

// ExtractLatLng returns every "lat, lng" pair in s as [lng, lat] points,
// skipping pairs outside valid degree ranges.
func ExtractLatLng(s string) []orb.Point {
	var out []orb.Point
	for _, m := range catalog["lat_lng"].Re.FindAllStringSubmatch(s, -1) {
		lat, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		lng, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		p := orb.Point{lng, lat}
		if !greatcircle.Valid(p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ExtractOSMWayIDs returns the ids of every OpenStreetMap way link in s, in
// order of appearance and without duplicates.
func ExtractOSMWayIDs(s string) []int64 {
	var out []int64
	seen := make(map[int64]bool)
	for _, m := range catalog["osm_way_url"].Re.FindAllStringSubmatch(s, -1) {
		id, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
