package osmtags

// Roads matches ways a vehicle can drive on.
var Roads = []Filter{
	{Key: "surface", Values: []string{
		"paved",    // A feature that is predominantly paved; i.e., it is covered with paving stones, concrete or bitumen
		"asphalt",  // Short for asphalt concrete
		"chipseal", // Less expensive alternative to asphalt concrete. Rarely tagged
		"concrete", // Portland cement concrete, forming a large surface
	}},
	// There is a long tail of weird highway values that we err on the side of
	// assuming aren't roads.
	{Key: "highway", Values: []string{
		"motorway",
		"trunk",
		"primary",
		"secondary",
		"tertiary",
		"unclassified", // The least important through roads. A historical artefact of the UK road system, not "unknown"
		"residential",
		"motorway_link",
		"trunk_link",
		"primary_link",
		"secondary_link",
		"tertiary_link",
		"living_street", // residential streets where pedestrians have legal priority over cars
		"service",
		"raceway",
		"busway",
		"rest_area",
	}},
}

// IsRoad reports whether tags describe a road.
func IsRoad(tags map[string]string) bool {
	return MatchAny(tags, Roads)
}

// Presets are named filter sets usable from the command line.
var Presets = map[string][]Filter{
	"roads":     Roads,
	"buildings": {{Key: "building"}},
	"water":     {{Key: "natural", Values: []string{"water", "coastline"}}, {Key: "waterway"}},
	"parks":     {{Key: "leisure", Values: []string{"park", "nature_reserve"}}, {Key: "boundary", Values: []string{"national_park", "protected_area"}}},
}
