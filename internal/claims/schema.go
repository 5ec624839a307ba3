package claims

// Schema names the header columns a claim document uses.
type Schema struct {
	ID               string `mapstructure:"id" yaml:"id"`
	EventDate        string `mapstructure:"event_date" yaml:"event_date"`
	EventLocation    string `mapstructure:"event_location" yaml:"event_location"`
	ClaimantLocation string `mapstructure:"claimant_location" yaml:"claimant_location"`
	EventLat         string `mapstructure:"event_lat" yaml:"event_lat"`
	EventLon         string `mapstructure:"event_lon" yaml:"event_lon"`
	ClaimantLat      string `mapstructure:"claimant_lat" yaml:"claimant_lat"`
	ClaimantLon      string `mapstructure:"claimant_lon" yaml:"claimant_lon"`
}

// DefaultSchema matches the published claims.csv export.
func DefaultSchema() Schema {
	return Schema{
		ID:               "ClaimID",
		EventDate:        "EventDate",
		EventLocation:    "EventLocation",
		ClaimantLocation: "ClaimantLocation",
		EventLat:         "EventLatitude",
		EventLon:         "EventLongitude",
		ClaimantLat:      "ClaimantLatitude",
		ClaimantLon:      "ClaimantLongitude",
	}
}

// WithDefaults fills blank column names from DefaultSchema.
func (s Schema) WithDefaults() Schema {
	d := DefaultSchema()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&s.ID, d.ID)
	fill(&s.EventDate, d.EventDate)
	fill(&s.EventLocation, d.EventLocation)
	fill(&s.ClaimantLocation, d.ClaimantLocation)
	fill(&s.EventLat, d.EventLat)
	fill(&s.EventLon, d.EventLon)
	fill(&s.ClaimantLat, d.ClaimantLat)
	fill(&s.ClaimantLon, d.ClaimantLon)
	return s
}

func (s Schema) columns() []string {
	return []string{
		s.ID, s.EventDate, s.EventLocation, s.ClaimantLocation,
		s.EventLat, s.EventLon, s.ClaimantLat, s.ClaimantLon,
	}
}

// Validate returns the schema columns missing from header, in schema order.
// A missing column is not fatal: every row simply lacks that field.
func (s Schema) Validate(header []string) []string {
	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[h] = true
	}
	var missing []string
	for _, c := range s.columns() {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	return missing
}

// Identifier returns the row's claim identifier; ok is false when absent or empty.
func (s Schema) Identifier(r Row) (string, bool) {
	id, ok := r.Get(s.ID)
	return id, ok && id != ""
}

func (s Schema) coordFields(loc LocationType) (lat, lon string) {
	if loc == Claimant {
		return s.ClaimantLat, s.ClaimantLon
	}
	return s.EventLat, s.EventLon
}

func (s Schema) locationField(loc LocationType) string {
	if loc == Claimant {
		return s.ClaimantLocation
	}
	return s.EventLocation
}
