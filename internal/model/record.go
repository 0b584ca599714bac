package model

// WineType is the closed set of canonical wine styles.
type WineType string

const (
	WineTypeRed       WineType = "Red"
	WineTypeWhite     WineType = "White"
	WineTypeRose      WineType = "Rosé"
	WineTypeSparkling WineType = "Sparkling"
	WineTypeDessert   WineType = "Dessert"
	WineTypeFortified WineType = "Fortified"
)

// IsValid reports whether t is a recognised wine type.
func (t WineType) IsValid() bool {
	switch t {
	case WineTypeRed, WineTypeWhite, WineTypeRose, WineTypeSparkling, WineTypeDessert, WineTypeFortified:
		return true
	}
	return false
}

// ParsedWineRecord is the canonical identification output of a single model
// call. Every field is independently optional: an empty string, nil pointer,
// or empty slice means the model did not produce that field, and no field
// implies another is present.
//
// A record is created fresh per model call and enriched by the inference
// engine; once the scorer has consumed it, it is never mutated. Each
// escalation tier produces a new record.
type ParsedWineRecord struct {
	Producer    string   `json:"producer,omitempty"`
	WineName    string   `json:"wine_name,omitempty"`
	Vintage     *int     `json:"vintage,omitempty"` // 4-digit year
	Region      string   `json:"region,omitempty"`
	Country     string   `json:"country,omitempty"`
	WineType    WineType `json:"wine_type,omitempty"`
	Grapes      []string `json:"grapes,omitempty"` // ordered, de-duplicated
	Appellation string   `json:"appellation,omitempty"`

	// ModelConfidence is the model's self-reported confidence in [0, 100].
	ModelConfidence int `json:"model_confidence"`
}

// FieldCount is the number of canonical identification fields considered by
// completeness scoring (producer, wine name, vintage, region, country, type,
// grapes). ModelConfidence and Appellation are excluded: the former is
// metadata, the latter is a refinement of Region.
const FieldCount = 7

// PopulatedFields returns how many of the canonical fields carry a value.
func (r *ParsedWineRecord) PopulatedFields() int {
	n := 0
	if r.Producer != "" {
		n++
	}
	if r.WineName != "" {
		n++
	}
	if r.Vintage != nil {
		n++
	}
	if r.Region != "" {
		n++
	}
	if r.Country != "" {
		n++
	}
	if r.WineType != "" {
		n++
	}
	if len(r.Grapes) > 0 {
		n++
	}
	return n
}

// Clone returns a deep copy of r. Tiers enrich copies, never the original.
func (r *ParsedWineRecord) Clone() *ParsedWineRecord {
	if r == nil {
		return nil
	}
	cp := *r
	if r.Vintage != nil {
		v := *r.Vintage
		cp.Vintage = &v
	}
	if len(r.Grapes) > 0 {
		cp.Grapes = make([]string, len(r.Grapes))
		copy(cp.Grapes, r.Grapes)
	}
	return &cp
}
