package lexicon

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/cellarbook/vinident/internal/model"
)

// appellationDoc is the YAML schema for an extension file:
//
//	appellations:
//	  - name: Cairanne
//	    region: Rhône Valley
//	    country: France
//	    grapes: [Grenache, Syrah]
//	    wine_types: [Red]
type appellationDoc struct {
	Appellations []struct {
		Name      string   `yaml:"name"`
		Region    string   `yaml:"region"`
		Subregion string   `yaml:"subregion"`
		Country   string   `yaml:"country"`
		Grapes    []string `yaml:"grapes"`
		WineTypes []string `yaml:"wine_types"`
	} `yaml:"appellations"`
}

// LoadAppellations reads extra appellation entries from a YAML extension
// file. Entries with an unknown wine type or missing name/region are
// rejected rather than silently skipped.
func LoadAppellations(path string) ([]Appellation, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "lexicon: read %s", path)
	}

	var doc appellationDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, eris.Wrapf(err, "lexicon: parse %s", path)
	}

	out := make([]Appellation, 0, len(doc.Appellations))
	for _, e := range doc.Appellations {
		if e.Name == "" || e.Region == "" {
			return nil, eris.Errorf("lexicon: %s: appellation entry missing name or region", path)
		}
		a := Appellation{
			Name:      e.Name,
			Region:    e.Region,
			Subregion: e.Subregion,
			Country:   e.Country,
			Grapes:    e.Grapes,
		}
		for _, wt := range e.WineTypes {
			t := model.WineType(wt)
			if !t.IsValid() {
				return nil, eris.Errorf("lexicon: %s: unknown wine type %q for %s", path, wt, e.Name)
			}
			a.WineTypes = append(a.WineTypes, t)
		}
		out = append(out, a)
	}
	return out, nil
}
