package lexicon

import "github.com/cellarbook/vinident/internal/model"

// GrapeColor is the berry colour used to infer wine type from grape variety.
type GrapeColor string

const (
	GrapeRed   GrapeColor = "red"
	GrapeWhite GrapeColor = "white"
)

// Grape is a single variety entry.
type Grape struct {
	Name  string
	Color GrapeColor
}

// Region is a top-level wine region and its country.
type Region struct {
	Name    string
	Country string
}

// Appellation is a village- or district-level name with its parent region.
// Grapes lists the typical primary varieties, most planted first.
type Appellation struct {
	Name      string
	Region    string
	Subregion string
	Country   string
	Grapes    []string
	WineTypes []model.WineType
}

// regions is the hand-curated top-level region table. Order is significant:
// fuzzy lookups break distance ties by declaration order.
var regions = []Region{
	{Name: "Bordeaux", Country: "France"},
	{Name: "Burgundy", Country: "France"},
	{Name: "Champagne", Country: "France"},
	{Name: "Loire Valley", Country: "France"},
	{Name: "Rhône Valley", Country: "France"},
	{Name: "Alsace", Country: "France"},
	{Name: "Beaujolais", Country: "France"},
	{Name: "Provence", Country: "France"},
	{Name: "Languedoc", Country: "France"},
	{Name: "Jura", Country: "France"},
	{Name: "Tuscany", Country: "Italy"},
	{Name: "Piedmont", Country: "Italy"},
	{Name: "Veneto", Country: "Italy"},
	{Name: "Sicily", Country: "Italy"},
	{Name: "Rioja", Country: "Spain"},
	{Name: "Ribera del Duero", Country: "Spain"},
	{Name: "Priorat", Country: "Spain"},
	{Name: "Rías Baixas", Country: "Spain"},
	{Name: "Douro", Country: "Portugal"},
	{Name: "Mosel", Country: "Germany"},
	{Name: "Rheingau", Country: "Germany"},
	{Name: "Napa Valley", Country: "United States"},
	{Name: "Sonoma", Country: "United States"},
	{Name: "Willamette Valley", Country: "United States"},
	{Name: "Finger Lakes", Country: "United States"},
	{Name: "Mendoza", Country: "Argentina"},
	{Name: "Maipo Valley", Country: "Chile"},
	{Name: "Barossa Valley", Country: "Australia"},
	{Name: "Margaret River", Country: "Australia"},
	{Name: "Marlborough", Country: "New Zealand"},
	{Name: "Central Otago", Country: "New Zealand"},
	{Name: "Stellenbosch", Country: "South Africa"},
	{Name: "Tokaj", Country: "Hungary"},
	{Name: "Wachau", Country: "Austria"},
	{Name: "Okanagan Valley", Country: "Canada"},
}

// countryAliases maps folded spellings and demonyms to canonical country names.
// Canonical names map to themselves.
var countryAliases = map[string]string{
	"france":                   "France",
	"french":                   "France",
	"italy":                    "Italy",
	"italia":                   "Italy",
	"italian":                  "Italy",
	"spain":                    "Spain",
	"espana":                   "Spain",
	"spanish":                  "Spain",
	"portugal":                 "Portugal",
	"portuguese":               "Portugal",
	"germany":                  "Germany",
	"deutschland":              "Germany",
	"german":                   "Germany",
	"united states":            "United States",
	"united states of america": "United States",
	"usa":                      "United States",
	"us":                       "United States",
	"america":                  "United States",
	"american":                 "United States",
	"argentina":                "Argentina",
	"argentinian":              "Argentina",
	"chile":                    "Chile",
	"chilean":                  "Chile",
	"australia":                "Australia",
	"australian":               "Australia",
	"new zealand":              "New Zealand",
	"nz":                       "New Zealand",
	"south africa":             "South Africa",
	"austria":                  "Austria",
	"osterreich":               "Austria",
	"austrian":                 "Austria",
	"hungary":                  "Hungary",
	"hungarian":                "Hungary",
	"greece":                   "Greece",
	"greek":                    "Greece",
	"canada":                   "Canada",
	"canadian":                 "Canada",
	"switzerland":              "Switzerland",
	"swiss":                    "Switzerland",
	"georgia":                  "Georgia",
	"croatia":                  "Croatia",
	"slovenia":                 "Slovenia",
	"lebanon":                  "Lebanon",
}

// wineTypeAliases maps folded style words to the canonical wine type.
var wineTypeAliases = map[string]model.WineType{
	"red":          model.WineTypeRed,
	"rouge":        model.WineTypeRed,
	"rosso":        model.WineTypeRed,
	"tinto":        model.WineTypeRed,
	"white":        model.WineTypeWhite,
	"blanc":        model.WineTypeWhite,
	"bianco":       model.WineTypeWhite,
	"blanco":       model.WineTypeWhite,
	"weiss":        model.WineTypeWhite,
	"rose":         model.WineTypeRose,
	"rosado":       model.WineTypeRose,
	"rosato":       model.WineTypeRose,
	"sparkling":    model.WineTypeSparkling,
	"bubbly":       model.WineTypeSparkling,
	"spumante":     model.WineTypeSparkling,
	"cremant":      model.WineTypeSparkling,
	"brut":         model.WineTypeSparkling,
	"cava":         model.WineTypeSparkling,
	"dessert":      model.WineTypeDessert,
	"sweet":        model.WineTypeDessert,
	"late harvest": model.WineTypeDessert,
	"ice wine":     model.WineTypeDessert,
	"icewine":      model.WineTypeDessert,
	"fortified":    model.WineTypeFortified,
	"port":         model.WineTypeFortified,
	"sherry":       model.WineTypeFortified,
	"madeira":      model.WineTypeFortified,
	"vermouth":     model.WineTypeFortified,
}

// grapes is the variety table. Shiraz and Syrah are kept as separate entries
// so both spellings match as phrases; colour inference treats them alike.
var grapes = []Grape{
	{Name: "Cabernet Sauvignon", Color: GrapeRed},
	{Name: "Merlot", Color: GrapeRed},
	{Name: "Pinot Noir", Color: GrapeRed},
	{Name: "Syrah", Color: GrapeRed},
	{Name: "Shiraz", Color: GrapeRed},
	{Name: "Grenache", Color: GrapeRed},
	{Name: "Tempranillo", Color: GrapeRed},
	{Name: "Sangiovese", Color: GrapeRed},
	{Name: "Nebbiolo", Color: GrapeRed},
	{Name: "Barbera", Color: GrapeRed},
	{Name: "Malbec", Color: GrapeRed},
	{Name: "Zinfandel", Color: GrapeRed},
	{Name: "Primitivo", Color: GrapeRed},
	{Name: "Cabernet Franc", Color: GrapeRed},
	{Name: "Petit Verdot", Color: GrapeRed},
	{Name: "Carmenère", Color: GrapeRed},
	{Name: "Pinotage", Color: GrapeRed},
	{Name: "Gamay", Color: GrapeRed},
	{Name: "Mourvèdre", Color: GrapeRed},
	{Name: "Touriga Nacional", Color: GrapeRed},
	{Name: "Corvina", Color: GrapeRed},
	{Name: "Chardonnay", Color: GrapeWhite},
	{Name: "Sauvignon Blanc", Color: GrapeWhite},
	{Name: "Riesling", Color: GrapeWhite},
	{Name: "Pinot Gris", Color: GrapeWhite},
	{Name: "Pinot Grigio", Color: GrapeWhite},
	{Name: "Gewürztraminer", Color: GrapeWhite},
	{Name: "Chenin Blanc", Color: GrapeWhite},
	{Name: "Viognier", Color: GrapeWhite},
	{Name: "Albariño", Color: GrapeWhite},
	{Name: "Verdejo", Color: GrapeWhite},
	{Name: "Grüner Veltliner", Color: GrapeWhite},
	{Name: "Sémillon", Color: GrapeWhite},
	{Name: "Muscat", Color: GrapeWhite},
	{Name: "Torrontés", Color: GrapeWhite},
	{Name: "Marsanne", Color: GrapeWhite},
	{Name: "Roussanne", Color: GrapeWhite},
	{Name: "Vermentino", Color: GrapeWhite},
	{Name: "Garganega", Color: GrapeWhite},
	{Name: "Trebbiano", Color: GrapeWhite},
	{Name: "Furmint", Color: GrapeWhite},
}

// appellations is the hand-curated appellation table. Declaration order is the
// tie-break for fuzzy lookups.
var appellations = []Appellation{
	// Bordeaux
	{Name: "Margaux", Region: "Bordeaux", Subregion: "Médoc", Country: "France", Grapes: []string{"Cabernet Sauvignon", "Merlot"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Pauillac", Region: "Bordeaux", Subregion: "Médoc", Country: "France", Grapes: []string{"Cabernet Sauvignon", "Merlot"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Saint-Julien", Region: "Bordeaux", Subregion: "Médoc", Country: "France", Grapes: []string{"Cabernet Sauvignon", "Merlot"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Saint-Estèphe", Region: "Bordeaux", Subregion: "Médoc", Country: "France", Grapes: []string{"Cabernet Sauvignon", "Merlot"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Médoc", Region: "Bordeaux", Country: "France", Grapes: []string{"Cabernet Sauvignon", "Merlot"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Haut-Médoc", Region: "Bordeaux", Country: "France", Grapes: []string{"Cabernet Sauvignon", "Merlot"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Pessac-Léognan", Region: "Bordeaux", Subregion: "Graves", Country: "France", Grapes: []string{"Cabernet Sauvignon", "Merlot", "Sauvignon Blanc"}, WineTypes: []model.WineType{model.WineTypeRed, model.WineTypeWhite}},
	{Name: "Graves", Region: "Bordeaux", Country: "France", Grapes: []string{"Cabernet Sauvignon", "Merlot", "Sémillon"}, WineTypes: []model.WineType{model.WineTypeRed, model.WineTypeWhite}},
	{Name: "Pomerol", Region: "Bordeaux", Country: "France", Grapes: []string{"Merlot", "Cabernet Franc"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Saint-Émilion", Region: "Bordeaux", Country: "France", Grapes: []string{"Merlot", "Cabernet Franc"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Fronsac", Region: "Bordeaux", Country: "France", Grapes: []string{"Merlot"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Sauternes", Region: "Bordeaux", Country: "France", Grapes: []string{"Sémillon", "Sauvignon Blanc"}, WineTypes: []model.WineType{model.WineTypeDessert}},
	{Name: "Barsac", Region: "Bordeaux", Country: "France", Grapes: []string{"Sémillon"}, WineTypes: []model.WineType{model.WineTypeDessert}},
	{Name: "Entre-Deux-Mers", Region: "Bordeaux", Country: "France", Grapes: []string{"Sauvignon Blanc", "Sémillon"}, WineTypes: []model.WineType{model.WineTypeWhite}},

	// Burgundy
	{Name: "Chablis", Region: "Burgundy", Country: "France", Grapes: []string{"Chardonnay"}, WineTypes: []model.WineType{model.WineTypeWhite}},
	{Name: "Meursault", Region: "Burgundy", Subregion: "Côte de Beaune", Country: "France", Grapes: []string{"Chardonnay"}, WineTypes: []model.WineType{model.WineTypeWhite}},
	{Name: "Puligny-Montrachet", Region: "Burgundy", Subregion: "Côte de Beaune", Country: "France", Grapes: []string{"Chardonnay"}, WineTypes: []model.WineType{model.WineTypeWhite}},
	{Name: "Chassagne-Montrachet", Region: "Burgundy", Subregion: "Côte de Beaune", Country: "France", Grapes: []string{"Chardonnay"}, WineTypes: []model.WineType{model.WineTypeWhite}},
	{Name: "Pommard", Region: "Burgundy", Subregion: "Côte de Beaune", Country: "France", Grapes: []string{"Pinot Noir"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Volnay", Region: "Burgundy", Subregion: "Côte de Beaune", Country: "France", Grapes: []string{"Pinot Noir"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Beaune", Region: "Burgundy", Subregion: "Côte de Beaune", Country: "France", Grapes: []string{"Pinot Noir", "Chardonnay"}, WineTypes: []model.WineType{model.WineTypeRed, model.WineTypeWhite}},
	{Name: "Gevrey-Chambertin", Region: "Burgundy", Subregion: "Côte de Nuits", Country: "France", Grapes: []string{"Pinot Noir"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Chambolle-Musigny", Region: "Burgundy", Subregion: "Côte de Nuits", Country: "France", Grapes: []string{"Pinot Noir"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Vosne-Romanée", Region: "Burgundy", Subregion: "Côte de Nuits", Country: "France", Grapes: []string{"Pinot Noir"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Nuits-Saint-Georges", Region: "Burgundy", Subregion: "Côte de Nuits", Country: "France", Grapes: []string{"Pinot Noir"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Corton", Region: "Burgundy", Subregion: "Côte de Beaune", Country: "France", Grapes: []string{"Pinot Noir", "Chardonnay"}, WineTypes: []model.WineType{model.WineTypeRed, model.WineTypeWhite}},
	{Name: "Mercurey", Region: "Burgundy", Subregion: "Côte Chalonnaise", Country: "France", Grapes: []string{"Pinot Noir"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Rully", Region: "Burgundy", Subregion: "Côte Chalonnaise", Country: "France", Grapes: []string{"Chardonnay", "Pinot Noir"}, WineTypes: []model.WineType{model.WineTypeWhite, model.WineTypeRed}},
	{Name: "Santenay", Region: "Burgundy", Subregion: "Côte de Beaune", Country: "France", Grapes: []string{"Pinot Noir"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Pouilly-Fuissé", Region: "Burgundy", Subregion: "Mâconnais", Country: "France", Grapes: []string{"Chardonnay"}, WineTypes: []model.WineType{model.WineTypeWhite}},

	// Rhône
	{Name: "Châteauneuf-du-Pape", Region: "Rhône Valley", Country: "France", Grapes: []string{"Grenache", "Syrah", "Mourvèdre"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Hermitage", Region: "Rhône Valley", Country: "France", Grapes: []string{"Syrah"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Crozes-Hermitage", Region: "Rhône Valley", Country: "France", Grapes: []string{"Syrah"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Côte-Rôtie", Region: "Rhône Valley", Country: "France", Grapes: []string{"Syrah", "Viognier"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Cornas", Region: "Rhône Valley", Country: "France", Grapes: []string{"Syrah"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Saint-Joseph", Region: "Rhône Valley", Country: "France", Grapes: []string{"Syrah"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Condrieu", Region: "Rhône Valley", Country: "France", Grapes: []string{"Viognier"}, WineTypes: []model.WineType{model.WineTypeWhite}},
	{Name: "Gigondas", Region: "Rhône Valley", Country: "France", Grapes: []string{"Grenache", "Syrah"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Vacqueyras", Region: "Rhône Valley", Country: "France", Grapes: []string{"Grenache", "Syrah"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Tavel", Region: "Rhône Valley", Country: "France", Grapes: []string{"Grenache"}, WineTypes: []model.WineType{model.WineTypeRose}},

	// Loire
	{Name: "Sancerre", Region: "Loire Valley", Country: "France", Grapes: []string{"Sauvignon Blanc", "Pinot Noir"}, WineTypes: []model.WineType{model.WineTypeWhite, model.WineTypeRed}},
	{Name: "Pouilly-Fumé", Region: "Loire Valley", Country: "France", Grapes: []string{"Sauvignon Blanc"}, WineTypes: []model.WineType{model.WineTypeWhite}},
	{Name: "Vouvray", Region: "Loire Valley", Country: "France", Grapes: []string{"Chenin Blanc"}, WineTypes: []model.WineType{model.WineTypeWhite, model.WineTypeSparkling}},
	{Name: "Chinon", Region: "Loire Valley", Country: "France", Grapes: []string{"Cabernet Franc"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Muscadet", Region: "Loire Valley", Country: "France", Grapes: []string{"Melon de Bourgogne"}, WineTypes: []model.WineType{model.WineTypeWhite}},
	{Name: "Saumur", Region: "Loire Valley", Country: "France", Grapes: []string{"Chenin Blanc", "Cabernet Franc"}, WineTypes: []model.WineType{model.WineTypeWhite, model.WineTypeRed}},

	// Beaujolais crus
	{Name: "Morgon", Region: "Beaujolais", Country: "France", Grapes: []string{"Gamay"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Fleurie", Region: "Beaujolais", Country: "France", Grapes: []string{"Gamay"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Moulin-à-Vent", Region: "Beaujolais", Country: "France", Grapes: []string{"Gamay"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Brouilly", Region: "Beaujolais", Country: "France", Grapes: []string{"Gamay"}, WineTypes: []model.WineType{model.WineTypeRed}},

	// Italy
	{Name: "Barolo", Region: "Piedmont", Country: "Italy", Grapes: []string{"Nebbiolo"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Barbaresco", Region: "Piedmont", Country: "Italy", Grapes: []string{"Nebbiolo"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Gavi", Region: "Piedmont", Country: "Italy", Grapes: []string{"Cortese"}, WineTypes: []model.WineType{model.WineTypeWhite}},
	{Name: "Asti", Region: "Piedmont", Country: "Italy", Grapes: []string{"Muscat"}, WineTypes: []model.WineType{model.WineTypeSparkling}},
	{Name: "Chianti", Region: "Tuscany", Country: "Italy", Grapes: []string{"Sangiovese"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Chianti Classico", Region: "Tuscany", Country: "Italy", Grapes: []string{"Sangiovese"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Brunello di Montalcino", Region: "Tuscany", Country: "Italy", Grapes: []string{"Sangiovese"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Vino Nobile di Montepulciano", Region: "Tuscany", Country: "Italy", Grapes: []string{"Sangiovese"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Bolgheri", Region: "Tuscany", Country: "Italy", Grapes: []string{"Cabernet Sauvignon", "Merlot"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Valpolicella", Region: "Veneto", Country: "Italy", Grapes: []string{"Corvina"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Amarone della Valpolicella", Region: "Veneto", Country: "Italy", Grapes: []string{"Corvina"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Soave", Region: "Veneto", Country: "Italy", Grapes: []string{"Garganega"}, WineTypes: []model.WineType{model.WineTypeWhite}},
	{Name: "Prosecco", Region: "Veneto", Country: "Italy", Grapes: []string{"Glera"}, WineTypes: []model.WineType{model.WineTypeSparkling}},
	{Name: "Etna", Region: "Sicily", Country: "Italy", Grapes: []string{"Nerello Mascalese"}, WineTypes: []model.WineType{model.WineTypeRed, model.WineTypeWhite}},

	// Spain
	{Name: "Rioja Alta", Region: "Rioja", Country: "Spain", Grapes: []string{"Tempranillo"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Rioja Alavesa", Region: "Rioja", Country: "Spain", Grapes: []string{"Tempranillo"}, WineTypes: []model.WineType{model.WineTypeRed}},

	// Germany
	{Name: "Bernkastel", Region: "Mosel", Country: "Germany", Grapes: []string{"Riesling"}, WineTypes: []model.WineType{model.WineTypeWhite}},
	{Name: "Piesport", Region: "Mosel", Country: "Germany", Grapes: []string{"Riesling"}, WineTypes: []model.WineType{model.WineTypeWhite}},

	// United States
	{Name: "Oakville", Region: "Napa Valley", Country: "United States", Grapes: []string{"Cabernet Sauvignon"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Rutherford", Region: "Napa Valley", Country: "United States", Grapes: []string{"Cabernet Sauvignon"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Stags Leap District", Region: "Napa Valley", Country: "United States", Grapes: []string{"Cabernet Sauvignon"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Howell Mountain", Region: "Napa Valley", Country: "United States", Grapes: []string{"Cabernet Sauvignon", "Zinfandel"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Russian River Valley", Region: "Sonoma", Country: "United States", Grapes: []string{"Pinot Noir", "Chardonnay"}, WineTypes: []model.WineType{model.WineTypeRed, model.WineTypeWhite}},
	{Name: "Dry Creek Valley", Region: "Sonoma", Country: "United States", Grapes: []string{"Zinfandel"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Alexander Valley", Region: "Sonoma", Country: "United States", Grapes: []string{"Cabernet Sauvignon"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Dundee Hills", Region: "Willamette Valley", Country: "United States", Grapes: []string{"Pinot Noir"}, WineTypes: []model.WineType{model.WineTypeRed}},

	// Portugal
	{Name: "Porto", Region: "Douro", Country: "Portugal", Grapes: []string{"Touriga Nacional"}, WineTypes: []model.WineType{model.WineTypeFortified}},

	// Argentina
	{Name: "Luján de Cuyo", Region: "Mendoza", Country: "Argentina", Grapes: []string{"Malbec"}, WineTypes: []model.WineType{model.WineTypeRed}},
	{Name: "Uco Valley", Region: "Mendoza", Country: "Argentina", Grapes: []string{"Malbec"}, WineTypes: []model.WineType{model.WineTypeRed}},

	// Australia
	{Name: "Eden Valley", Region: "Barossa Valley", Country: "Australia", Grapes: []string{"Riesling", "Shiraz"}, WineTypes: []model.WineType{model.WineTypeWhite, model.WineTypeRed}},

	// Hungary
	{Name: "Tokaji", Region: "Tokaj", Country: "Hungary", Grapes: []string{"Furmint"}, WineTypes: []model.WineType{model.WineTypeDessert, model.WineTypeWhite}},
}

// stopWords are tokens discarded during anchor extraction when they match
// nothing in the vocabulary.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "of": true, "from": true,
	"with": true, "and": true, "or": true, "in": true, "by": true,
	"wine": true, "bottle": true, "vintage": true, "year": true,
	"de": true, "la": true, "le": true, "du": true, "des": true,
	"di": true, "del": true, "della": true, "el": true, "los": true,
	"som": true, "this": true, "that": true, "some": true, "my": true,
	"it": true, "its": true, "is": true, "was": true,
}
