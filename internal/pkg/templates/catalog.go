package templates

// The built-in template catalog. Loaded once into an immutable map; database
// rows (models.DefaultTemplate) may override single entries but the process
// never mutates this table at request time.

// CatalogEntry is one built-in certificate design.
type CatalogEntry struct {
	ID               string
	Name             string
	PreviewImagePath string
	BaseImagePath    string
	TextX            int
	TextY            int
	FontSize         int
	FontColor        string
	PrimaryColor     string
}

var catalog = map[string]CatalogEntry{
	"classic": {
		ID: "classic", Name: "Classic Professional",
		PreviewImagePath: "public/images/default-templates/classic-preview.png",
		BaseImagePath:    "public/images/default-templates/classic.png",
		TextX:            400, TextY: 300, FontSize: 48,
		FontColor: "#1a365d", PrimaryColor: "#2b6cb0",
	},
	"modern": {
		ID: "modern", Name: "Modern Elegant",
		PreviewImagePath: "public/images/default-templates/modern-preview.png",
		BaseImagePath:    "public/images/default-templates/modern.png",
		TextX:            350, TextY: 280, FontSize: 52,
		FontColor: "#2d3748", PrimaryColor: "#805ad5",
	},
	"minimalist": {
		ID: "minimalist", Name: "Minimalist Clean",
		PreviewImagePath: "public/images/default-templates/minimalist-preview.png",
		BaseImagePath:    "public/images/default-templates/minimalist.png",
		TextX:            512, TextY: 384, FontSize: 44,
		FontColor: "#2f855a", PrimaryColor: "#38a169",
	},
	"golden": {
		ID: "golden", Name: "Golden Winner",
		PreviewImagePath: "public/images/default-templates/golden-preview.png",
		BaseImagePath:    "public/images/default-templates/golden.png",
		TextX:            400, TextY: 300, FontSize: 56,
		FontColor: "#744210", PrimaryColor: "#d69e2e",
	},
	"silver": {
		ID: "silver", Name: "Silver Achievement",
		PreviewImagePath: "public/images/default-templates/silver-preview.png",
		BaseImagePath:    "public/images/default-templates/silver.png",
		TextX:            400, TextY: 300, FontSize: 50,
		FontColor: "#4a5568", PrimaryColor: "#a0aec0",
	},
	"bronze": {
		ID: "bronze", Name: "Bronze Participation",
		PreviewImagePath: "public/images/default-templates/bronze-preview.png",
		BaseImagePath:    "public/images/default-templates/bronze.png",
		TextX:            400, TextY: 300, FontSize: 46,
		FontColor: "#7b341e", PrimaryColor: "#c05621",
	},
	"corporate": {
		ID: "corporate", Name: "Corporate Blue",
		PreviewImagePath: "public/images/default-templates/corporate-preview.png",
		BaseImagePath:    "public/images/default-templates/corporate.png",
		TextX:            400, TextY: 320, FontSize: 48,
		FontColor: "#1e3a8a", PrimaryColor: "#3b82f6",
	},
	"academic": {
		ID: "academic", Name: "Academic Excellence",
		PreviewImagePath: "public/images/default-templates/academic-preview.png",
		BaseImagePath:    "public/images/default-templates/academic.png",
		TextX:            400, TextY: 300, FontSize: 48,
		FontColor: "#1f2937", PrimaryColor: "#6366f1",
	},
}

// CatalogEntryByID looks up a built-in template.
func CatalogEntryByID(id string) (CatalogEntry, bool) {
	e, ok := catalog[id]
	return e, ok
}

// CatalogEntries returns a copy of all built-in templates.
func CatalogEntries() []CatalogEntry {
	out := make([]CatalogEntry, 0, len(catalog))
	for _, e := range catalog {
		out = append(out, e)
	}
	return out
}
