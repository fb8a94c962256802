// README: Common geographic value objects shared across modules.
package types

// Coordinates is a device-reported position (WGS 84 decimal degrees).
// Replaced wholesale on every successful location fetch, never merged.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Category classifies a point of interest for map rendering.
type Category string

const (
	CategoryPolice   Category = "police"
	CategoryHospital Category = "hospital"
	CategorySchool   Category = "school"
	CategoryFood     Category = "food"
	CategoryBank     Category = "bank"
	CategoryPark     Category = "park"
	CategoryShop     Category = "shop"
	CategoryDefault  Category = "default"
)

// categoryAliases maps model-produced synonyms onto the canonical set the map
// renderer understands.
var categoryAliases = map[string]Category{
	"police":     CategoryPolice,
	"hospital":   CategoryHospital,
	"school":     CategorySchool,
	"university": CategorySchool,
	"food":       CategoryFood,
	"restaurant": CategoryFood,
	"bank":       CategoryBank,
	"atm":        CategoryBank,
	"park":       CategoryPark,
	"shop":       CategoryShop,
	"market":     CategoryShop,
	"mall":       CategoryShop,
	"default":    CategoryDefault,
}

// NormalizeCategory maps an arbitrary category string onto the canonical set.
// Unrecognized values fall back to CategoryDefault so the map layer never has
// to deal with an unknown pin type.
func NormalizeCategory(raw string) Category {
	if c, ok := categoryAliases[raw]; ok {
		return c
	}
	return CategoryDefault
}

// POI is a named geographic location extracted from a model reply or a places
// search. The JSON field names are the wire contract with the map front end.
type POI struct {
	Lat      float64  `json:"lat"`
	Lng      float64  `json:"lng"`
	Title    string   `json:"title"`
	Category Category `json:"category,omitempty"`
}
