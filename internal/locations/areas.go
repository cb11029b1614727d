package locations

// GreaterArea is the two-tier expansion for a recognized city: Core localities
// sit within the primary radius, Fringe localities are secondary and carry a
// ranking penalty. The two sets are disjoint.
type GreaterArea struct {
	Core   []string
	Fringe []string
}

// FringeWeight is the multiplier applied to jobs located only in a city's
// fringe localities.
const FringeWeight = 0.85

// Keys are lowercased base city names (no region suffix).
var greaterAreas = map[string]GreaterArea{
	"sydney": {
		Core:   []string{"Sydney", "North Sydney", "Parramatta", "Chatswood", "Macquarie Park", "Surry Hills"},
		Fringe: []string{"Penrith", "Liverpool", "Campbelltown", "Hornsby", "Sutherland"},
	},
	"melbourne": {
		Core:   []string{"Melbourne", "Southbank", "Docklands", "Richmond", "Carlton", "South Yarra"},
		Fringe: []string{"Dandenong", "Frankston", "Werribee", "Sunbury", "Cranbourne"},
	},
	"brisbane": {
		Core:   []string{"Brisbane", "Fortitude Valley", "South Brisbane", "Milton", "Spring Hill"},
		Fringe: []string{"Ipswich", "Logan", "Redcliffe", "Caboolture"},
	},
	"perth": {
		Core:   []string{"Perth", "West Perth", "East Perth", "Subiaco", "Osborne Park"},
		Fringe: []string{"Joondalup", "Rockingham", "Midland", "Armadale"},
	},
	"adelaide": {
		Core:   []string{"Adelaide", "North Adelaide", "Kent Town", "Mile End"},
		Fringe: []string{"Elizabeth", "Salisbury", "Gawler", "Mount Barker"},
	},
	"new york": {
		Core:   []string{"New York", "Manhattan", "Brooklyn", "Queens", "Long Island City"},
		Fringe: []string{"Jersey City", "Newark", "Yonkers", "White Plains", "Stamford"},
	},
	"london": {
		Core:   []string{"London", "Shoreditch", "Canary Wharf", "Westminster", "Camden"},
		Fringe: []string{"Croydon", "Watford", "Romford", "Slough"},
	},
}
