package mls

// SearchResult is the canonical listing shape every provider is normalized into.
// Every field is always populated; absent upstream values become explicit defaults.
type SearchResult struct {
	MLSNumber     string   `json:"mlsNumber"`
	Address       string   `json:"address"`
	City          string   `json:"city"`
	State         string   `json:"state"`
	Zip           string   `json:"zip"`
	ListPrice     float64  `json:"listPrice"`
	Bedrooms      int      `json:"bedrooms"`
	Bathrooms     float64  `json:"bathrooms"`
	SquareFootage int      `json:"squareFootage"`
	LotSize       string   `json:"lotSize"` // "<area> sqft" or "N/A"
	YearBuilt     int      `json:"yearBuilt"`
	Garage        string   `json:"garage"` // "<n> car" or "N/A"
	PropertyType  string   `json:"propertyType"`
	Status        string   `json:"status"`
	Description   string   `json:"description"`
	HOA           float64  `json:"hoa"`
	AnnualTax     float64  `json:"annualTax"`
	HeroImage     string   `json:"heroImage"`
	GalleryImages []string `json:"galleryImages"`
}

// Photo is one RESO Media record, reduced to what ordering needs.
type Photo struct {
	URL      string `json:"MediaURL"`
	Order    number `json:"Order"`
	Category string `json:"MediaCategory"`
}

// Query selects listings either by MLS number or by address (+ optional city).
type Query struct {
	MLS     string
	Address string
	City    string
}

// Response is the JSON body returned by the proxy endpoints. Only the fields relevant
// to a given outcome are set.
type Response struct {
	Results []SearchResult `json:"results"`
	Error   string         `json:"error,omitempty"`
	Hint    string         `json:"hint,omitempty"`
	Demo    bool           `json:"demo,omitempty"`
	Status  int            `json:"status,omitempty"`
	Detail  string         `json:"detail,omitempty"`
}

const (
	defaultPropertyType = "Residential"
	defaultStatus       = "Active"
	notAvailable        = "N/A"
)
