package mls

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/yourorg/mls-search-api/internal/canon"
)

// text accepts a JSON string or number (some feeds send ListingId as a number).
type text string

func (s *text) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*s = text(strings.TrimSpace(str))
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	*s = text(num.String())
	return nil
}

// number accepts a JSON number, a numeric string or null. Anything unparseable is
// treated as absent rather than failing the whole record.
type number struct {
	Value float64
	Valid bool
}

func (n *number) UnmarshalJSON(b []byte) error {
	*n = number{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	raw := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return nil
		}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	*n = number{Value: f, Valid: true}
	return nil
}

func (n number) float() float64 {
	if !n.Valid {
		return 0
	}
	return n.Value
}

func (n number) int() int {
	if !n.Valid {
		return 0
	}
	return int(math.Round(n.Value))
}

// resoProperty is the union of the Property fields both feeds expose. Each provider
// only $selects its own subset; the rest stay zero.
type resoProperty struct {
	ListingID             text    `json:"ListingId"`
	ListingKey            text    `json:"ListingKey"`
	UnparsedAddress       string  `json:"UnparsedAddress"`
	StreetNumber          text    `json:"StreetNumber"`
	StreetName            string  `json:"StreetName"`
	StreetSuffix          string  `json:"StreetSuffix"`
	UnitNumber            text    `json:"UnitNumber"`
	City                  string  `json:"City"`
	StateOrProvince       string  `json:"StateOrProvince"`
	PostalCode            text    `json:"PostalCode"`
	ListPrice             number  `json:"ListPrice"`
	BedroomsTotal         number  `json:"BedroomsTotal"`
	BathroomsTotalDecimal number  `json:"BathroomsTotalDecimal"`
	BathroomsTotalInteger number  `json:"BathroomsTotalInteger"`
	LivingArea            number  `json:"LivingArea"`
	LotSizeSquareFeet     number  `json:"LotSizeSquareFeet"`
	YearBuilt             number  `json:"YearBuilt"`
	GarageSpaces          number  `json:"GarageSpaces"`
	PropertyType          string  `json:"PropertyType"`
	StandardStatus        string  `json:"StandardStatus"`
	PublicRemarks         string  `json:"PublicRemarks"`
	AssociationFee        number  `json:"AssociationFee"`
	TaxAnnualAmount       number  `json:"TaxAnnualAmount"`
	Media                 []Photo `json:"Media"`
}

// baseResult applies the default-substitution rules shared by every provider.
// Address and bathrooms are provider specific and filled in by the caller.
func (p resoProperty) baseResult() SearchResult {
	return SearchResult{
		MLSNumber:     firstNonEmpty(string(p.ListingID), string(p.ListingKey)),
		City:          strings.TrimSpace(p.City),
		State:         strings.TrimSpace(p.StateOrProvince),
		Zip:           string(p.PostalCode),
		ListPrice:     p.ListPrice.float(),
		Bedrooms:      p.BedroomsTotal.int(),
		SquareFootage: p.LivingArea.int(),
		LotSize:       formatLotSize(p.LotSizeSquareFeet),
		YearBuilt:     p.YearBuilt.int(),
		Garage:        formatGarage(p.GarageSpaces),
		PropertyType:  nonEmpty(strings.TrimSpace(p.PropertyType), defaultPropertyType),
		Status:        nonEmpty(strings.TrimSpace(p.StandardStatus), defaultStatus),
		Description:   strings.TrimSpace(p.PublicRemarks),
		HOA:           p.AssociationFee.float(),
		AnnualTax:     p.TaxAnnualAmount.float(),
		GalleryImages: []string{},
	}
}

func (p resoProperty) composedAddress() string {
	return canon.JoinParts(string(p.StreetNumber), p.StreetName, p.StreetSuffix, string(p.UnitNumber))
}

func formatLotSize(n number) string {
	if !n.Valid || n.Value <= 0 {
		return notAvailable
	}
	return formatFloat(n.Value) + " sqft"
}

func formatGarage(n number) string {
	if !n.Valid || n.Value <= 0 {
		return notAvailable
	}
	return formatFloat(n.Value) + " car"
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// applyPhotos orders photos by Order (missing counts as 0, ties keep provider order)
// and derives the hero and gallery images.
func applyPhotos(r *SearchResult, photos []Photo) {
	r.HeroImage = ""
	r.GalleryImages = []string{}
	if len(photos) == 0 {
		return
	}
	sorted := orderPhotos(photos)
	urls := make([]string, 0, len(sorted))
	for _, ph := range sorted {
		if u := strings.TrimSpace(ph.URL); u != "" {
			urls = append(urls, u)
		}
	}
	if len(urls) == 0 {
		return
	}
	r.HeroImage = urls[0]
	r.GalleryImages = append(r.GalleryImages, urls[1:]...)
}

func orderPhotos(photos []Photo) []Photo {
	sorted := append([]Photo(nil), photos...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order.float() < sorted[j].Order.float()
	})
	return sorted
}

func nonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
