package listing

import (
	"math/rand"
	"strconv"

	"github.com/yourorg/mls-search-api/mls"
)

const (
	mockAddress = "123 Demo Street"
	mockCity    = "Portland"
	mockHint    = "MLS search API is not available in this environment; showing a demo listing."
)

var mockPhotos = []string{
	"https://images.unsplash.com/photo-1568605114967-8130f3a36994?w=1200",
	"https://images.unsplash.com/photo-1570129477492-45c003edd2be?w=1200",
	"https://images.unsplash.com/photo-1564013799919-ab600027ffc6?w=1200",
}

// randomMLSNumber returns an 8-digit listing number.
var randomMLSNumber = func() string {
	return strconv.Itoa(10_000_000 + rand.Intn(90_000_000))
}

func mockResponse(q mls.Query) mls.Response {
	address := q.Address
	if address == "" {
		address = mockAddress
	}
	city := q.City
	if city == "" {
		city = mockCity
	}
	gallery := append([]string(nil), mockPhotos[1:]...)
	return mls.Response{
		Results: []mls.SearchResult{{
			MLSNumber:     randomMLSNumber(),
			Address:       address,
			City:          city,
			State:         "OR",
			Zip:           "97201",
			ListPrice:     549000,
			Bedrooms:      3,
			Bathrooms:     2,
			SquareFootage: 1850,
			LotSize:       "5000 sqft",
			YearBuilt:     1998,
			Garage:        "2 car",
			PropertyType:  "Residential",
			Status:        "Active",
			Description:   "Bright open floor plan. Updated kitchen with quartz counters. Fenced backyard. Close to parks and transit.",
			HOA:           0,
			AnnualTax:     5200,
			HeroImage:     mockPhotos[0],
			GalleryImages: gallery,
		}},
		Demo: true,
		Hint: mockHint,
	}
}
