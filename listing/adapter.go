package listing

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/yourorg/mls-search-api/mls"
)

const (
	placeholderImage = "/placeholder-property.jpg"
	maxBulletPoints  = 5

	downPaymentPercent = 20.0
	interestRate       = 6.5
	loanTermYears      = 30
)

// PropertyListing is the presentation model built from a search result.
type PropertyListing struct {
	ID            string    `json:"id"`
	MLSNumber     string    `json:"mlsNumber"`
	Headline      string    `json:"headline"`
	Address       string    `json:"address"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	Zip           string    `json:"zip"`
	Price         float64   `json:"price"`
	Bedrooms      int       `json:"bedrooms"`
	Bathrooms     float64   `json:"bathrooms"`
	SquareFootage int       `json:"squareFootage"`
	LotSize       string    `json:"lotSize"`
	YearBuilt     int       `json:"yearBuilt"`
	Garage        string    `json:"garage"`
	PropertyType  string    `json:"propertyType"`
	Status        string    `json:"status"`
	Description   string    `json:"description"`
	BulletPoints  []string  `json:"bulletPoints"`
	HeroImage     string    `json:"heroImage"`
	GalleryImages []string  `json:"galleryImages"`
	HOA           float64   `json:"hoa"`
	AnnualTax     float64   `json:"annualTax"`
	Financing     Financing `json:"financing"`
	Source        string    `json:"source"`
}

// Financing holds fixed presentation assumptions and the amounts derived from them.
type Financing struct {
	DownPaymentPercent float64 `json:"downPaymentPercent"`
	InterestRate       float64 `json:"interestRate"`
	LoanTermYears      int     `json:"loanTermYears"`
	DownPayment        float64 `json:"downPayment"`
	LoanAmount         float64 `json:"loanAmount"`
	MonthlyPayment     float64 `json:"monthlyPayment"`
}

func FromSearchResult(r mls.SearchResult) PropertyListing {
	hero := r.HeroImage
	if hero == "" {
		hero = placeholderImage
	}
	gallery := append([]string{}, r.GalleryImages...)
	return PropertyListing{
		ID:            "mls-" + r.MLSNumber,
		MLSNumber:     r.MLSNumber,
		Headline:      headline(r),
		Address:       r.Address,
		City:          r.City,
		State:         r.State,
		Zip:           r.Zip,
		Price:         r.ListPrice,
		Bedrooms:      r.Bedrooms,
		Bathrooms:     r.Bathrooms,
		SquareFootage: r.SquareFootage,
		LotSize:       r.LotSize,
		YearBuilt:     r.YearBuilt,
		Garage:        r.Garage,
		PropertyType:  r.PropertyType,
		Status:        r.Status,
		Description:   r.Description,
		BulletPoints:  bulletPoints(r.Description),
		HeroImage:     hero,
		GalleryImages: gallery,
		HOA:           r.HOA,
		AnnualTax:     r.AnnualTax,
		Financing:     financing(r.ListPrice),
		Source:        "mls",
	}
}

func headline(r mls.SearchResult) string {
	return fmt.Sprintf("%dBR/%sBA %s in %s",
		r.Bedrooms, strconv.FormatFloat(r.Bathrooms, 'f', -1, 64), r.PropertyType, r.City)
}

func bulletPoints(desc string) []string {
	out := []string{}
	for _, s := range strings.Split(desc, ". ") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
		if len(out) == maxBulletPoints {
			break
		}
	}
	return out
}

func financing(price float64) Financing {
	down := roundCents(price * downPaymentPercent / 100)
	loan := roundCents(price - down)
	return Financing{
		DownPaymentPercent: downPaymentPercent,
		InterestRate:       interestRate,
		LoanTermYears:      loanTermYears,
		DownPayment:        down,
		LoanAmount:         loan,
		MonthlyPayment:     roundCents(monthlyPayment(loan, interestRate, loanTermYears)),
	}
}

// monthlyPayment is the fixed-rate amortized payment P*r / (1 - (1+r)^-n).
func monthlyPayment(principal, annualRatePct float64, years int) float64 {
	n := float64(years * 12)
	if principal <= 0 || n <= 0 {
		return 0
	}
	r := annualRatePct / 100 / 12
	if r == 0 {
		return principal / n
	}
	return principal * r / (1 - math.Pow(1+r, -n))
}

func roundCents(v float64) float64 { return math.Round(v*100) / 100 }
