package mls

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	defaultRMLSBaseURL = "https://resoapi.rmlsweb.com/reso/odata"
	rmlsMediaTop       = 6
)

var rmlsSelect = []string{
	"ListingId", "ListingKey",
	"StreetNumber", "StreetName", "StreetSuffix", "UnitNumber",
	"City", "StateOrProvince", "PostalCode",
	"ListPrice", "BedroomsTotal", "BathroomsTotalInteger", "LivingArea",
	"LotSizeSquareFeet", "YearBuilt", "GarageSpaces",
	"PropertyType", "StandardStatus", "PublicRemarks",
	"AssociationFee", "TaxAnnualAmount",
}

type RMLSConfig struct {
	BaseURL string
	Token   string
}

// NewRMLS builds the RMLS provider. Property records carry no media, so photos come
// from a per-listing Media query.
func NewRMLS(cfg RMLSConfig) *Provider {
	base := strings.TrimSuffix(nonEmpty(strings.TrimSpace(cfg.BaseURL), defaultRMLSBaseURL), "/")
	return &Provider{
		Name:        SourceRMLS.ProviderName(),
		Label:       "RMLS",
		Source:      SourceRMLS,
		PropertyURL: base + "/Property",
		Token:       cfg.Token,
		Hint:        "Set RMLS_BEARER_TOKEN in the server environment to enable live RMLS search.",
		Select:      rmlsSelect,
		Filter:      rmlsFilter,
		Normalize:   normalizeRMLS,
		Media: &MediaSpec{
			URL:     base + "/Media",
			Filter:  rmlsMediaFilter,
			Select:  []string{"MediaURL", "Order", "MediaCategory"},
			Top:     rmlsMediaTop,
			OrderBy: "Order asc",
		},
	}
}

// RMLS matches city case-sensitively, unlike Bridge.
func rmlsFilter(q Query) string {
	if q.MLS != "" {
		return "ListingId eq " + Literal(q.MLS)
	}
	f := "contains(StreetName," + Literal(q.Address) + ")"
	if q.City != "" {
		f += " and City eq " + Literal(q.City)
	}
	return f
}

func rmlsMediaFilter(mlsNumber string) string {
	return "ResourceRecordKey eq " + Literal(mlsNumber) + " and MediaCategory eq 'Photo'"
}

func normalizeRMLS(raw json.RawMessage) (SearchResult, []Photo, error) {
	var p resoProperty
	if err := json.Unmarshal(raw, &p); err != nil {
		return SearchResult{}, nil, fmt.Errorf("rmls: decode property: %w", err)
	}
	r := p.baseResult()
	r.Address = p.composedAddress()
	r.Bathrooms = p.BathroomsTotalInteger.float()
	return r, nil, nil
}
