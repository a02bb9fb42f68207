package mls

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	defaultBridgeBaseURL = "https://api.bridgedataoutput.com/api/v2/OData"
	defaultBridgeDataset = "test"
)

var bridgeSelect = []string{
	"ListingId", "ListingKey", "UnparsedAddress",
	"StreetNumber", "StreetName", "StreetSuffix", "UnitNumber",
	"City", "StateOrProvince", "PostalCode",
	"ListPrice", "BedroomsTotal", "BathroomsTotalDecimal", "LivingArea",
	"LotSizeSquareFeet", "YearBuilt", "GarageSpaces",
	"PropertyType", "StandardStatus", "PublicRemarks",
	"AssociationFee", "TaxAnnualAmount", "Media",
}

type BridgeConfig struct {
	BaseURL   string
	DatasetID string
	Token     string
}

// NewBridge builds the Bridge Interactive provider (NWMLS dataset).
func NewBridge(cfg BridgeConfig) *Provider {
	base := strings.TrimSuffix(nonEmpty(strings.TrimSpace(cfg.BaseURL), defaultBridgeBaseURL), "/")
	dataset := nonEmpty(strings.TrimSpace(cfg.DatasetID), defaultBridgeDataset)
	return &Provider{
		Name:        SourceNWMLS.ProviderName(),
		Label:       "Bridge",
		Source:      SourceNWMLS,
		PropertyURL: fmt.Sprintf("%s/%s/Property", base, dataset),
		Token:       cfg.Token,
		Hint:        "Set BRIDGE_BEARER_TOKEN (and optionally BRIDGE_DATASET_ID) in the server environment to enable live NWMLS search.",
		Select:      bridgeSelect,
		Filter:      bridgeFilter,
		Normalize:   normalizeBridge,
	}
}

func bridgeFilter(q Query) string {
	if q.MLS != "" {
		return "ListingId eq " + Literal(q.MLS)
	}
	f := "contains(tolower(UnparsedAddress),tolower(" + Literal(q.Address) + "))"
	if q.City != "" {
		f += " and tolower(City) eq tolower(" + Literal(q.City) + ")"
	}
	return f
}

func normalizeBridge(raw json.RawMessage) (SearchResult, []Photo, error) {
	var p resoProperty
	if err := json.Unmarshal(raw, &p); err != nil {
		return SearchResult{}, nil, fmt.Errorf("bridge: decode property: %w", err)
	}
	r := p.baseResult()
	r.Address = nonEmpty(strings.TrimSpace(p.UnparsedAddress), p.composedAddress())
	r.Bathrooms = p.BathroomsTotalDecimal.float()
	return r, p.Media, nil
}
