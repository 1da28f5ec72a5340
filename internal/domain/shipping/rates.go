package shipping

import (
	"sort"
	"strings"

	"github.com/example/ec-storefront/internal/money"
	"github.com/shopspring/decimal"
)

// DefaultBaseCost is charged when a provider id is not registered.
const DefaultBaseCost int64 = 25000

const (
	sameMetroMultiplier   = 1.0
	oneMetroMultiplier    = 1.2
	crossRegionMultiplier = 1.5
)

// metroDistricts are the Ho Chi Minh City names used by the distance
// heuristic. Matching is plain substring containment, so "Quận 1" also
// matches "Quận 10"; both are inside the metro anyway.
var metroDistricts = []string{
	"hồ chí minh", "hcm", "sài gòn",
	"quận 1", "quận 2", "quận 3", "quận 4", "quận 5", "quận 6",
	"quận 7", "quận 8", "quận 9", "quận 10", "quận 11", "quận 12",
	"bình thạnh", "gò vấp", "phú nhuận", "tân bình", "tân phú",
	"bình tân", "thủ đức",
}

// ShippingRate is one carrier's quote for a parcel.
type ShippingRate struct {
	Provider         Provider `json:"provider"`
	Cost             int64    `json:"cost"`
	FormattedCost    string   `json:"formatted_cost"`
	EstimatedDays    int      `json:"estimated_days"`
	SupportsTracking bool     `json:"supports_tracking"`
}

// CalculateShippingCost quotes every registered carrier and returns the
// rates sorted by ascending cost.
func CalculateShippingCost(fromDistrict, toDistrict string, weightGrams, declaredValue int64) []ShippingRate {
	multiplier := decimal.NewFromFloat(DistanceMultiplier(fromDistrict, toDistrict))
	surcharge := InsuranceFee(declaredValue)

	rates := make([]ShippingRate, 0, len(registered))
	for _, p := range registered {
		base := decimal.NewFromInt(BaseCost(p.ID, weightGrams))
		cost := base.Mul(multiplier).Round(0).IntPart() + surcharge
		rates = append(rates, ShippingRate{
			Provider:         p,
			Cost:             cost,
			FormattedCost:    money.FormatVND(cost),
			EstimatedDays:    p.EstimatedDays,
			SupportsTracking: p.TrackingURL != "",
		})
	}

	sort.SliceStable(rates, func(i, j int) bool {
		return rates[i].Cost < rates[j].Cost
	})
	return rates
}

// BaseCost returns the weight-tiered price before distance and insurance.
// Weights above 2kg add the carrier increment for every full 500g over 2kg.
func BaseCost(id ProviderID, weightGrams int64) int64 {
	card, ok := id.rateCard()
	if !ok {
		return DefaultBaseCost
	}

	switch {
	case weightGrams <= 500:
		return card.tiers[0]
	case weightGrams <= 1000:
		return card.tiers[1]
	case weightGrams <= 2000:
		return card.tiers[2]
	}

	halfKilos := (weightGrams - 2000) / 500
	return card.tiers[2] + halfKilos*card.perHalfKg
}

// DistanceMultiplier is 1.0 inside the metro, 1.2 when one endpoint is in
// the metro, 1.5 otherwise.
func DistanceMultiplier(fromDistrict, toDistrict string) float64 {
	fromMetro := inMetro(fromDistrict)
	toMetro := inMetro(toDistrict)

	switch {
	case fromMetro && toMetro:
		return sameMetroMultiplier
	case fromMetro || toMetro:
		return oneMetroMultiplier
	default:
		return crossRegionMultiplier
	}
}

func inMetro(district string) bool {
	d := strings.ToLower(strings.TrimSpace(district))
	if d == "" {
		return false
	}
	for _, name := range metroDistricts {
		if strings.Contains(d, name) {
			return true
		}
	}
	return false
}

var (
	insuranceLow  = decimal.RequireFromString("0.005")
	insuranceMid  = decimal.RequireFromString("0.003")
	insuranceHigh = decimal.RequireFromString("0.002")
)

// InsuranceFee is the declared-value surcharge: nothing below 1,000,000,
// then 0.5% up to 3,000,000, 0.3% up to 10,000,000 and 0.2% above,
// rounded to the nearest đồng.
func InsuranceFee(declaredValue int64) int64 {
	var rate decimal.Decimal
	switch {
	case declaredValue < 1_000_000:
		return 0
	case declaredValue <= 3_000_000:
		rate = insuranceLow
	case declaredValue <= 10_000_000:
		rate = insuranceMid
	default:
		rate = insuranceHigh
	}
	return decimal.NewFromInt(declaredValue).Mul(rate).Round(0).IntPart()
}
