package shipping

import "strings"

// ProviderID identifies one of the registered carriers.
type ProviderID string

const (
	ProviderGHN         ProviderID = "ghn"
	ProviderGHTK        ProviderID = "ghtk"
	ProviderViettelPost ProviderID = "viettel_post"
)

// Provider describes a shipping carrier. Values are fixed at compile time.
type Provider struct {
	ID            ProviderID `json:"id"`
	Name          string     `json:"name"`
	Code          string     `json:"code"`
	TrackingURL   string     `json:"tracking_url"`
	EstimatedDays int        `json:"estimated_days"`
}

// registered is ordered; quotes with equal cost keep this order.
var registered = [...]Provider{
	{
		ID:            ProviderGHN,
		Name:          "Giao Hàng Nhanh",
		Code:          "GHN",
		TrackingURL:   "https://donhang.ghn.vn/?order_code={tracking}",
		EstimatedDays: 2,
	},
	{
		ID:            ProviderGHTK,
		Name:          "Giao Hàng Tiết Kiệm",
		Code:          "GHTK",
		TrackingURL:   "https://i.ghtk.vn/{tracking}",
		EstimatedDays: 3,
	},
	{
		ID:            ProviderViettelPost,
		Name:          "Viettel Post",
		Code:          "VTP",
		TrackingURL:   "https://viettelpost.com.vn/tra-cuu-hanh-trinh-don/?code={tracking}",
		EstimatedDays: 4,
	},
}

// Providers returns the registered carriers in registration order.
func Providers() []Provider {
	out := make([]Provider, len(registered))
	copy(out, registered[:])
	return out
}

// LookupProvider returns the carrier with the given id.
func LookupProvider(id ProviderID) (Provider, bool) {
	for _, p := range registered {
		if p.ID == id {
			return p, true
		}
	}
	return Provider{}, false
}

// TrackingURL fills the carrier's tracking template. Unknown carriers yield "".
func TrackingURL(id ProviderID, trackingNumber string) string {
	p, ok := LookupProvider(id)
	if !ok {
		return ""
	}
	return strings.ReplaceAll(p.TrackingURL, "{tracking}", trackingNumber)
}

// rateCard holds a carrier's flat tier prices for <=0.5kg, <=1kg and <=2kg
// plus the increment charged per full 500g above 2kg.
type rateCard struct {
	tiers     [3]int64
	perHalfKg int64
}

func (id ProviderID) rateCard() (rateCard, bool) {
	switch id {
	case ProviderGHN:
		return rateCard{tiers: [3]int64{15000, 18000, 22000}, perHalfKg: 5000}, true
	case ProviderGHTK:
		return rateCard{tiers: [3]int64{16000, 19000, 23000}, perHalfKg: 4500}, true
	case ProviderViettelPost:
		return rateCard{tiers: [3]int64{18000, 21000, 25000}, perHalfKg: 6000}, true
	default:
		return rateCard{}, false
	}
}
