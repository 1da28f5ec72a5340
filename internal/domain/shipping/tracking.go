package shipping

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const (
	trackingDigits      = 8
	defaultLeadTimeDays = 3
	fallbackCode        = "SHIP"
)

// Swapped in tests.
var (
	now      = time.Now
	randIntn = rand.IntN
)

// GenerateTrackingNumber builds "<CODE><8 timestamp digits><3 random digits>".
// Collisions are possible; the value is for display, not a key.
func GenerateTrackingNumber(id ProviderID) string {
	code := fallbackCode
	if p, ok := LookupProvider(id); ok {
		code = p.Code
	}

	millis := now().UnixMilli()
	ts := fmt.Sprintf("%0*d", trackingDigits, millis)
	ts = ts[len(ts)-trackingDigits:]

	return fmt.Sprintf("%s%s%03d", code, ts, randIntn(1000))
}

// CalculateEstimatedDelivery adds the carrier lead time to orderDate and
// moves a weekend landing day forward to Monday. Holidays are not skipped.
func CalculateEstimatedDelivery(id ProviderID, orderDate time.Time) time.Time {
	days := defaultLeadTimeDays
	if p, ok := LookupProvider(id); ok {
		days = p.EstimatedDays
	}

	delivery := orderDate.AddDate(0, 0, days)
	for isWeekend(delivery) {
		delivery = delivery.AddDate(0, 0, 1)
	}
	return delivery
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
