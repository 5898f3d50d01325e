package pricing

import (
	"math"

	"motogo-backend/internal/config"
)

// Breakdown is the full fare computation for one trip. Only Price (the
// rounded base price) is persisted on the order; the rest is returned to the
// client so it can show the customer and driver their exact figures.
type Breakdown struct {
	Distance       float64 `json:"distance"`
	BaseFare       float64 `json:"base_fare"`
	DistanceCharge float64 `json:"distance_charge"`
	Subtotal       float64 `json:"subtotal"`
	MinimumFare    float64 `json:"minimum_fare"`
	BasePrice      float64 `json:"base_price"`

	// Earnings, each rounded UP to the nearest rounding unit independently.
	// customerPaysCash = driverEarnings + platformEarnings may therefore
	// exceed basePrice; both parties receive a cash-friendly figure.
	DriverEarnings   int `json:"driver_earnings"`
	PlatformEarnings int `json:"platform_earnings"`
	CustomerPaysCash int `json:"customer_pays_cash"`
	ProcessingFee    int `json:"processing_fee"`
	CustomerPaysCard int `json:"customer_pays_card"`

	// Price is the integer base price stored on the order.
	Price int `json:"price"`
}

// Engine computes fare breakdowns from distance. It is a pure function of
// its configuration.
type Engine struct {
	cfg config.PricingConfig
}

func NewEngine(cfg config.PricingConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Quote computes the fare breakdown for a trip of the given distance in km.
// A zero distance still yields max(minimumFare, baseFare).
func (e *Engine) Quote(distanceKm float64) Breakdown {
	c := e.cfg

	distanceCharge := distanceKm * c.DistanceRate
	subtotal := c.BaseFare + distanceCharge
	basePrice := math.Max(c.MinimumFare, subtotal)

	driverEarnings := RoundUp(basePrice*c.DriverShare, c.RoundingUnit)
	platformEarnings := RoundUp(basePrice*(1-c.DriverShare), c.RoundingUnit)
	customerPaysCash := driverEarnings + platformEarnings

	processingFee := RoundUp(basePrice*c.CardFeeRate, c.RoundingUnit)

	return Breakdown{
		Distance:         distanceKm,
		BaseFare:         c.BaseFare,
		DistanceCharge:   distanceCharge,
		Subtotal:         subtotal,
		MinimumFare:      c.MinimumFare,
		BasePrice:        basePrice,
		DriverEarnings:   driverEarnings,
		PlatformEarnings: platformEarnings,
		CustomerPaysCash: customerPaysCash,
		ProcessingFee:    processingFee,
		CustomerPaysCard: customerPaysCash + processingFee,
		Price:            int(math.Round(basePrice)),
	}
}

// RoundUp returns the smallest multiple of unit >= amount.
func RoundUp(amount float64, unit int) int {
	return int(math.Ceil(amount/float64(unit))) * unit
}
