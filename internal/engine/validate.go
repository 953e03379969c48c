package engine

import (
	"errors"
	"fmt"
	"math"

	"eve-hauler/internal/esi"
)

// ValidationError marks a malformed request, as opposed to a query that
// legitimately produced no opportunities. Callers should surface it as a
// bad request rather than an empty result set.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidationError reports whether err is a request validation failure.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Validate checks that a location names a region and a known trade side.
func (l Location) Validate(field string) error {
	if l.RegionID == 0 {
		return &ValidationError{Field: field, Reason: "missing region identifier"}
	}
	if l.Preference != "buy" && l.Preference != "sell" {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("preference must be %q or %q, got %q", "buy", "sell", l.Preference)}
	}
	return nil
}

// Validate checks that every constraint is a finite, non-negative number.
func (c Constraints) Validate() error {
	checks := []struct {
		name  string
		value float64
	}{
		{"min_profit", c.MinProfit},
		{"min_roi", c.MinROI},
		{"max_budget", c.MaxBudget},
		{"max_cargo", c.MaxCargo},
		{"sales_tax_rate", c.SalesTaxRate},
		{"broker_fee_rate", c.BrokerFeeRate},
	}
	for _, ch := range checks {
		if math.IsNaN(ch.value) || math.IsInf(ch.value, 0) {
			return &ValidationError{Field: ch.name, Reason: "must be a finite number"}
		}
		if ch.value < 0 {
			return &ValidationError{Field: ch.name, Reason: "must not be negative"}
		}
	}
	return nil
}

// ValidateOrders rejects malformed order data: a resting order must carry a
// positive price and a non-negative remaining quantity.
func ValidateOrders(field string, orders []esi.MarketOrder) error {
	for _, o := range orders {
		if o.Price <= 0 {
			return &ValidationError{
				Field:  field,
				Reason: fmt.Sprintf("order %d has non-positive price %v", o.OrderID, o.Price),
			}
		}
		if o.VolumeRemain < 0 {
			return &ValidationError{
				Field:  field,
				Reason: fmt.Sprintf("order %d has negative remaining volume %d", o.OrderID, o.VolumeRemain),
			}
		}
	}
	return nil
}
