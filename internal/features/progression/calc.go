package progression

import (
	"github.com/shopspring/decimal"
)

// Progression math shared by the push path and the dashboard read side.
// All percentages are rounded to 2 decimal places, half-up. A missing or
// non-positive total area always yields zero, never an error.

var hundred = decimal.NewFromInt(100)

// Percentage returns treated*100/total rounded to 2 decimals.
func Percentage(treatedArea, totalArea decimal.NullDecimal) decimal.Decimal {
	if !totalArea.Valid || totalArea.Decimal.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	if !treatedArea.Valid {
		return decimal.Zero
	}

	return treatedArea.Decimal.Mul(hundred).DivRound(totalArea.Decimal, 2)
}

// Totals sums the treated areas of a progression list (missing values count
// as zero) and returns the sum together with its overall percentage.
func Totals(treatedAreas []decimal.NullDecimal, totalArea decimal.NullDecimal) (decimal.Decimal, decimal.Decimal) {
	totalTreated := decimal.Zero
	for _, area := range treatedAreas {
		if area.Valid {
			totalTreated = totalTreated.Add(area.Decimal)
		}
	}

	percentage := Percentage(decimal.NewNullDecimal(totalTreated), totalArea)
	return totalTreated, percentage
}

// RemainingArea returns the untreated surface, clamped at zero.
func RemainingArea(totalTreated decimal.Decimal, totalArea decimal.NullDecimal) decimal.Decimal {
	if !totalArea.Valid {
		return decimal.Zero
	}

	remaining := totalArea.Decimal.Sub(totalTreated)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// IsCompleted reports whether the treated surface covers the whole area.
func IsCompleted(totalTreated decimal.Decimal, totalArea decimal.NullDecimal) bool {
	if !totalArea.Valid || totalArea.Decimal.LessThanOrEqual(decimal.Zero) {
		return false
	}

	return totalTreated.GreaterThanOrEqual(totalArea.Decimal)
}

// CumulativePercentage returns the percentage covered by progressions[0..upTo],
// useful for chronological evolution views.
func CumulativePercentage(treatedAreas []decimal.NullDecimal, upTo int, totalArea decimal.NullDecimal) decimal.Decimal {
	cumulative := decimal.Zero
	for i := 0; i <= upTo && i < len(treatedAreas); i++ {
		if treatedAreas[i].Valid {
			cumulative = cumulative.Add(treatedAreas[i].Decimal)
		}
	}

	return Percentage(decimal.NewNullDecimal(cumulative), totalArea)
}
