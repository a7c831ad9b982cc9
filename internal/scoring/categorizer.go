package scoring

import "math"

// Category is a discrete match-quality tier. The five literal values are a
// contract with the presentation layer, which color-codes reconciliation
// candidates accordingly.
type Category string

const (
	CategoryDarkGreen Category = "DARK_GREEN"
	CategoryGreen     Category = "GREEN"
	CategoryYellow    Category = "YELLOW"
	CategoryOrange    Category = "ORANGE"
	CategoryRed       Category = "RED"
)

// IsValid checks whether the category is one of the five tier literals.
func (c Category) IsValid() bool {
	switch c {
	case CategoryDarkGreen, CategoryGreen, CategoryYellow, CategoryOrange, CategoryRed:
		return true
	default:
		return false
	}
}

// Tier thresholds on risk-discounted confidence.
const (
	darkGreenBar = 0.95
	greenBar     = 0.85
	yellowBar    = 0.70
	orangeBar    = 0.50
)

// Categorize maps risk-discounted confidence into a tier.
func Categorize(discountedConfidence float64) Category {
	switch {
	case discountedConfidence >= darkGreenBar:
		return CategoryDarkGreen
	case discountedConfidence >= greenBar:
		return CategoryGreen
	case discountedConfidence >= yellowBar:
		return CategoryYellow
	case discountedConfidence >= orangeBar:
		return CategoryOrange
	default:
		return CategoryRed
	}
}

// Match-quality risk adjustments.
const (
	lowRiskQualityBonus    = 10
	highRiskQualityPenalty = 20
)

// MatchQuality computes the 0-100 integer ranking score. It uses the raw
// (pre-discount) aggregated confidence as its base, then applies the risk
// level as an additive adjustment; this intentionally differs from the
// categorization, which works on risk-discounted confidence.
func MatchQuality(rawConfidence float64, level RiskLevel) int {
	quality := int(math.Round(rawConfidence * 100))

	switch level {
	case RiskLow:
		quality += lowRiskQualityBonus
	case RiskHigh:
		quality -= highRiskQualityPenalty
	}

	if quality > 100 {
		quality = 100
	}
	if quality < 0 {
		quality = 0
	}
	return quality
}
