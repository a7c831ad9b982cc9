package scoring

import (
	"bank-matching-engine/internal/analyzers"
)

// RiskLevel grades how much an apparent match should be distrusted.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Risk detection thresholds.
const (
	conflictAmountBar    = 0.3
	conflictReferenceBar = 0.8
	temporalMismatchBar  = 0.2
)

// RiskAssessment is the result of inter-layer conflict detection for one
// pair.
type RiskAssessment struct {
	Level   RiskLevel `json:"level"`
	Factors []string  `json:"factors,omitempty"`
}

// AssessRisk detects conflicting layer signals. A strong reference hit on a
// badly mismatched amount suggests a reused invoice number; a distant date
// undermines everything else.
func AssessRisk(scores map[analyzers.Layer]float64) RiskAssessment {
	assessment := RiskAssessment{Level: RiskLow}

	if scores[analyzers.LayerAmount] < conflictAmountBar &&
		scores[analyzers.LayerReference] > conflictReferenceBar {
		assessment.Factors = append(assessment.Factors, "amount_reference_conflict")
		assessment.Level = RiskMedium
	}

	// Temporal mismatch overrides a medium rating.
	if scores[analyzers.LayerTemporal] < temporalMismatchBar {
		assessment.Factors = append(assessment.Factors, "temporal_mismatch")
		assessment.Level = RiskHigh
	}

	return assessment
}

// Discount returns the confidence multiplier for the risk level.
func (ra RiskAssessment) Discount() float64 {
	switch ra.Level {
	case RiskHigh:
		return 0.8
	case RiskMedium:
		return 0.9
	default:
		return 1.0
	}
}
