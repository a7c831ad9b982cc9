// Package analyzers implements the seven scoring layers of the matching
// engine. Each analyzer scores one aspect of a (bank transaction, ledger
// candidate) pair and returns an Analysis: a score in [0,1] plus the
// qualitative factors that produced it.
//
// Analyzers never fail. Malformed input fields yield a zero score with a
// diagnostic factor tag; missing fields yield a neutral or zero score. This
// keeps a single bad field from aborting a candidate scan.
package analyzers

import (
	"bank-matching-engine/internal/models"
)

// Layer identifies one of the seven scoring layers.
type Layer string

const (
	LayerAmount     Layer = "amount"
	LayerTemporal   Layer = "temporal"
	LayerReference  Layer = "reference"
	LayerParty      Layer = "party"
	LayerSemantic   Layer = "semantic"
	LayerBehavioral Layer = "behavioral"
	LayerContextual Layer = "contextual"
)

// AllLayers lists the layers in their canonical order.
func AllLayers() []Layer {
	return []Layer{
		LayerAmount,
		LayerTemporal,
		LayerReference,
		LayerParty,
		LayerSemantic,
		LayerBehavioral,
		LayerContextual,
	}
}

// Analysis is the output of one analyzer for one pair. Score is always in
// [0,1]; Factors is non-empty whenever Score is above zero (the contextual
// layer's neutral baseline being the documented exception).
type Analysis struct {
	Score   float64                `json:"score"`
	Factors []string               `json:"factors,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// NewAnalysis creates an empty analysis.
func NewAnalysis() *Analysis {
	return &Analysis{
		Factors: []string{},
		Details: make(map[string]interface{}),
	}
}

// AddFactor appends a qualitative factor tag.
func (a *Analysis) AddFactor(tag string) *Analysis {
	a.Factors = append(a.Factors, tag)
	return a
}

// HasFactor reports whether the analysis carries the given factor tag.
func (a *Analysis) HasFactor(tag string) bool {
	for _, f := range a.Factors {
		if f == tag {
			return true
		}
	}
	return false
}

// SetDetail records a diagnostic key/value.
func (a *Analysis) SetDetail(key string, value interface{}) *Analysis {
	a.Details[key] = value
	return a
}

// clamp bounds the score to [0,1]. Every analyzer calls this before
// returning, so additive adjustments can be applied without bounds checks.
func (a *Analysis) clamp() *Analysis {
	if a.Score > 1.0 {
		a.Score = 1.0
	}
	if a.Score < 0.0 {
		a.Score = 0.0
	}
	return a
}

// Analyzer scores one aspect of a (transaction, candidate) pair.
type Analyzer interface {
	// Layer returns the layer this analyzer contributes to.
	Layer() Layer

	// Analyze scores the pair. It never fails and never mutates its inputs.
	Analyze(tx *models.BankTransaction, cand *models.LedgerCandidate) *Analysis
}
