// Package scoring combines the seven layer scores into a single confidence
// value, assesses inter-layer signal conflicts, and maps the final confidence
// into discrete match-quality tiers.
package scoring

import (
	"fmt"
	"sort"

	"bank-matching-engine/internal/analyzers"
)

// Weights assigns the relative importance of each scoring layer.
//
// The default table deliberately sums to 1.25, not 1.0: the aggregate divides
// by the sum of weights actually present, so all-layer agreement reaches 1.0
// more easily than a strict probability model would allow. This is a
// behavioral contract, not an arithmetic oversight.
type Weights map[analyzers.Layer]float64

// DefaultWeights returns the canonical weight table.
func DefaultWeights() Weights {
	return Weights{
		analyzers.LayerAmount:     0.30,
		analyzers.LayerTemporal:   0.25,
		analyzers.LayerReference:  0.20,
		analyzers.LayerParty:      0.15,
		analyzers.LayerSemantic:   0.15,
		analyzers.LayerBehavioral: 0.10,
		analyzers.LayerContextual: 0.10,
	}
}

// Validate checks that every weight is non-negative and at least one layer
// carries weight.
func (w Weights) Validate() error {
	total := 0.0
	for layer, weight := range w {
		if weight < 0 {
			return fmt.Errorf("weight for layer %s cannot be negative: %f", layer, weight)
		}
		total += weight
	}
	if total == 0 {
		return fmt.Errorf("at least one layer must carry weight")
	}
	return nil
}

// Clone creates a copy of the weight table.
func (w Weights) Clone() Weights {
	clone := make(Weights, len(w))
	for layer, weight := range w {
		clone[layer] = weight
	}
	return clone
}

// Aggregation thresholds.
const (
	// highScoreBar is the per-layer score above which a layer counts toward
	// the multi-layer agreement bonus.
	highScoreBar = 0.8
	// agreementBonusLayers is the number of high-scoring layers required for
	// the bonus.
	agreementBonusLayers = 3
	// agreementBonus is added when enough layers agree strongly.
	agreementBonus = 0.05
)

// Aggregator combines layer scores into one composite confidence value.
type Aggregator struct {
	weights Weights
}

// NewAggregator creates an aggregator. nil weights selects the default table.
func NewAggregator(weights Weights) *Aggregator {
	if weights == nil {
		weights = DefaultWeights()
	}
	return &Aggregator{weights: weights}
}

// Aggregate computes the weighted mean of the layer scores, normalized by
// the total weight of the layers present, plus the multi-layer agreement
// bonus, clamped to 1.0. Missing layers simply contribute no weight; a zero
// total weight yields zero confidence.
func (a *Aggregator) Aggregate(scores map[analyzers.Layer]float64) float64 {
	weightedSum := 0.0
	totalWeight := 0.0
	highLayers := 0

	// Iterate in a fixed key order so floating-point summation is
	// reproducible; random map order lets rounding noise differ between
	// otherwise identical inputs, breaking the engine's determinism
	// contract.
	layers := make([]analyzers.Layer, 0, len(scores))
	for layer := range scores {
		layers = append(layers, layer)
	}
	sort.Slice(layers, func(i, j int) bool { return layers[i] < layers[j] })

	for _, layer := range layers {
		score := scores[layer]
		weight, ok := a.weights[layer]
		if !ok {
			continue
		}
		weightedSum += score * weight
		totalWeight += weight
		if score > highScoreBar {
			highLayers++
		}
	}

	if totalWeight == 0 {
		return 0.0
	}

	confidence := weightedSum / totalWeight
	if highLayers >= agreementBonusLayers {
		confidence += agreementBonus
	}

	if confidence > 1.0 {
		confidence = 1.0
	}
	if confidence < 0.0 {
		confidence = 0.0
	}
	return confidence
}
