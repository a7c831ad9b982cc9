// Package matcher provides the core bank-to-ledger matching engine.
//
// The engine takes one parsed bank statement transaction and a set of
// candidate accounting-ledger entries, runs seven independent scoring layers
// over every pair, combines the layer scores into a weighted confidence
// value, discounts it for inter-layer signal conflicts, and maps it into a
// discrete match-quality tier.
//
// The engine is computationally pure and stateless per invocation: no shared
// mutable state, no I/O, no locking. Callers may parallelize across
// independent transactions freely.
//
// Example usage:
//
//	engine := matcher.NewMatchingEngine(matcher.DefaultMatchingConfig())
//	results, err := engine.FindMatches(tx, candidates)
package matcher

import (
	"fmt"

	"bank-matching-engine/internal/scoring"
)

// MatchingConfig holds the tunable parameters of the matching engine.
type MatchingConfig struct {
	// MinConfidence is the exclusive lower bound for returned results:
	// only candidates whose risk-adjusted confidence exceeds it qualify.
	MinConfidence float64 `json:"min_confidence"`

	// MaxResults limits the number of returned candidates per transaction.
	// Zero means unlimited.
	MaxResults int `json:"max_results"`

	// Weights assigns the relative importance of each scoring layer.
	Weights scoring.Weights `json:"weights"`
}

// DefaultMatchingConfig returns the canonical configuration: the 0.25
// qualification threshold and the standard weight table.
func DefaultMatchingConfig() *MatchingConfig {
	return &MatchingConfig{
		MinConfidence: 0.25,
		MaxResults:    0,
		Weights:       scoring.DefaultWeights(),
	}
}

// StrictMatchingConfig returns a configuration that only surfaces candidates
// worth auto-accepting or reviewing, for callers that handle manual mapping
// elsewhere.
func StrictMatchingConfig() *MatchingConfig {
	return &MatchingConfig{
		MinConfidence: 0.50,
		MaxResults:    5,
		Weights:       scoring.DefaultWeights(),
	}
}

// Validate checks if the matching configuration is valid.
func (mc *MatchingConfig) Validate() error {
	if mc.MinConfidence < 0.0 || mc.MinConfidence > 1.0 {
		return fmt.Errorf("minimum confidence must be between 0.0 and 1.0: %f", mc.MinConfidence)
	}

	if mc.MaxResults < 0 {
		return fmt.Errorf("max results cannot be negative: %d", mc.MaxResults)
	}

	if err := mc.Weights.Validate(); err != nil {
		return fmt.Errorf("invalid weights: %w", err)
	}

	return nil
}

// Clone creates a deep copy of the matching configuration.
func (mc *MatchingConfig) Clone() *MatchingConfig {
	if mc == nil {
		return nil
	}

	return &MatchingConfig{
		MinConfidence: mc.MinConfidence,
		MaxResults:    mc.MaxResults,
		Weights:       mc.Weights.Clone(),
	}
}

// String returns a human-readable description of the configuration.
func (mc *MatchingConfig) String() string {
	return fmt.Sprintf("MatchingConfig{MinConfidence: %.2f, MaxResults: %d}",
		mc.MinConfidence, mc.MaxResults)
}
