package analyzers

import (
	"regexp"
	"strings"

	"bank-matching-engine/internal/models"
)

var digitRunPattern = regexp.MustCompile(`\d+`)

// ReferenceAnalyzer extracts and compares invoice and reference codes between
// the bank narration and the candidate's invoice/reference metadata.
//
// Several detection strategies run against the same pair; the final score is
// the maximum across strategies, never a sum, so overlapping signals are not
// double-counted.
type ReferenceAnalyzer struct{}

// NewReferenceAnalyzer creates a reference pattern analyzer.
func NewReferenceAnalyzer() *ReferenceAnalyzer {
	return &ReferenceAnalyzer{}
}

// Layer implements Analyzer.
func (ra *ReferenceAnalyzer) Layer() Layer {
	return LayerReference
}

// Analyze implements Analyzer.
func (ra *ReferenceAnalyzer) Analyze(tx *models.BankTransaction, cand *models.LedgerCandidate) *Analysis {
	analysis := NewAnalysis()

	searchText := tx.SearchText()
	primaryRef := strings.ToLower(strings.TrimSpace(cand.PrimaryReference()))

	if searchText == "" || (primaryRef == "" && cand.Reference == "") {
		return analysis
	}

	best := 0.0
	bestFactor := ""
	raise := func(score float64, factor string) {
		if score > best {
			best = score
			bestFactor = factor
		}
	}

	// Exact invoice number inside the narration.
	if len(primaryRef) > 2 && strings.Contains(searchText, primaryRef) {
		raise(1.0, "exact_invoice_number_match")
	} else if primaryRef != "" {
		// Invoice numbers are frequently mangled in bank narrations; match
		// the hyphen-separated parts individually.
		matched, total := matchReferenceParts(searchText, primaryRef)
		if total > 0 && matched == total {
			raise(0.90, "complete_invoice_parts_match")
		} else if matched > 0 {
			raise(0.60+0.30*float64(matched)/float64(total), "partial_invoice_parts_match")
		}
	}

	// Numeric-sequence fallback: digit runs survive even heavy narration
	// mangling.
	if hasNumericSequenceMatch(searchText, primaryRef) {
		raise(0.80, "numeric_sequence_match")
	}

	// Secondary entry-level reference code, distinct from the invoice number.
	secondaryRef := strings.ToLower(strings.TrimSpace(cand.Reference))
	if secondaryRef != "" && secondaryRef != primaryRef &&
		len(secondaryRef) > 3 && strings.Contains(searchText, secondaryRef) {
		raise(0.70, "reference_code_match")
	}

	if best > 0 {
		analysis.Score = best
		analysis.AddFactor(bestFactor)
		analysis.SetDetail("match_type", bestFactor)
		analysis.SetDetail("reference", primaryRef)
	} else {
		analysis.SetDetail("match_type", "no_reference_match")
	}

	return analysis.clamp()
}

// matchReferenceParts splits the reference on hyphens and counts how many
// parts longer than two characters appear in the search text.
func matchReferenceParts(searchText, ref string) (matched, total int) {
	for _, part := range strings.Split(ref, "-") {
		if len(part) <= 2 {
			continue
		}
		total++
		if strings.Contains(searchText, part) {
			matched++
		}
	}
	return matched, total
}

// hasNumericSequenceMatch reports whether any digit run longer than three
// characters from the reference appears verbatim among the transaction's
// digit runs.
func hasNumericSequenceMatch(searchText, ref string) bool {
	if ref == "" {
		return false
	}

	refRuns := digitRunPattern.FindAllString(ref, -1)
	if len(refRuns) == 0 {
		return false
	}

	txRuns := make(map[string]bool)
	for _, run := range digitRunPattern.FindAllString(searchText, -1) {
		txRuns[run] = true
	}

	for _, run := range refRuns {
		if len(run) > 3 && txRuns[run] {
			return true
		}
	}
	return false
}
