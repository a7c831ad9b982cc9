package analyzers

import (
	"strings"

	"bank-matching-engine/internal/models"
)

// industryKeywords are accounting terms whose presence on both sides of a
// pair indicates the same kind of business event even when the narrations
// share few literal words.
var industryKeywords = []string{
	"salary", "payroll", "wages",
	"rent", "lease",
	"interest", "dividend",
	"invoice", "bill",
	"gst", "tax", "tds",
	"insurance", "premium",
	"utilities", "electricity", "telephone", "internet",
	"freight", "shipping", "transport",
	"commission", "brokerage",
	"subscription", "maintenance",
	"refund", "reversal",
	"loan", "emi", "installment",
}

// industryKeywordScore is the floor applied when both descriptions share an
// industry keyword.
const industryKeywordScore = 0.60

// SemanticAnalyzer scores free-text similarity between the bank narration
// and the candidate description using Jaccard word overlap, with an
// industry-keyword floor.
type SemanticAnalyzer struct{}

// NewSemanticAnalyzer creates a semantic description analyzer.
func NewSemanticAnalyzer() *SemanticAnalyzer {
	return &SemanticAnalyzer{}
}

// Layer implements Analyzer.
func (sa *SemanticAnalyzer) Layer() Layer {
	return LayerSemantic
}

// Analyze implements Analyzer.
func (sa *SemanticAnalyzer) Analyze(tx *models.BankTransaction, cand *models.LedgerCandidate) *Analysis {
	analysis := NewAnalysis()

	candDesc := strings.ToLower(strings.TrimSpace(cand.Description))
	txDesc := strings.ToLower(strings.TrimSpace(tx.Description))
	if candDesc == "" || txDesc == "" {
		analysis.SetDetail("match_type", "no_description")
		return analysis
	}

	similarity := jaccardSimilarity(tokenizeWords(txDesc), tokenizeWords(candDesc))
	analysis.SetDetail("text_similarity", similarity)

	score := similarity
	factor := ""
	switch {
	case similarity > 0.9:
		factor = "high_semantic_similarity"
	case similarity > 0.7:
		factor = "good_semantic_similarity"
	case similarity > 0.5:
		factor = "moderate_semantic_similarity"
	case similarity > 0.3:
		factor = "low_semantic_similarity"
	}

	// Shared industry terms raise the floor even when literal overlap is
	// thin.
	if keyword := sharedIndustryKeyword(txDesc, candDesc); keyword != "" {
		analysis.SetDetail("industry_keyword", keyword)
		if industryKeywordScore > score {
			score = industryKeywordScore
			factor = "industry_keyword_match"
		} else if factor != "" {
			analysis.AddFactor("industry_keyword_match")
		}
	}

	if factor == "" && score > 0 {
		factor = "negligible_semantic_overlap"
	}

	analysis.Score = score
	if factor != "" {
		analysis.AddFactor(factor)
	}
	analysis.SetDetail("match_type", factor)

	return analysis.clamp()
}

// jaccardSimilarity computes |intersection| / |union| over word sets.
func jaccardSimilarity(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	setA := make(map[string]bool, len(a))
	for _, w := range a {
		setA[w] = true
	}
	setB := make(map[string]bool, len(b))
	for _, w := range b {
		setB[w] = true
	}

	intersection := 0
	for w := range setA {
		if setB[w] {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// sharedIndustryKeyword returns the first industry keyword present in both
// descriptions, or the empty string.
func sharedIndustryKeyword(txDesc, candDesc string) string {
	for _, keyword := range industryKeywords {
		if strings.Contains(txDesc, keyword) && strings.Contains(candDesc, keyword) {
			return keyword
		}
	}
	return ""
}
