package analyzers

import (
	"strings"

	"bank-matching-engine/internal/models"

	"github.com/agnivade/levenshtein"
)

// Business suffixes stripped before party-name comparison.
var businessSuffixes = map[string]bool{
	"ltd":         true,
	"limited":     true,
	"pvt":         true,
	"private":     true,
	"company":     true,
	"corp":        true,
	"inc":         true,
	"llp":         true,
	"partnership": true,
}

// fuzzyWordThreshold is the minimum edit-distance similarity for two words to
// count as the same party-name word.
const fuzzyWordThreshold = 0.85

// PartyAnalyzer compares the candidate's party/company name against the bank
// narration using normalization, word overlap, edit-distance, phonetic
// (Soundex) and abbreviation heuristics.
type PartyAnalyzer struct{}

// NewPartyAnalyzer creates a party identification analyzer.
func NewPartyAnalyzer() *PartyAnalyzer {
	return &PartyAnalyzer{}
}

// Layer implements Analyzer.
func (pa *PartyAnalyzer) Layer() Layer {
	return LayerParty
}

// Analyze implements Analyzer.
func (pa *PartyAnalyzer) Analyze(tx *models.BankTransaction, cand *models.LedgerCandidate) *Analysis {
	analysis := NewAnalysis()

	partyName := strings.ToLower(strings.TrimSpace(cand.PartyName))
	if len(partyName) < 3 {
		analysis.SetDetail("match_type", "no_party_signal")
		return analysis
	}

	searchText := strings.ToLower(tx.Description)

	// Full party name printed verbatim in the narration.
	if strings.Contains(searchText, partyName) {
		analysis.Score = 1.0
		analysis.AddFactor("exact_party_name_match")
		analysis.SetDetail("match_type", "exact")
		return analysis
	}

	partyWords := normalizeBusinessName(partyName)
	textWords := tokenizeWords(searchText)

	best := 0.0
	bestFactor := ""
	raise := func(score float64, factor string) {
		if score > best {
			best = score
			bestFactor = factor
		}
	}

	if len(partyWords) > 0 {
		// Word-overlap ratio after suffix normalization, with edit-distance
		// tolerance for narration typos and truncation.
		exact, fuzzy := countWordMatches(partyWords, textWords)
		ratio := float64(exact+fuzzy) / float64(len(partyWords))

		switch {
		case ratio == 1.0 && fuzzy == 0:
			raise(0.90, "normalized_party_name_match")
		case ratio == 1.0:
			raise(0.80, "fuzzy_party_name_match")
		case ratio >= 0.5:
			raise(0.60+0.20*ratio, "partial_party_name_match")
		}

		// Phonetic comparison catches transliteration drift in names.
		if phoneticWordsMatch(partyWords, textWords) {
			raise(0.80, "phonetic_party_match")
		}

		// Banks often print an acronym instead of the registered name.
		if acronym := buildAcronym(partyWords); len(acronym) >= 2 {
			for _, w := range textWords {
				if w == acronym {
					raise(0.90, "abbreviation_match")
					break
				}
			}
		}
	}

	if best > 0 {
		analysis.Score = best
		analysis.AddFactor(bestFactor)
		analysis.SetDetail("match_type", bestFactor)
	} else {
		analysis.SetDetail("match_type", "no_party_match")
	}

	return analysis.clamp()
}

// normalizeBusinessName tokenizes a party name and strips common business
// suffixes.
func normalizeBusinessName(name string) []string {
	var words []string
	for _, w := range tokenizeWords(name) {
		if businessSuffixes[w] {
			continue
		}
		words = append(words, w)
	}
	return words
}

// tokenizeWords splits text into lower-case alphanumeric words.
func tokenizeWords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
}

// countWordMatches counts party-name words found in the text words, exactly
// or within the fuzzy edit-distance threshold.
func countWordMatches(partyWords, textWords []string) (exact, fuzzy int) {
	textSet := make(map[string]bool, len(textWords))
	for _, w := range textWords {
		textSet[w] = true
	}

	for _, pw := range partyWords {
		if textSet[pw] {
			exact++
			continue
		}
		for _, tw := range textWords {
			if wordSimilarity(pw, tw) >= fuzzyWordThreshold {
				fuzzy++
				break
			}
		}
	}
	return exact, fuzzy
}

// wordSimilarity returns edit-distance similarity in [0,1].
func wordSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 0.0
	}
	distance := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(distance)/float64(maxLen)
}

// phoneticWordsMatch reports whether every party word has a Soundex-equal
// counterpart in the text. Short words are excluded since Soundex collapses
// them too aggressively.
func phoneticWordsMatch(partyWords, textWords []string) bool {
	if len(partyWords) == 0 {
		return false
	}

	textCodes := make(map[string]bool, len(textWords))
	for _, w := range textWords {
		if len(w) >= 3 {
			textCodes[soundex(w)] = true
		}
	}

	for _, pw := range partyWords {
		if len(pw) < 3 {
			return false
		}
		if !textCodes[soundex(pw)] {
			return false
		}
	}
	return true
}

// buildAcronym builds the initial-letter acronym of the normalized name.
func buildAcronym(words []string) string {
	var b strings.Builder
	for _, w := range words {
		b.WriteByte(w[0])
	}
	return b.String()
}

// soundex implements the classic Soundex phonetic algorithm.
func soundex(s string) string {
	s = strings.ToUpper(s)
	if s == "" {
		return ""
	}

	codes := map[rune]byte{
		'B': '1', 'F': '1', 'P': '1', 'V': '1',
		'C': '2', 'G': '2', 'J': '2', 'K': '2', 'Q': '2', 'S': '2', 'X': '2', 'Z': '2',
		'D': '3', 'T': '3',
		'L': '4',
		'M': '5', 'N': '5',
		'R': '6',
	}

	result := []byte{s[0]}
	var prev byte
	if c, ok := codes[rune(s[0])]; ok {
		prev = c
	}

	for _, r := range s[1:] {
		code, ok := codes[r]
		if !ok {
			// Vowels and Y reset the run; H and W are skipped
			// without breaking it. None emit a digit.
			if r != 'H' && r != 'W' {
				prev = 0
			}
			continue
		}
		if code != prev {
			result = append(result, code)
			if len(result) == 4 {
				break
			}
		}
		prev = code
	}

	for len(result) < 4 {
		result = append(result, '0')
	}
	return string(result)
}
