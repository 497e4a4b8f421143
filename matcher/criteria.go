package matcher

import "strings"

// CriteriaResult holds the three independent verdicts for one course codeword tested
// against one requirement row's criteria.
type CriteriaResult struct {
	Accept    bool
	RejectOrd bool
	RejectAnd bool
}

// Satisfied reports whether the pairing passes all three criteria tests.
func (result CriteriaResult) Satisfied() bool {
	return result.Accept && result.RejectOrd && result.RejectAnd
}

// EvaluateCriteria tests a course codeword against one row's accept and reject sets.
// A codeword is a bag of single-character designation codes with no internal ordering.
// Empty criteria are vacuous: an empty accept set accepts everything and empty reject
// sets reject nothing.
func EvaluateCriteria(codeword string, acAll string, rcOrd string, rcAnd string) CriteriaResult {
	return CriteriaResult{
		Accept:    acceptMatch(codeword, acAll),
		RejectOrd: rejectOrdMatch(codeword, rcOrd),
		RejectAnd: rejectAndMatch(codeword, rcAnd),
	}
}

// True when any accepted code appears in the codeword.
func acceptMatch(codeword string, acAll string) bool {
	if acAll == "" {
		return true
	}
	for _, code := range acAll {
		if strings.ContainsRune(codeword, code) {
			return true
		}
	}
	return false
}

// True when no ordered-reject code appears in the codeword.
func rejectOrdMatch(codeword string, rcOrd string) bool {
	if rcOrd == "" {
		return true
	}
	for _, code := range rcOrd {
		if strings.ContainsRune(codeword, code) {
			return false
		}
	}
	return true
}

// True when at least one of the codeword's codes falls outside the AND-reject set.
// The containment runs in that direction on purpose: the row is rejected only when the
// set covers the whole codeword, so an empty codeword against a non-empty set fails.
func rejectAndMatch(codeword string, rcAnd string) bool {
	if rcAnd == "" {
		return true
	}
	for _, code := range codeword {
		if !strings.ContainsRune(rcAnd, code) {
			return true
		}
	}
	return false
}
