/*
	This file expands the published PS-to-audit designation crosswalk into codeword
	combinations.

	A designation's condition cell looks like "HUAD OR (HU or SB) & C & H". Multi-letter
	PS codes are first replaced by single-character audit codes; these come in two
	families, the maroon letters and the gold non-ASCII runes. A cell whose head is a
	gold code followed by "or" splits into the gold code by itself plus the remainder,
	since the gold alternative stands alone rather than folding into the combination
	after it. The remainder is then a combination of up to four "&" slots whose first
	slot may carry its own "or" alternatives; each alternative yields one complete
	codeword combo.
*/

package matcher

import (
	"regexp"
	"strings"

	"github.com/DegreeData/audit-tools/schema"
)

// Maroon PS condition codes and their single-letter audit codes.
var maroonConditionCodes = map[string]string{
	"C":  "c",
	"CS": "Q",
	"G":  "g",
	"H":  "h",
	"HU": "H",
	"L":  "t",
	"MA": "v",
	"SB": "S",
	"SG": "z",
	"SQ": "y",
}

// Gold PS condition codes and their single-rune audit codes.
var goldConditionCodes = map[string]string{
	"HUAD": "¿",
	"SOBE": "Ñ",
	"SCIT": "ß",
	"QTRS": "£",
	"MATH": "Æ",
	"AMIT": "ÿ",
	"CIVI": "«",
	"GCSI": "ñ",
	"SUST": "ù",
}

var conditionTokenRegexp = regexp.MustCompile(`[A-Za-z]+`)
var conditionStripRegexp = regexp.MustCompile(`[() ]`)

// ReplaceConditionCodes replaces every PS code in a condition cell with its audit code.
// Replacement is whole-token, so codes sharing letters never clobber each other: CS
// becomes Q, but the CS inside a longer letter run is left alone.
func ReplaceConditionCodes(value string) string {
	return conditionTokenRegexp.ReplaceAllStringFunc(value, func(token string) string {
		if code, ok := maroonConditionCodes[token]; ok {
			return code
		}
		if code, ok := goldConditionCodes[token]; ok {
			return code
		}
		return token
	})
}

// SplitGoldHead splits a leading gold alternative off an already code-replaced condition
// cell. The crosswalk spells the connector in mixed case, so " OR " is folded first.
func SplitGoldHead(value string) []string {
	value = strings.ReplaceAll(value, " OR ", " or ")
	for _, code := range goldConditionCodes {
		if strings.HasPrefix(value, code+" or ") {
			return []string{code, strings.ReplaceAll(value, code+" or ", "")}
		}
	}
	return []string{value}
}

// ExpandConditions expands one condition cell, gold head already split off, into its
// codeword combos. "&" separates up to four combination slots, only the first slot may
// carry "or" alternatives, and parentheses and spaces are decoration.
func ExpandConditions(value string) []string {
	slots := strings.Split(value, "&")
	if len(slots) > 4 {
		slots = slots[:4]
	}
	rest := ""
	for _, slot := range slots[1:] {
		rest += conditionStripRegexp.ReplaceAllString(slot, "")
	}
	options := strings.Split(slots[0], "or")
	combos := make([]string, 0, len(options))
	for _, option := range options {
		combos = append(combos, conditionStripRegexp.ReplaceAllString(option, "")+rest)
	}
	return combos
}

// BuildCrosswalk expands every crosswalk row into a designation-to-combos lookup. The
// bare "-" designation, which unmapped catalog rows normalize to, always resolves to a
// single empty codeword so such courses still match vacuous criteria.
func BuildCrosswalk(rows []schema.CrosswalkRow) map[string][]string {
	crosswalk := make(map[string][]string, len(rows)+1)
	for _, row := range rows {
		conditions := ReplaceConditionCodes(row.Conditions)
		for _, part := range SplitGoldHead(conditions) {
			crosswalk[row.Designation] = append(crosswalk[row.Designation], ExpandConditions(part)...)
		}
	}
	crosswalk["-"] = append(crosswalk["-"], "")
	return crosswalk
}
