/*
	This file contains the year-term code shared by every requirement relation.
*/

package schema

import "strings"

// YearTerm is a four-character year-term code, i.e. 2217 for fall 2021. Codes of the
// same length compare chronologically as plain strings.
type YearTerm string

// NewYearTerm converts a requirement year as spelled in ODS, i.e. "2021 7", into its
// four-character code by dropping the second digit of the year. Values already in
// four-character form pass through unchanged.
func NewYearTerm(value string) YearTerm {
	value = strings.ReplaceAll(value, " ", "")
	if len(value) == 5 {
		value = value[:1] + value[2:]
	}
	return YearTerm(value)
}

// Window is one requirement validity range, bounded by first and last year-terms
// inclusive.
type Window struct {
	Rqfyt YearTerm `bson:"rqfyt" json:"rqfyt"`
	Lyt   YearTerm `bson:"lyt" json:"lyt"`
}

// Overlaps reports whether either window opens inside the other's span.
func (w Window) Overlaps(other Window) bool {
	return (w.Rqfyt >= other.Rqfyt && w.Rqfyt <= other.Lyt) ||
		(other.Rqfyt >= w.Rqfyt && other.Rqfyt <= w.Lyt)
}
