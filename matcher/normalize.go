package matcher

import (
	"strings"

	"github.com/DegreeData/audit-tools/schema"
)

// Single-letter maroon audit codes that participate in codeword matching. Criteria
// columns also carry GPA floors, minimum grades and the like; those never match.
const generalStudiesCodes = "GHQScghtvwxyz"

// NormalizedCriteria is the consolidated form of one requirement row's criteria: the
// three strings the evaluator tests plus the division bands pulled out of the raw
// columns before filtering.
type NormalizedCriteria struct {
	AcAll     string
	RcOrd     string
	RcAnd     string
	AcceptDiv string
	RejectDiv string
}

// NormalizeCriteria consolidates the criteria columns spread across a detail row, its
// owning sub-requirement and its owning requirement. Accept codes always fold into one
// set. Reject codes split on the detail row's AND flag: when set, the five detail codes
// form the all-codes-present rejection and the requirement and sub-requirement codes
// stay ordered; when clear, everything folds into the ordered set.
func NormalizeCriteria(req schema.RequirementMain, sub schema.SubRequirement, det schema.SubReqCourse) NormalizedCriteria {
	var crit NormalizedCriteria

	acceptCols := []string{req.Ac1, req.Ac2, sub.Ac, det.Ac1, det.Ac2, det.Ac3, det.Ac4, det.Ac5}
	rejectCols := []string{req.Rc1, req.Rc2, sub.Rc, det.Rc1, det.Rc2, det.Rc3, det.Rc4, det.Rc5}

	accepts := make([]string, len(acceptCols))
	for i, col := range acceptCols {
		col = cleanCriteriaCode(col)
		if col == "U" || col == "L" {
			crit.AcceptDiv += col
		}
		accepts[i] = filterGeneralStudies(col)
	}
	rejects := make([]string, len(rejectCols))
	for i, col := range rejectCols {
		col = cleanCriteriaCode(col)
		if col == "U" || col == "L" {
			crit.RejectDiv += col
		}
		rejects[i] = filterGeneralStudies(col)
	}

	crit.AcAll = strings.Join(accepts, "")
	if cleanCriteriaCode(det.Rcand) == "-" {
		crit.RcOrd = strings.Join(rejects[:3], "")
		crit.RcAnd = strings.Join(rejects[3:], "")
	} else {
		crit.RcOrd = strings.Join(rejects, "")
	}

	return crit
}

// Criteria columns arrive null-coalesced or space-padded; both read as bare code text.
func cleanCriteriaCode(col string) string {
	return strings.ReplaceAll(col, " ", "")
}

// A column participates in codeword matching only when it holds exactly one maroon
// letter or one gold rune; anything else reads as empty here.
func filterGeneralStudies(col string) string {
	if len(col) == 1 && strings.Contains(generalStudiesCodes, col) {
		return col
	}
	for _, code := range goldConditionCodes {
		if col == code {
			return col
		}
	}
	return ""
}
