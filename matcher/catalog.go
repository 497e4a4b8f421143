/*
	This file resolves course patterns against the offered catalog.

	Patterns come in three shapes: a bare subject prefix matches every offered course in
	that subject, an explicit "SUB NUM" spelling matches one course, and a spelling with
	"*" wildcards matches any single character at each starred position. Anything else is
	a PatternError.

	Candidates are built once per snapshot by crossing the most recent schedule-visible
	offering rows, which carry the spelling, with the effective catalog rows, which carry
	units and the requirement designation; a course participates only when it has both.
	Effective dating keeps two catalog generations per course: the latest revision in
	effect as of the snapshot date and, when present, the latest future-dated revision,
	so a designation introduced by a pending revision already matches. Date ties keep
	every tied row rather than picking one arbitrarily.
*/

package matcher

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/DegreeData/audit-tools/schema"
	"github.com/DegreeData/audit-tools/utils"
)

var bareSubjectRegexp = utils.Regexpf(`^%s$`, utils.R_SUBJECT)
var exactCourseRegexp = utils.Regexpf(`^%s$`, utils.R_COURSE)
var wildcardCourseRegexp = utils.Regexpf(`^%s$`, utils.R_COURSE_WILD)

// PatternError reports a course pattern outside the three recognized shapes.
type PatternError struct {
	Pattern string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("unrecognized course pattern %q", e.Pattern)
}

// ResolvedCourse is one pattern-matched course annotated with its criteria verdicts.
type ResolvedCourse struct {
	CourseID string
	Subject  string
	Number   string
	UnitsMin float64
	UnitsMax float64
	Codeword string
	Result   CriteriaResult
}

// courseCandidate is one matchable pairing of an offering spelling with a catalog
// generation's codeword combo.
type courseCandidate struct {
	courseID string
	subject  string
	number   string
	spelling string
	unitsMin float64
	unitsMax float64
	codeword string
}

type courseIndex struct {
	all       []courseCandidate
	bySubject map[string][]courseCandidate
}

// ResolveCourses returns every offered course the pattern denotes, each annotated with
// the verdicts of the given criteria against the course's codeword. Division bands in
// the criteria narrow the candidates by course level before evaluation.
func (m *Matcher) ResolveCourses(pattern string, crit NormalizedCriteria) ([]ResolvedCourse, error) {
	candidates, err := m.candidatesFor(pattern)
	if err != nil {
		return nil, err
	}
	resolved := make([]ResolvedCourse, 0, len(candidates))
	for _, cand := range candidates {
		if !divisionAccepted(cand.number, crit.AcceptDiv) || divisionRejected(cand.number, crit.RejectDiv) {
			continue
		}
		resolved = append(resolved, ResolvedCourse{
			CourseID: cand.courseID,
			Subject:  cand.subject,
			Number:   cand.number,
			UnitsMin: cand.unitsMin,
			UnitsMax: cand.unitsMax,
			Codeword: cand.codeword,
			Result:   EvaluateCriteria(cand.codeword, crit.AcAll, crit.RcOrd, crit.RcAnd),
		})
	}
	return resolved, nil
}

func (m *Matcher) candidatesFor(pattern string) ([]courseCandidate, error) {
	switch {
	case bareSubjectRegexp.MatchString(pattern):
		return m.index.bySubject[pattern], nil
	case exactCourseRegexp.MatchString(pattern):
		var matched []courseCandidate
		for _, cand := range m.index.bySubject[pattern[:3]] {
			if cand.spelling == pattern {
				matched = append(matched, cand)
			}
		}
		return matched, nil
	case strings.Contains(pattern, "*") && wildcardCourseRegexp.MatchString(pattern):
		// A starred subject position forces a scan of the whole index.
		pool := m.index.all
		if !strings.Contains(pattern[:3], "*") {
			pool = m.index.bySubject[pattern[:3]]
		}
		var matched []courseCandidate
		for _, cand := range pool {
			if wildcardMatch(pattern, cand.spelling) {
				matched = append(matched, cand)
			}
		}
		return matched, nil
	}
	return nil, &PatternError{Pattern: pattern}
}

// wildcardMatch compares a pattern and a spelling position by position; "*" matches any
// single character in its position.
func wildcardMatch(pattern string, spelling string) bool {
	if len(pattern) != len(spelling) {
		return false
	}
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '*' && pattern[i] != spelling[i] {
			return false
		}
	}
	return true
}

// Upper division begins at level 3 and runs through 7; levels 1 and 2 are lower division.
func upperDivision(number string) bool {
	return number[0] >= '3' && number[0] <= '7'
}

func lowerDivision(number string) bool {
	return number[0] == '1' || number[0] == '2'
}

// Every accept band requested by the criteria must hold for the course's level digit.
func divisionAccepted(number string, acceptDiv string) bool {
	for _, band := range acceptDiv {
		switch band {
		case 'U':
			if !upperDivision(number) {
				return false
			}
		case 'L':
			if !lowerDivision(number) {
				return false
			}
		}
	}
	return true
}

// A reject band excludes a course only when its level digit differs from no digit of
// the band. A single digit always differs from at least one digit of a multi-digit
// band, so in practice this excludes nothing; the check keeps the audit rules' own
// disjunctive shape.
func divisionRejected(number string, rejectDiv string) bool {
	for _, band := range rejectDiv {
		var digits string
		switch band {
		case 'U':
			digits = "34567"
		case 'L':
			digits = "12"
		default:
			continue
		}
		anyDiffers := false
		for _, digit := range digits {
			if rune(number[0]) != digit {
				anyDiffers = true
			}
		}
		if !anyDiffers {
			return true
		}
	}
	return false
}

// buildCourseIndex crosses eligible offerings with eligible catalog generations and
// their crosswalk combos. Candidates order by spelling, then course id, with a course's
// current generation ahead of its pending one, so the first satisfied candidate per
// spelling is always the same one.
func buildCourseIndex(snap *schema.Snapshot, crosswalk map[string][]string) *courseIndex {
	catalogByID := make(map[string][]schema.CatalogCourse)
	for _, row := range snap.Catalog {
		if !row.Active {
			continue
		}
		catalogByID[row.Course_id] = append(catalogByID[row.Course_id], row)
	}
	offeringsByID := make(map[string][]schema.CourseOffering)
	for _, off := range snap.Offerings {
		if !off.Schedule_visible {
			continue
		}
		offeringsByID[off.Course_id] = append(offeringsByID[off.Course_id], off)
	}

	ids := utils.GetMapKeys(catalogByID)
	sort.Strings(ids)

	var all []courseCandidate
	for _, id := range ids {
		offerings := latestOfferings(offeringsByID[id])
		if len(offerings) == 0 {
			continue
		}
		for _, row := range effectiveCatalogRows(catalogByID[id], snap.As_of) {
			designation := utils.TrimWhitespace(row.Designation)
			if designation == "" {
				designation = "-"
			}
			combos := crosswalk[designation]
			if len(combos) == 0 {
				utils.VPrintf("No crosswalk entry for designation %s on course %s, skipping!", designation, id)
				continue
			}
			for _, off := range offerings {
				for _, combo := range combos {
					all = append(all, courseCandidate{
						courseID: id,
						subject:  off.Subject,
						number:   off.Number,
						spelling: off.Subject + " " + off.Number,
						unitsMin: row.Units_min,
						unitsMax: row.Units_max,
						codeword: combo,
					})
				}
			}
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].spelling != all[j].spelling {
			return all[i].spelling < all[j].spelling
		}
		return all[i].courseID < all[j].courseID
	})

	bySubject := make(map[string][]courseCandidate)
	for _, cand := range all {
		bySubject[cand.subject] = append(bySubject[cand.subject], cand)
	}
	return &courseIndex{all: all, bySubject: bySubject}
}

// effectiveCatalogRows selects the catalog generations eligible as of a date: every row
// carrying the latest effective date at or before asOf, then every row carrying the
// latest effective date after it, when one exists.
func effectiveCatalogRows(rows []schema.CatalogCourse, asOf time.Time) []schema.CatalogCourse {
	var currentDate, futureDate time.Time
	for _, row := range rows {
		if !row.Eff_date.After(asOf) {
			if row.Eff_date.After(currentDate) {
				currentDate = row.Eff_date
			}
		} else if row.Eff_date.After(futureDate) {
			futureDate = row.Eff_date
		}
	}
	var kept []schema.CatalogCourse
	for _, row := range rows {
		if !currentDate.IsZero() && row.Eff_date.Equal(currentDate) {
			kept = append(kept, row)
		}
	}
	for _, row := range rows {
		if !futureDate.IsZero() && row.Eff_date.Equal(futureDate) {
			kept = append(kept, row)
		}
	}
	return kept
}

// latestOfferings keeps every schedule-visible offering tied at the most recent
// effective date; tied rows may carry different spellings and all of them count.
func latestOfferings(offs []schema.CourseOffering) []schema.CourseOffering {
	var latest time.Time
	for _, off := range offs {
		if off.Eff_date.After(latest) {
			latest = off.Eff_date
		}
	}
	var kept []schema.CourseOffering
	for _, off := range offs {
		if !latest.IsZero() && off.Eff_date.Equal(latest) {
			kept = append(kept, off)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Subject != kept[j].Subject {
			return kept[i].Subject < kept[j].Subject
		}
		return kept[i].Number < kept[j].Number
	})
	return kept
}
