package matcher

import (
	"sort"
	"strings"

	"github.com/DegreeData/audit-tools/schema"
	"github.com/DegreeData/audit-tools/utils"
)

// Requirement type marking a shared course list.
const reqTypeList = "L"

// Ar-type codes on detail rows.
const (
	arTypeActive  = "A"
	arTypeRemoved = "R"
)

// Match-control codes with structural meaning during expansion.
const (
	ctlTerminal1 = "$"
	ctlTerminal2 = "S"
	ctlTerminal3 = "P"
	ctlListRef   = "L"
	ctlListRefN  = "N"
	ctlHidden    = "!"
)

// Terminal markers close a satisfiable alternative group; an active one cuts off every
// later row of its partition.
func isTerminalCtl(ctl string) bool {
	return ctl == ctlTerminal1 || ctl == ctlTerminal2 || ctl == ctlTerminal3
}

func isListCtl(ctl string) bool {
	return ctl == ctlListRef || ctl == ctlListRefN
}

// Program categories that never participate in matching; articulation and
// transfer-equivalency curricula describe other institutions' courses.
var excludedCurricula = map[string]bool{
	"ARTIC": true,
	"XFER":  true,
}

// ExpandedRow is one course-carrying row of an expanded requirement, ready for catalog
// resolution. The field order up through ListSeq is also the output sort order.
type ExpandedRow struct {
	ReqName    string
	Rqfyt      schema.YearTerm
	Lyt        schema.YearTerm
	SubReqSeq  int
	Seq        int
	ListName   string
	ListSeq    int
	Pattern    string
	MatchCtl   string
	ArType     string
	College    string
	GroupMin   int
	GroupMax   int
	HoursMin   float64
	HoursMax   float64
	CountHours bool
	Criteria   NormalizedCriteria
}

type candidateRow struct {
	ExpandedRow
	// Resolved list name when the row is an eligible list reference.
	listRef string
}

type partitionKey struct {
	reqName   string
	rqfyt     schema.YearTerm
	listName  string
	subReqSeq int
}

type subReqKey struct {
	reqName  string
	yearTerm schema.YearTerm
	seq      int
}

type reqYearKey struct {
	reqName  string
	yearTerm schema.YearTerm
}

type listRefKey struct {
	reqName   string
	subReqSeq int
	seq       int
	listName  string
}

type rowVerdict struct {
	cutoff bool
	hidden bool
}

/*
	Expansion works in three passes over one validity window.

	First the hierarchy is flattened: every requirement whose window matches exactly
	contributes its sub-requirements' detail rows, each row carrying the consolidated
	criteria of all three levels. A detail row whose match control names a course list
	additionally pulls in the list's own rows, re-homed under the referencing row's
	position, when the list's window overlaps the owner's; those substituted rows form
	their own ordering partitions, keyed by the originating list.

	Second, every partition is scanned in (seq, list seq) order to compute two verdicts
	per row: whether an active terminal marker occurred earlier in the partition, and
	whether the row's immediate predecessor carries the hidden-alternative marker.

	Third, rows are emitted in order. A surviving list reference emits its list's
	surviving rows in place; every other surviving row emits itself if its pattern is
	course-shaped. Rows that are removed, cut off, shadowed, or non-course-shaped drop
	silently, as do references to lists that don't exist or don't overlap.
*/

// ExpandRequirements produces the ordered course rows for every requirement whose
// validity window equals the given one.
func ExpandRequirements(snap *schema.Snapshot, window schema.Window) []ExpandedRow {
	lists := make(map[string]schema.RequirementMain)
	var reqs []schema.RequirementMain
	for _, req := range snap.Requirements {
		if req.Req_type == reqTypeList {
			lists[req.Name] = req
			continue
		}
		if req.Rqfyt == window.Rqfyt && req.Lyt == window.Lyt {
			reqs = append(reqs, req)
		}
	}
	sort.SliceStable(reqs, func(i, j int) bool { return reqs[i].Name < reqs[j].Name })

	subsByReq := make(map[reqYearKey][]schema.SubRequirement)
	for _, sub := range snap.Sub_requirements {
		k := reqYearKey{sub.Req_name, sub.Year_term}
		subsByReq[k] = append(subsByReq[k], sub)
	}
	detailsBySub := make(map[subReqKey][]schema.SubReqCourse)
	detailsByReq := make(map[reqYearKey][]schema.SubReqCourse)
	for _, det := range snap.Sub_req_courses {
		sk := subReqKey{det.Req_name, det.Year_term, det.Sub_req_seq}
		detailsBySub[sk] = append(detailsBySub[sk], det)
		rk := reqYearKey{det.Req_name, det.Year_term}
		detailsByReq[rk] = append(detailsByReq[rk], det)
	}
	tagsByReq := make(map[reqYearKey][]schema.ProgramRequirement)
	for _, tag := range snap.Program_reqs {
		k := reqYearKey{tag.Req_name, tag.Year_term}
		tagsByReq[k] = append(tagsByReq[k], tag)
	}

	var owners, listRows []candidateRow
	for _, req := range reqs {
		college, ok := resolveCollege(tagsByReq[reqYearKey{req.Name, req.Rqfyt}])
		if !ok {
			utils.VPrintf("Requirement %s is tagged only by excluded curricula, skipping!", req.Name)
			continue
		}
		subs := append([]schema.SubRequirement(nil), subsByReq[reqYearKey{req.Name, req.Rqfyt}]...)
		sort.SliceStable(subs, func(i, j int) bool { return subs[i].Seq < subs[j].Seq })
		for _, sub := range subs {
			dets := append([]schema.SubReqCourse(nil), detailsBySub[subReqKey{req.Name, req.Rqfyt, sub.Seq}]...)
			sort.SliceStable(dets, func(i, j int) bool {
				if dets[i].Seq != dets[j].Seq {
					return dets[i].Seq < dets[j].Seq
				}
				return dets[i].List_seq < dets[j].List_seq
			})
			for _, det := range dets {
				row := newCandidateRow(req, sub, det, college)
				if isListCtl(row.MatchCtl) {
					if list, eligible := resolveListRef(lists, row.Pattern, window); eligible {
						row.listRef = list.Name
						listRows = append(listRows, substituteList(req, sub, det, list, detailsByReq, college)...)
					}
				}
				owners = append(owners, row)
			}
		}
	}

	ownerVerdicts := scanPartitions(owners)
	listVerdicts := scanPartitions(listRows)

	substituted := make(map[listRefKey][]ExpandedRow)
	for i, row := range listRows {
		if row.ArType == arTypeRemoved || listVerdicts[i].cutoff || listVerdicts[i].hidden {
			continue
		}
		// A list row that is itself a reference is not course-shaped and drops here, so
		// substitution never nests.
		if !courseShapedPattern(row.Pattern) {
			continue
		}
		k := listRefKey{row.ReqName, row.SubReqSeq, row.Seq, row.ListName}
		substituted[k] = append(substituted[k], row.ExpandedRow)
	}

	var expanded []ExpandedRow
	for i, row := range owners {
		if row.ArType == arTypeRemoved || ownerVerdicts[i].cutoff || ownerVerdicts[i].hidden {
			continue
		}
		if isListCtl(row.MatchCtl) {
			expanded = append(expanded, substituted[listRefKey{row.ReqName, row.SubReqSeq, row.Seq, row.listRef}]...)
			continue
		}
		if !courseShapedPattern(row.Pattern) {
			continue
		}
		expanded = append(expanded, row.ExpandedRow)
	}

	sort.SliceStable(expanded, func(i, j int) bool {
		a, b := expanded[i], expanded[j]
		if a.ReqName != b.ReqName {
			return a.ReqName < b.ReqName
		}
		if a.SubReqSeq != b.SubReqSeq {
			return a.SubReqSeq < b.SubReqSeq
		}
		if a.Seq != b.Seq {
			return a.Seq < b.Seq
		}
		if a.ListName != b.ListName {
			return a.ListName < b.ListName
		}
		return a.ListSeq < b.ListSeq
	})
	return expanded
}

func newCandidateRow(req schema.RequirementMain, sub schema.SubRequirement, det schema.SubReqCourse, college string) candidateRow {
	return candidateRow{ExpandedRow: ExpandedRow{
		ReqName:    req.Name,
		Rqfyt:      req.Rqfyt,
		Lyt:        req.Lyt,
		SubReqSeq:  sub.Seq,
		Seq:        det.Seq,
		ListSeq:    det.List_seq,
		Pattern:    utils.TrimWhitespace(det.Course_pattern),
		MatchCtl:   utils.TrimWhitespace(det.Match_ctl),
		ArType:     utils.TrimWhitespace(det.Ar_type),
		College:    college,
		GroupMin:   sub.Group_min,
		GroupMax:   sub.Group_max,
		HoursMin:   sub.Hours_min,
		HoursMax:   sub.Hours_max,
		CountHours: sub.Count_hours,
		Criteria:   NormalizeCriteria(req, sub, det),
	}}
}

// resolveListRef finds the course list a reference row names, when one exists and its
// validity window overlaps the referencing requirement's.
func resolveListRef(lists map[string]schema.RequirementMain, name string, window schema.Window) (schema.RequirementMain, bool) {
	list, ok := lists[name]
	if !ok {
		return schema.RequirementMain{}, false
	}
	listWindow := schema.Window{Rqfyt: list.Rqfyt, Lyt: list.Lyt}
	if !listWindow.Overlaps(window) {
		return schema.RequirementMain{}, false
	}
	return list, true
}

// substituteList builds the rows a list reference expands to: the list's own detail
// rows re-homed under the referencing row's position, ordered by their place in the
// list. Detail criteria come from the list rows; requirement and sub-requirement level
// criteria come from the referencing side.
func substituteList(req schema.RequirementMain, sub schema.SubRequirement, ref schema.SubReqCourse, list schema.RequirementMain, detailsByReq map[reqYearKey][]schema.SubReqCourse, college string) []candidateRow {
	dets := append([]schema.SubReqCourse(nil), detailsByReq[reqYearKey{list.Name, list.Rqfyt}]...)
	sort.SliceStable(dets, func(i, j int) bool {
		if dets[i].List_seq != dets[j].List_seq {
			return dets[i].List_seq < dets[j].List_seq
		}
		return dets[i].Seq < dets[j].Seq
	})
	rows := make([]candidateRow, 0, len(dets))
	for _, det := range dets {
		row := newCandidateRow(req, sub, det, college)
		row.Seq = ref.Seq
		row.ListName = list.Name
		row.ListSeq = det.List_seq
		rows = append(rows, row)
	}
	return rows
}

// resolveCollege finds the college for a requirement through its program tags. Tags
// whose category marks an excluded curriculum don't count, and a requirement whose
// every tag is excluded is skipped outright. Untagged requirements still expand, with
// no college attached.
func resolveCollege(tags []schema.ProgramRequirement) (string, bool) {
	if len(tags) == 0 {
		return "", true
	}
	tags = append([]schema.ProgramRequirement(nil), tags...)
	sort.SliceStable(tags, func(i, j int) bool { return tags[i].Program < tags[j].Program })
	for _, tag := range tags {
		if !excludedCurricula[tag.Category] {
			return tag.College, true
		}
	}
	return "", false
}

// scanPartitions computes the per-row cutoff and hidden verdicts. The cutoff counter
// increments after evaluating a row, so a terminal row is not cut off by itself; the
// hidden verdict looks only at the immediate predecessor, whatever its own fate.
func scanPartitions(rows []candidateRow) []rowVerdict {
	verdicts := make([]rowVerdict, len(rows))
	groups := make(map[partitionKey][]int)
	for i, row := range rows {
		k := partitionKey{row.ReqName, row.Rqfyt, row.ListName, row.SubReqSeq}
		groups[k] = append(groups[k], i)
	}
	for _, idxs := range groups {
		sort.SliceStable(idxs, func(a, b int) bool {
			ra, rb := rows[idxs[a]], rows[idxs[b]]
			if ra.Seq != rb.Seq {
				return ra.Seq < rb.Seq
			}
			return ra.ListSeq < rb.ListSeq
		})
		terminals := 0
		prevCtl := ""
		for _, i := range idxs {
			row := rows[i]
			verdicts[i] = rowVerdict{cutoff: terminals > 0, hidden: prevCtl == ctlHidden}
			if row.ArType == arTypeActive && isTerminalCtl(row.MatchCtl) {
				terminals++
			}
			prevCtl = row.MatchCtl
		}
	}
	return verdicts
}

// A course-shaped pattern is an explicit spelling, a wildcard spelling, or a bare
// subject prefix; only these reach the catalog resolver.
func courseShapedPattern(pattern string) bool {
	if exactCourseRegexp.MatchString(pattern) || bareSubjectRegexp.MatchString(pattern) {
		return true
	}
	return strings.Contains(pattern, "*") && wildcardCourseRegexp.MatchString(pattern)
}
