package matcher

import (
	"sort"
	"sync"

	"github.com/DegreeData/audit-tools/schema"
	"github.com/DegreeData/audit-tools/utils"
)

// Number of concurrent catalog resolutions per window.
const matchWorkers = 8

// Matcher evaluates requirement windows against one frozen snapshot. The snapshot's
// as-of date drives effective dating; nothing here reads the clock or the network.
type Matcher struct {
	snapshot *schema.Snapshot
	index    *courseIndex
}

// New indexes a snapshot for matching. The snapshot is read but never modified.
func New(snap *schema.Snapshot) *Matcher {
	return &Matcher{
		snapshot: snap,
		index:    buildCourseIndex(snap, BuildCrosswalk(snap.Crosswalk)),
	}
}

// Windows lists every distinct requirement validity window in the snapshot, oldest
// first. Course lists don't contribute windows of their own.
func (m *Matcher) Windows() []schema.Window {
	seen := make(map[schema.Window]bool)
	for _, req := range m.snapshot.Requirements {
		if req.Req_type == reqTypeList {
			continue
		}
		seen[schema.Window{Rqfyt: req.Rqfyt, Lyt: req.Lyt}] = true
	}
	windows := utils.GetMapKeys(seen)
	sort.Slice(windows, func(i, j int) bool {
		if windows[i].Rqfyt != windows[j].Rqfyt {
			return windows[i].Rqfyt < windows[j].Rqfyt
		}
		return windows[i].Lyt < windows[j].Lyt
	})
	return windows
}

type courseKey struct {
	courseID string
	subject  string
	number   string
}

// Match produces the satisfied (requirement row, course) pairings for one window.
// Rerunning over the same snapshot yields the identical slice: rows follow expansion
// order and courses follow index order, never worker completion order.
func (m *Matcher) Match(window schema.Window) ([]schema.MatchResult, error) {
	expanded := ExpandRequirements(m.snapshot, window)

	// Fan resolution out across the pool; every row writes into its own slot.
	slots := make([][]ResolvedCourse, len(expanded))
	errs := make([]error, len(expanded))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < matchWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				slots[i], errs[i] = m.ResolveCourses(expanded[i].Pattern, expanded[i].Criteria)
			}
		}()
	}
	for i := range expanded {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	var results []schema.MatchResult
	for i, row := range expanded {
		// A course can resolve more than once per row, through tied offerings, a pending
		// catalog revision, or multiple crosswalk combos; the first satisfied pairing per
		// spelling wins.
		seen := make(map[courseKey]bool)
		for _, course := range slots[i] {
			if !course.Result.Satisfied() {
				continue
			}
			k := courseKey{course.CourseID, course.Subject, course.Number}
			if seen[k] {
				continue
			}
			seen[k] = true
			results = append(results, schema.MatchResult{
				Requirement:      row.ReqName,
				Rqfyt:            row.Rqfyt,
				Lyt:              row.Lyt,
				Sub_req_seq:      row.SubReqSeq,
				Seq:              row.Seq,
				List_name:        row.ListName,
				List_seq:         row.ListSeq,
				Course_id:        course.CourseID,
				Subject:          course.Subject,
				Number:           course.Number,
				Units_min:        course.UnitsMin,
				Units_max:        course.UnitsMax,
				Codeword:         course.Codeword,
				College:          row.College,
				Group_min:        row.GroupMin,
				Group_max:        row.GroupMax,
				Hours_min:        row.HoursMin,
				Hours_max:        row.HoursMax,
				Count_hours:      row.CountHours,
				Accept_match:     course.Result.Accept,
				Reject_ord_match: course.Result.RejectOrd,
				Reject_and_match: course.Result.RejectAnd,
			})
		}
	}
	return results, nil
}
