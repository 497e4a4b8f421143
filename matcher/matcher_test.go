package matcher

import (
	"reflect"
	"testing"
	"time"

	"github.com/DegreeData/audit-tools/schema"
)

// A complete snapshot small enough to compute the expected match output by hand.
func matchSnapshot() *schema.Snapshot {
	eff2020 := time.Date(2020, time.September, 1, 0, 0, 0, 0, time.UTC)
	eff2099 := time.Date(2099, time.September, 1, 0, 0, 0, 0, time.UTC)
	return &schema.Snapshot{
		Snapshot_id: "test-snapshot",
		As_of:       time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		Catalog: []schema.CatalogCourse{
			{Course_id: "C101", Subject: "ENG", Number: "101", Units_min: 3, Units_max: 3, Designation: "GEHU", Eff_date: eff2020, Active: true},
			{Course_id: "C102", Subject: "ENG", Number: "205", Units_min: 3, Units_max: 4, Designation: "GEQT", Eff_date: eff2020, Active: true},
			{Course_id: "C102", Subject: "ENG", Number: "205", Units_min: 3, Units_max: 3, Designation: "GEHU", Eff_date: eff2099, Active: true},
			{Course_id: "C103", Subject: "HIS", Number: "210", Units_min: 3, Units_max: 3, Designation: "GEHU", Eff_date: eff2020, Active: true},
			{Course_id: "C104", Subject: "HIS", Number: "310", Units_min: 3, Units_max: 3, Designation: "GEHU", Eff_date: eff2020, Active: true},
			{Course_id: "C105", Subject: "ANT", Number: "201", Units_min: 3, Units_max: 3, Designation: "", Eff_date: eff2020, Active: true},
		},
		Offerings: []schema.CourseOffering{
			{Course_id: "C101", Subject: "ENG", Number: "101", Eff_date: eff2020, Schedule_visible: true},
			{Course_id: "C102", Subject: "ENG", Number: "205", Eff_date: eff2020, Schedule_visible: true},
			{Course_id: "C103", Subject: "HIS", Number: "210", Eff_date: eff2020, Schedule_visible: true},
			{Course_id: "C104", Subject: "HIS", Number: "310", Eff_date: eff2020, Schedule_visible: true},
			{Course_id: "C105", Subject: "ANT", Number: "201", Eff_date: eff2020, Schedule_visible: true},
		},
		Requirements: []schema.RequirementMain{
			{Name: "GEN ED", Rqfyt: "2217", Lyt: "9999", Req_type: "M"},
			{Name: "HUM CORE", Rqfyt: "2217", Lyt: "9999", Req_type: "M", Ac1: "H"},
			{Name: "QNT CORE", Rqfyt: "2217", Lyt: "9999", Req_type: "M", Ac1: "Q"},
			{Name: "OLD", Rqfyt: "2159", Lyt: "2217", Req_type: "M"},
			{Name: "GSLIST", Rqfyt: "2007", Lyt: "9999", Req_type: "L"},
		},
		Sub_requirements: []schema.SubRequirement{
			{Req_name: "GEN ED", Year_term: "2217", Seq: 1},
			{Req_name: "HUM CORE", Year_term: "2217", Seq: 1, Group_min: 1, Group_max: 99, Hours_min: 3, Hours_max: 9, Count_hours: true},
			{Req_name: "QNT CORE", Year_term: "2217", Seq: 1},
		},
		Sub_req_courses: []schema.SubReqCourse{
			{Req_name: "GEN ED", Year_term: "2217", Sub_req_seq: 1, Seq: 10, Course_pattern: "ENG 205", Ar_type: "A"},
			{Req_name: "GEN ED", Year_term: "2217", Sub_req_seq: 1, Seq: 20, Course_pattern: "ANT 201", Ar_type: "A"},
			{Req_name: "HUM CORE", Year_term: "2217", Sub_req_seq: 1, Seq: 10, Course_pattern: "ENG 101", Ar_type: "A"},
			{Req_name: "HUM CORE", Year_term: "2217", Sub_req_seq: 1, Seq: 20, Course_pattern: "HIS", Ar_type: "A"},
			{Req_name: "HUM CORE", Year_term: "2217", Sub_req_seq: 1, Seq: 30, Course_pattern: "ANT 201", Ar_type: "A"},
			{Req_name: "QNT CORE", Year_term: "2217", Sub_req_seq: 1, Seq: 10, Course_pattern: "ENG 205", Ar_type: "A"},
			{Req_name: "QNT CORE", Year_term: "2217", Sub_req_seq: 1, Seq: 20, Course_pattern: "ENG 101", Ar_type: "A"},
		},
		Program_reqs: []schema.ProgramRequirement{
			{Program: "BA-GEN", Req_name: "HUM CORE", Year_term: "2217", Category: "MAJ", College: "HU"},
		},
		Crosswalk: []schema.CrosswalkRow{
			{Designation: "GEHU", Conditions: "HU"},
			{Designation: "GEQT", Conditions: "CS & C"},
		},
	}
}

func TestMatch(t *testing.T) {
	matcher := New(matchSnapshot())
	results, err := matcher.Match(schema.Window{Rqfyt: "2217", Lyt: "9999"})
	if err != nil {
		t.Fatalf("Match error: %v", err)
	}

	// GEN ED's empty criteria satisfy both catalog generations of ENG 205; the pairing
	// through the current generation wins. ANT 201 carries no designation, so only
	// criteria-free rows take it. HUM CORE's bare HIS prefix takes both HIS courses,
	// and its unsatisfied ANT 201 row emits nothing.
	want := []schema.MatchResult{
		{Requirement: "GEN ED", Rqfyt: "2217", Lyt: "9999", Sub_req_seq: 1, Seq: 10, Course_id: "C102", Subject: "ENG", Number: "205", Units_min: 3, Units_max: 4, Codeword: "Qc", Accept_match: true, Reject_ord_match: true, Reject_and_match: true},
		{Requirement: "GEN ED", Rqfyt: "2217", Lyt: "9999", Sub_req_seq: 1, Seq: 20, Course_id: "C105", Subject: "ANT", Number: "201", Units_min: 3, Units_max: 3, Codeword: "", Accept_match: true, Reject_ord_match: true, Reject_and_match: true},
		{Requirement: "HUM CORE", Rqfyt: "2217", Lyt: "9999", Sub_req_seq: 1, Seq: 10, Course_id: "C101", Subject: "ENG", Number: "101", Units_min: 3, Units_max: 3, Codeword: "H", College: "HU", Group_min: 1, Group_max: 99, Hours_min: 3, Hours_max: 9, Count_hours: true, Accept_match: true, Reject_ord_match: true, Reject_and_match: true},
		{Requirement: "HUM CORE", Rqfyt: "2217", Lyt: "9999", Sub_req_seq: 1, Seq: 20, Course_id: "C103", Subject: "HIS", Number: "210", Units_min: 3, Units_max: 3, Codeword: "H", College: "HU", Group_min: 1, Group_max: 99, Hours_min: 3, Hours_max: 9, Count_hours: true, Accept_match: true, Reject_ord_match: true, Reject_and_match: true},
		{Requirement: "HUM CORE", Rqfyt: "2217", Lyt: "9999", Sub_req_seq: 1, Seq: 20, Course_id: "C104", Subject: "HIS", Number: "310", Units_min: 3, Units_max: 3, Codeword: "H", College: "HU", Group_min: 1, Group_max: 99, Hours_min: 3, Hours_max: 9, Count_hours: true, Accept_match: true, Reject_ord_match: true, Reject_and_match: true},
		{Requirement: "QNT CORE", Rqfyt: "2217", Lyt: "9999", Sub_req_seq: 1, Seq: 10, Course_id: "C102", Subject: "ENG", Number: "205", Units_min: 3, Units_max: 4, Codeword: "Qc", Accept_match: true, Reject_ord_match: true, Reject_and_match: true},
	}
	if !reflect.DeepEqual(results, want) {
		t.Errorf("Match() rows:\ngot  %v\nwant %v", results, want)
	}
}

func TestMatchDeterministic(t *testing.T) {
	matcher := New(matchSnapshot())
	window := schema.Window{Rqfyt: "2217", Lyt: "9999"}
	first, err := matcher.Match(window)
	if err != nil {
		t.Fatalf("Match error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := matcher.Match(window)
		if err != nil {
			t.Fatalf("Match error: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("Match() differs between runs:\nfirst %v\nagain %v", first, again)
		}
	}
}

func TestMatchEmptyWindow(t *testing.T) {
	matcher := New(matchSnapshot())
	results, err := matcher.Match(schema.Window{Rqfyt: "1017", Lyt: "1027"})
	if err != nil {
		t.Fatalf("Match error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Match() on an empty window = %v, want none", results)
	}
}

func TestWindows(t *testing.T) {
	matcher := New(matchSnapshot())
	want := []schema.Window{
		{Rqfyt: "2159", Lyt: "2217"},
		{Rqfyt: "2217", Lyt: "9999"},
	}
	if got := matcher.Windows(); !reflect.DeepEqual(got, want) {
		t.Errorf("Windows() = %v, want %v", got, want)
	}
}
