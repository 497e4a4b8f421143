package store

import (
	"reflect"
	"testing"
	"time"

	"github.com/DegreeData/audit-tools/schema"
)

func testSnapshot() *schema.Snapshot {
	eff2020 := time.Date(2020, time.September, 1, 0, 0, 0, 0, time.UTC)
	eff2099 := time.Date(2099, time.September, 1, 0, 0, 0, 0, time.UTC)
	return &schema.Snapshot{
		Snapshot_id: "b2f7c6de-3c1a-4f42-9f0e-5a27d05d7a10",
		As_of:       time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		Source:      "ods",
		Catalog: []schema.CatalogCourse{
			{Course_id: "C101", Subject: "ENG", Number: "101", Units_min: 3, Units_max: 3, Designation: "GEHU", Eff_date: eff2020, Active: true},
			{Course_id: "C101", Subject: "ENG", Number: "101", Units_min: 3, Units_max: 4.5, Designation: "GEQT", Eff_date: eff2099, Active: false},
		},
		Offerings: []schema.CourseOffering{
			{Course_id: "C101", Subject: "ENG", Number: "101", Eff_date: eff2020, Schedule_visible: true},
			{Course_id: "C101", Subject: "ENG", Number: "102", Eff_date: eff2099, Schedule_visible: false},
		},
		Requirements: []schema.RequirementMain{
			{Name: "HUM CORE", Rqfyt: "2217", Lyt: "9999", Req_type: "M", Ac1: "H", Rc1: "z", Title: "Humanities Core"},
		},
		Sub_requirements: []schema.SubRequirement{
			{Req_name: "HUM CORE", Year_term: "2217", Seq: 1, Group_min: 1, Group_max: 99, Hours_min: 3, Hours_max: 9.5, Count_hours: true, Ac: "c", Rc: "g"},
		},
		Sub_req_courses: []schema.SubReqCourse{
			{Req_name: "HUM CORE", Year_term: "2217", Sub_req_seq: 1, Seq: 10, List_seq: 2, Course_pattern: "ENG 101", Match_ctl: "$", Ar_type: "A", Ac1: "U", Ac3: "¿", Acor: "-", Rc1: "z", Rcand: "-", Title_flag: "T", Title_match_ctl: "&"},
		},
		Program_reqs: []schema.ProgramRequirement{
			{Program: "BA-HIST", Req_name: "HUM CORE", Year_term: "2217", Category: "MAJ", College: "AS"},
		},
		Crosswalk: []schema.CrosswalkRow{
			{Designation: "GEHU", Conditions: "HU"},
			{Designation: "GEQT", Conditions: "CS & C"},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	st, err := New(t.TempDir() + "/snapshot.db")
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer st.Close()

	snap := testSnapshot()
	if err := st.Save(snap); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	loaded, err := st.Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if loaded.Snapshot_id != snap.Snapshot_id || loaded.Source != snap.Source {
		t.Errorf("meta = %s/%s, want %s/%s", loaded.Snapshot_id, loaded.Source, snap.Snapshot_id, snap.Source)
	}
	if !loaded.As_of.Equal(snap.As_of) {
		t.Errorf("as_of = %v, want %v", loaded.As_of, snap.As_of)
	}

	// The driver may hand timestamps back in a different location, so dates compare by
	// instant and everything else by value.
	if len(loaded.Catalog) != len(snap.Catalog) {
		t.Fatalf("loaded %d catalog rows, want %d", len(loaded.Catalog), len(snap.Catalog))
	}
	for i, got := range loaded.Catalog {
		want := snap.Catalog[i]
		if !got.Eff_date.Equal(want.Eff_date) {
			t.Errorf("catalog row %d eff_date = %v, want %v", i, got.Eff_date, want.Eff_date)
		}
		got.Eff_date, want.Eff_date = time.Time{}, time.Time{}
		if got != want {
			t.Errorf("catalog row %d = %+v, want %+v", i, got, want)
		}
	}
	if len(loaded.Offerings) != len(snap.Offerings) {
		t.Fatalf("loaded %d offering rows, want %d", len(loaded.Offerings), len(snap.Offerings))
	}
	for i, got := range loaded.Offerings {
		want := snap.Offerings[i]
		if !got.Eff_date.Equal(want.Eff_date) {
			t.Errorf("offering row %d eff_date = %v, want %v", i, got.Eff_date, want.Eff_date)
		}
		got.Eff_date, want.Eff_date = time.Time{}, time.Time{}
		if got != want {
			t.Errorf("offering row %d = %+v, want %+v", i, got, want)
		}
	}

	if !reflect.DeepEqual(loaded.Requirements, snap.Requirements) {
		t.Errorf("requirements = %+v, want %+v", loaded.Requirements, snap.Requirements)
	}
	if !reflect.DeepEqual(loaded.Sub_requirements, snap.Sub_requirements) {
		t.Errorf("sub-requirements = %+v, want %+v", loaded.Sub_requirements, snap.Sub_requirements)
	}
	if !reflect.DeepEqual(loaded.Sub_req_courses, snap.Sub_req_courses) {
		t.Errorf("sub-requirement courses = %+v, want %+v", loaded.Sub_req_courses, snap.Sub_req_courses)
	}
	if !reflect.DeepEqual(loaded.Program_reqs, snap.Program_reqs) {
		t.Errorf("program requirements = %+v, want %+v", loaded.Program_reqs, snap.Program_reqs)
	}
	if !reflect.DeepEqual(loaded.Crosswalk, snap.Crosswalk) {
		t.Errorf("crosswalk = %+v, want %+v", loaded.Crosswalk, snap.Crosswalk)
	}
}

func TestSaveReplacesPrevious(t *testing.T) {
	path := t.TempDir() + "/snapshot.db"
	st, err := New(path)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if err := st.Save(testSnapshot()); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	st, err = New(path)
	if err != nil {
		t.Fatalf("New on an existing file error: %v", err)
	}
	defer st.Close()
	replacement := &schema.Snapshot{
		Snapshot_id: "e9c0a4fb-8d25-4f5f-8a55-1d3c09c24a77",
		As_of:       time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC),
		Source:      "ods",
		Crosswalk:   []schema.CrosswalkRow{{Designation: "GEHU", Conditions: "HU"}},
	}
	if err := st.Save(replacement); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	loaded, err := st.Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if loaded.Snapshot_id != replacement.Snapshot_id {
		t.Errorf("snapshot_id = %s, want %s", loaded.Snapshot_id, replacement.Snapshot_id)
	}
	if len(loaded.Catalog) != 0 || len(loaded.Requirements) != 0 || len(loaded.Crosswalk) != 1 {
		t.Errorf("replaced snapshot still holds old rows: %+v", loaded)
	}
}

func TestLoadEmptyStore(t *testing.T) {
	st, err := New(t.TempDir() + "/snapshot.db")
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer st.Close()
	if _, err := st.Load(); err == nil {
		t.Errorf("Load on an empty store did not error")
	}
}
