/*
	This file freezes fetched relations into a local SQLite snapshot file and loads them
	back for matching. The snapshot carries its own id and as-of date, so a match run is
	reproducible from the file alone, long after the upstream relations have moved on.
*/

package store

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/DegreeData/audit-tools/schema"
)

//go:embed schema.sql
var ddl string

// Store is a handle on one snapshot file.
type Store struct {
	db *sql.DB
}

// New opens a snapshot file, creating it with the snapshot schema if needed.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("init snapshot schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

var snapshotTables = []string{
	"snapshot_meta", "catalog_course", "course_offering", "req_main", "sub_req",
	"sub_req_course", "program_req", "crosswalk",
}

// Save writes a snapshot into the file inside one transaction, replacing whatever the
// file held before.
func (s *Store) Save(snap *schema.Snapshot) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin snapshot save: %w", err)
	}
	defer tx.Rollback()

	for _, table := range snapshotTables {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if _, err := tx.Exec(
		"INSERT INTO snapshot_meta (snapshot_id, as_of, source) VALUES (?, ?, ?)",
		snap.Snapshot_id, snap.As_of, snap.Source,
	); err != nil {
		return fmt.Errorf("insert snapshot meta: %w", err)
	}

	for _, row := range snap.Catalog {
		if _, err := tx.Exec(
			"INSERT INTO catalog_course (course_id, subject, number, units_min, units_max, designation, eff_date, active) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			row.Course_id, row.Subject, row.Number, row.Units_min, row.Units_max, row.Designation, row.Eff_date, row.Active,
		); err != nil {
			return fmt.Errorf("insert catalog_course: %w", err)
		}
	}
	for _, row := range snap.Offerings {
		if _, err := tx.Exec(
			"INSERT INTO course_offering (course_id, subject, number, eff_date, schedule_visible) VALUES (?, ?, ?, ?, ?)",
			row.Course_id, row.Subject, row.Number, row.Eff_date, row.Schedule_visible,
		); err != nil {
			return fmt.Errorf("insert course_offering: %w", err)
		}
	}
	for _, row := range snap.Requirements {
		if _, err := tx.Exec(
			"INSERT INTO req_main (name, rqfyt, lyt, req_type, ac1, ac2, rc1, rc2, title) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
			row.Name, row.Rqfyt, row.Lyt, row.Req_type, row.Ac1, row.Ac2, row.Rc1, row.Rc2, row.Title,
		); err != nil {
			return fmt.Errorf("insert req_main: %w", err)
		}
	}
	for _, row := range snap.Sub_requirements {
		if _, err := tx.Exec(
			"INSERT INTO sub_req (req_name, year_term, seq, group_min, group_max, hours_min, hours_max, count_hours, ac, rc) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			row.Req_name, row.Year_term, row.Seq, row.Group_min, row.Group_max, row.Hours_min, row.Hours_max, row.Count_hours, row.Ac, row.Rc,
		); err != nil {
			return fmt.Errorf("insert sub_req: %w", err)
		}
	}
	for _, row := range snap.Sub_req_courses {
		if _, err := tx.Exec(
			"INSERT INTO sub_req_course (req_name, year_term, sub_req_seq, seq, list_seq, course_pattern, match_ctl, ar_type, ac1, ac2, ac3, ac4, ac5, acor, rc1, rc2, rc3, rc4, rc5, rcand, title_flag, title_match_ctl) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			row.Req_name, row.Year_term, row.Sub_req_seq, row.Seq, row.List_seq, row.Course_pattern, row.Match_ctl, row.Ar_type,
			row.Ac1, row.Ac2, row.Ac3, row.Ac4, row.Ac5, row.Acor,
			row.Rc1, row.Rc2, row.Rc3, row.Rc4, row.Rc5, row.Rcand,
			row.Title_flag, row.Title_match_ctl,
		); err != nil {
			return fmt.Errorf("insert sub_req_course: %w", err)
		}
	}
	for _, row := range snap.Program_reqs {
		if _, err := tx.Exec(
			"INSERT INTO program_req (program, req_name, year_term, category, college) VALUES (?, ?, ?, ?, ?)",
			row.Program, row.Req_name, row.Year_term, row.Category, row.College,
		); err != nil {
			return fmt.Errorf("insert program_req: %w", err)
		}
	}
	for _, row := range snap.Crosswalk {
		if _, err := tx.Exec(
			"INSERT INTO crosswalk (designation, conditions) VALUES (?, ?)",
			row.Designation, row.Conditions,
		); err != nil {
			return fmt.Errorf("insert crosswalk: %w", err)
		}
	}

	return tx.Commit()
}

// Load reads the whole snapshot back. Every relation comes out in insertion order, so
// a loaded snapshot drives matching exactly like the one that was saved.
func (s *Store) Load() (*schema.Snapshot, error) {
	snap := &schema.Snapshot{}
	err := s.db.QueryRow("SELECT snapshot_id, as_of, source FROM snapshot_meta").
		Scan(&snap.Snapshot_id, &snap.As_of, &snap.Source)
	if err != nil {
		return nil, fmt.Errorf("read snapshot meta: %w", err)
	}

	if err := s.loadCatalog(snap); err != nil {
		return nil, err
	}
	if err := s.loadOfferings(snap); err != nil {
		return nil, err
	}
	if err := s.loadRequirements(snap); err != nil {
		return nil, err
	}
	if err := s.loadSubRequirements(snap); err != nil {
		return nil, err
	}
	if err := s.loadSubReqCourses(snap); err != nil {
		return nil, err
	}
	if err := s.loadProgramReqs(snap); err != nil {
		return nil, err
	}
	if err := s.loadCrosswalk(snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *Store) loadCatalog(snap *schema.Snapshot) error {
	rows, err := s.db.Query("SELECT course_id, subject, number, units_min, units_max, designation, eff_date, active FROM catalog_course ORDER BY rowid")
	if err != nil {
		return fmt.Errorf("read catalog_course: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var row schema.CatalogCourse
		if err := rows.Scan(&row.Course_id, &row.Subject, &row.Number, &row.Units_min, &row.Units_max, &row.Designation, &row.Eff_date, &row.Active); err != nil {
			return fmt.Errorf("scan catalog_course: %w", err)
		}
		snap.Catalog = append(snap.Catalog, row)
	}
	return rows.Err()
}

func (s *Store) loadOfferings(snap *schema.Snapshot) error {
	rows, err := s.db.Query("SELECT course_id, subject, number, eff_date, schedule_visible FROM course_offering ORDER BY rowid")
	if err != nil {
		return fmt.Errorf("read course_offering: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var row schema.CourseOffering
		if err := rows.Scan(&row.Course_id, &row.Subject, &row.Number, &row.Eff_date, &row.Schedule_visible); err != nil {
			return fmt.Errorf("scan course_offering: %w", err)
		}
		snap.Offerings = append(snap.Offerings, row)
	}
	return rows.Err()
}

func (s *Store) loadRequirements(snap *schema.Snapshot) error {
	rows, err := s.db.Query("SELECT name, rqfyt, lyt, req_type, ac1, ac2, rc1, rc2, title FROM req_main ORDER BY rowid")
	if err != nil {
		return fmt.Errorf("read req_main: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var row schema.RequirementMain
		if err := rows.Scan(&row.Name, &row.Rqfyt, &row.Lyt, &row.Req_type, &row.Ac1, &row.Ac2, &row.Rc1, &row.Rc2, &row.Title); err != nil {
			return fmt.Errorf("scan req_main: %w", err)
		}
		snap.Requirements = append(snap.Requirements, row)
	}
	return rows.Err()
}

func (s *Store) loadSubRequirements(snap *schema.Snapshot) error {
	rows, err := s.db.Query("SELECT req_name, year_term, seq, group_min, group_max, hours_min, hours_max, count_hours, ac, rc FROM sub_req ORDER BY rowid")
	if err != nil {
		return fmt.Errorf("read sub_req: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var row schema.SubRequirement
		if err := rows.Scan(&row.Req_name, &row.Year_term, &row.Seq, &row.Group_min, &row.Group_max, &row.Hours_min, &row.Hours_max, &row.Count_hours, &row.Ac, &row.Rc); err != nil {
			return fmt.Errorf("scan sub_req: %w", err)
		}
		snap.Sub_requirements = append(snap.Sub_requirements, row)
	}
	return rows.Err()
}

func (s *Store) loadSubReqCourses(snap *schema.Snapshot) error {
	rows, err := s.db.Query("SELECT req_name, year_term, sub_req_seq, seq, list_seq, course_pattern, match_ctl, ar_type, ac1, ac2, ac3, ac4, ac5, acor, rc1, rc2, rc3, rc4, rc5, rcand, title_flag, title_match_ctl FROM sub_req_course ORDER BY rowid")
	if err != nil {
		return fmt.Errorf("read sub_req_course: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var row schema.SubReqCourse
		if err := rows.Scan(&row.Req_name, &row.Year_term, &row.Sub_req_seq, &row.Seq, &row.List_seq, &row.Course_pattern, &row.Match_ctl, &row.Ar_type,
			&row.Ac1, &row.Ac2, &row.Ac3, &row.Ac4, &row.Ac5, &row.Acor,
			&row.Rc1, &row.Rc2, &row.Rc3, &row.Rc4, &row.Rc5, &row.Rcand,
			&row.Title_flag, &row.Title_match_ctl); err != nil {
			return fmt.Errorf("scan sub_req_course: %w", err)
		}
		snap.Sub_req_courses = append(snap.Sub_req_courses, row)
	}
	return rows.Err()
}

func (s *Store) loadProgramReqs(snap *schema.Snapshot) error {
	rows, err := s.db.Query("SELECT program, req_name, year_term, category, college FROM program_req ORDER BY rowid")
	if err != nil {
		return fmt.Errorf("read program_req: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var row schema.ProgramRequirement
		if err := rows.Scan(&row.Program, &row.Req_name, &row.Year_term, &row.Category, &row.College); err != nil {
			return fmt.Errorf("scan program_req: %w", err)
		}
		snap.Program_reqs = append(snap.Program_reqs, row)
	}
	return rows.Err()
}

func (s *Store) loadCrosswalk(snap *schema.Snapshot) error {
	rows, err := s.db.Query("SELECT designation, conditions FROM crosswalk ORDER BY rowid")
	if err != nil {
		return fmt.Errorf("read crosswalk: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var row schema.CrosswalkRow
		if err := rows.Scan(&row.Designation, &row.Conditions); err != nil {
			return fmt.Errorf("scan crosswalk: %w", err)
		}
		snap.Crosswalk = append(snap.Crosswalk, row)
	}
	return rows.Err()
}
