/*
	This file contains the ODS client: the queries that pull the audit relations out of
	the student system's operational data store. Every query carries a deterministic
	ORDER BY and coalesces nullable columns, so two fetches of an unchanged store produce
	identical snapshots.
*/

package loader

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DegreeData/audit-tools/schema"
)

type Database struct {
	Pool *pgxpool.Pool
}

var odsEnvVars = []string{"ODS_DB_NAME", "ODS_DB_HOST", "ODS_DB_PORT", "ODS_DB_USER", "ODS_DB_PASSWORD"}

func databaseURL() (string, error) {
	values := make(map[string]string, len(odsEnvVars))
	for _, name := range odsEnvVars {
		value, exists := os.LookupEnv(name)
		if !exists {
			return "", errors.New(name + " is missing from .env!")
		}
		values[name] = value
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(values["ODS_DB_USER"], values["ODS_DB_PASSWORD"]),
		Host:   values["ODS_DB_HOST"] + ":" + values["ODS_DB_PORT"],
		Path:   values["ODS_DB_NAME"],
	}
	return u.String(), nil
}

// Connect opens a pool against the ODS using the connection env vars.
func Connect(ctx context.Context) (*Database, error) {
	connString, err := databaseURL()
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Database{Pool: pool}, nil
}

func (d *Database) Close() {
	d.Pool.Close()
}

const catalogQuery = `SELECT crse_id, TRIM(COALESCE(subject, '')), TRIM(COALESCE(catalog_nbr, '')), COALESCE(units_minimum, 0), COALESCE(units_maximum, 0), COALESCE(rqmnt_designtn, ''), effdt, eff_status = 'A' FROM ods.crse_catalog ORDER BY crse_id, effdt, rqmnt_designtn`

const offeringsQuery = `SELECT crse_id, TRIM(COALESCE(subject, '')), TRIM(COALESCE(catalog_nbr, '')), effdt, COALESCE(schedule_print, '') = 'Y' FROM ods.crse_offer ORDER BY crse_id, effdt, subject, catalog_nbr`

const requirementsQuery = `SELECT TRIM(rname), COALESCE(rqfyt, ''), COALESCE(lyt, ''), COALESCE(rtype, ''), COALESCE(ac1, ''), COALESCE(ac2, ''), COALESCE(rc1, ''), COALESCE(rc2, ''), COALESCE(rtitle, '') FROM ods.req_main ORDER BY rname, rqfyt`

const subRequirementsQuery = `SELECT TRIM(rname), COALESCE(ryt, ''), sno, COALESCE(grpmin, 0), COALESCE(grpmax, 0), COALESCE(hrsmin, 0), COALESCE(hrsmax, 0), COALESCE(cthrs, '') = 'H', COALESCE(ac, ''), COALESCE(rc, '') FROM ods.sub_req ORDER BY rname, ryt, sno`

const subReqCoursesQuery = `SELECT TRIM(rname), COALESCE(ryt, ''), sno, seq, COALESCE(lseq, 0), COALESCE(crsname, ''), COALESCE(mcond, ''), COALESCE(artype, ''), COALESCE(ac1, ''), COALESCE(ac2, ''), COALESCE(ac3, ''), COALESCE(ac4, ''), COALESCE(ac5, ''), COALESCE(acor, ''), COALESCE(rc1, ''), COALESCE(rc2, ''), COALESCE(rc3, ''), COALESCE(rc4, ''), COALESCE(rc5, ''), COALESCE(rcand, ''), COALESCE(ctitle, ''), COALESCE(tmcond, '') FROM ods.sub_req_crs ORDER BY rname, ryt, sno, seq, lseq`

const programRequirementsQuery = `SELECT TRIM(dprog), TRIM(rname), COALESCE(ryt, ''), COALESCE(category, ''), COALESCE(college, '') FROM ods.dprog_req ORDER BY dprog, rname, ryt`

const windowsQuery = `SELECT DISTINCT COALESCE(rqfyt, ''), COALESCE(lyt, '') FROM ods.req_main WHERE rtype <> 'L' ORDER BY 1, 2`

func (d *Database) ListCatalog(ctx context.Context) ([]schema.CatalogCourse, error) {
	rows, err := d.Pool.Query(ctx, catalogQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var catalog []schema.CatalogCourse
	for rows.Next() {
		var course schema.CatalogCourse
		if err := rows.Scan(&course.Course_id, &course.Subject, &course.Number, &course.Units_min, &course.Units_max, &course.Designation, &course.Eff_date, &course.Active); err != nil {
			return nil, err
		}
		catalog = append(catalog, course)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return catalog, nil
}

func (d *Database) ListOfferings(ctx context.Context) ([]schema.CourseOffering, error) {
	rows, err := d.Pool.Query(ctx, offeringsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offerings []schema.CourseOffering
	for rows.Next() {
		var offering schema.CourseOffering
		if err := rows.Scan(&offering.Course_id, &offering.Subject, &offering.Number, &offering.Eff_date, &offering.Schedule_visible); err != nil {
			return nil, err
		}
		offerings = append(offerings, offering)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return offerings, nil
}

func (d *Database) ListRequirements(ctx context.Context) ([]schema.RequirementMain, error) {
	rows, err := d.Pool.Query(ctx, requirementsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requirements []schema.RequirementMain
	for rows.Next() {
		var req schema.RequirementMain
		var rqfyt, lyt string
		if err := rows.Scan(&req.Name, &rqfyt, &lyt, &req.Req_type, &req.Ac1, &req.Ac2, &req.Rc1, &req.Rc2, &req.Title); err != nil {
			return nil, err
		}
		req.Rqfyt = schema.NewYearTerm(rqfyt)
		req.Lyt = schema.NewYearTerm(lyt)
		requirements = append(requirements, req)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requirements, nil
}

func (d *Database) ListSubRequirements(ctx context.Context) ([]schema.SubRequirement, error) {
	rows, err := d.Pool.Query(ctx, subRequirementsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subReqs []schema.SubRequirement
	for rows.Next() {
		var sub schema.SubRequirement
		var yearTerm string
		if err := rows.Scan(&sub.Req_name, &yearTerm, &sub.Seq, &sub.Group_min, &sub.Group_max, &sub.Hours_min, &sub.Hours_max, &sub.Count_hours, &sub.Ac, &sub.Rc); err != nil {
			return nil, err
		}
		sub.Year_term = schema.NewYearTerm(yearTerm)
		subReqs = append(subReqs, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return subReqs, nil
}

func (d *Database) ListSubReqCourses(ctx context.Context) ([]schema.SubReqCourse, error) {
	rows, err := d.Pool.Query(ctx, subReqCoursesQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []schema.SubReqCourse
	for rows.Next() {
		var det schema.SubReqCourse
		var yearTerm string
		if err := rows.Scan(&det.Req_name, &yearTerm, &det.Sub_req_seq, &det.Seq, &det.List_seq, &det.Course_pattern, &det.Match_ctl, &det.Ar_type,
			&det.Ac1, &det.Ac2, &det.Ac3, &det.Ac4, &det.Ac5, &det.Acor,
			&det.Rc1, &det.Rc2, &det.Rc3, &det.Rc4, &det.Rc5, &det.Rcand,
			&det.Title_flag, &det.Title_match_ctl); err != nil {
			return nil, err
		}
		det.Year_term = schema.NewYearTerm(yearTerm)
		details = append(details, det)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return details, nil
}

func (d *Database) ListProgramRequirements(ctx context.Context) ([]schema.ProgramRequirement, error) {
	rows, err := d.Pool.Query(ctx, programRequirementsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var programReqs []schema.ProgramRequirement
	for rows.Next() {
		var tag schema.ProgramRequirement
		var yearTerm string
		if err := rows.Scan(&tag.Program, &tag.Req_name, &yearTerm, &tag.Category, &tag.College); err != nil {
			return nil, err
		}
		tag.Year_term = schema.NewYearTerm(yearTerm)
		programReqs = append(programReqs, tag)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return programReqs, nil
}

// ListWindows lists the distinct requirement validity windows present in the ODS.
func (d *Database) ListWindows(ctx context.Context) ([]schema.Window, error) {
	rows, err := d.Pool.Query(ctx, windowsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var windows []schema.Window
	for rows.Next() {
		var rqfyt, lyt string
		if err := rows.Scan(&rqfyt, &lyt); err != nil {
			return nil, err
		}
		windows = append(windows, schema.Window{Rqfyt: schema.NewYearTerm(rqfyt), Lyt: schema.NewYearTerm(lyt)})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return windows, nil
}

// FetchSnapshot pulls every audit relation and freezes it behind a fresh snapshot id,
// stamped with the fetch time as its as-of date.
func (d *Database) FetchSnapshot(ctx context.Context, crosswalk []schema.CrosswalkRow) (*schema.Snapshot, error) {
	snap := &schema.Snapshot{
		Snapshot_id: uuid.NewString(),
		As_of:       time.Now(),
		Source:      "ods",
		Crosswalk:   crosswalk,
	}

	var err error
	if snap.Catalog, err = d.ListCatalog(ctx); err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	log.Printf("Fetched %d catalog rows.", len(snap.Catalog))
	if snap.Offerings, err = d.ListOfferings(ctx); err != nil {
		return nil, fmt.Errorf("list offerings: %w", err)
	}
	log.Printf("Fetched %d offering rows.", len(snap.Offerings))
	if snap.Requirements, err = d.ListRequirements(ctx); err != nil {
		return nil, fmt.Errorf("list requirements: %w", err)
	}
	log.Printf("Fetched %d requirement rows.", len(snap.Requirements))
	if snap.Sub_requirements, err = d.ListSubRequirements(ctx); err != nil {
		return nil, fmt.Errorf("list sub-requirements: %w", err)
	}
	log.Printf("Fetched %d sub-requirement rows.", len(snap.Sub_requirements))
	if snap.Sub_req_courses, err = d.ListSubReqCourses(ctx); err != nil {
		return nil, fmt.Errorf("list sub-requirement courses: %w", err)
	}
	log.Printf("Fetched %d sub-requirement course rows.", len(snap.Sub_req_courses))
	if snap.Program_reqs, err = d.ListProgramRequirements(ctx); err != nil {
		return nil, fmt.Errorf("list program requirements: %w", err)
	}
	log.Printf("Fetched %d program requirement rows.", len(snap.Program_reqs))

	return snap, nil
}
