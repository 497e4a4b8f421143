/*
	This file contains the requirement-side relations frozen from ODS: the requirement
	mains, their sub-requirements, the course-carrying detail rows beneath those, and the
	program tags that tie a requirement back to a college.
*/

package schema

type RequirementMain struct {
	Name string `bson:"name" json:"name"`
	// Validity window: first and last year-term the requirement applies to.
	Rqfyt YearTerm `bson:"rqfyt" json:"rqfyt"`
	Lyt   YearTerm `bson:"lyt" json:"lyt"`
	// L marks a shared course list rather than a requirement of its own.
	Req_type string `bson:"req_type" json:"req_type"`
	Ac1      string `bson:"ac1" json:"ac1"`
	Ac2      string `bson:"ac2" json:"ac2"`
	Rc1      string `bson:"rc1" json:"rc1"`
	Rc2      string `bson:"rc2" json:"rc2"`
	Title    string `bson:"title" json:"title"`
}

type SubRequirement struct {
	Req_name  string   `bson:"req_name" json:"req_name"`
	Year_term YearTerm `bson:"year_term" json:"year_term"`
	Seq       int      `bson:"seq" json:"seq"`
	Group_min int      `bson:"group_min" json:"group_min"`
	Group_max int      `bson:"group_max" json:"group_max"`
	Hours_min float64  `bson:"hours_min" json:"hours_min"`
	Hours_max float64  `bson:"hours_max" json:"hours_max"`
	// Whether the group thresholds count credit hours rather than courses.
	Count_hours bool   `bson:"count_hours" json:"count_hours"`
	Ac          string `bson:"ac" json:"ac"`
	Rc          string `bson:"rc" json:"rc"`
}

type SubReqCourse struct {
	Req_name       string   `bson:"req_name" json:"req_name"`
	Year_term      YearTerm `bson:"year_term" json:"year_term"`
	Sub_req_seq    int      `bson:"sub_req_seq" json:"sub_req_seq"`
	Seq            int      `bson:"seq" json:"seq"`
	List_seq       int      `bson:"list_seq" json:"list_seq"`
	Course_pattern string   `bson:"course_pattern" json:"course_pattern"`
	// Structural role of the row: terminal markers ($, S, P), list references (L, N),
	// the hidden-alternative marker (!), or grouping operators (&, /).
	Match_ctl string `bson:"match_ctl" json:"match_ctl"`
	// A = active criterion, R = explicitly removed.
	Ar_type string `bson:"ar_type" json:"ar_type"`
	Ac1     string `bson:"ac1" json:"ac1"`
	Ac2     string `bson:"ac2" json:"ac2"`
	Ac3     string `bson:"ac3" json:"ac3"`
	Ac4     string `bson:"ac4" json:"ac4"`
	Ac5     string `bson:"ac5" json:"ac5"`
	Acor    string `bson:"acor" json:"acor"`
	Rc1     string `bson:"rc1" json:"rc1"`
	Rc2     string `bson:"rc2" json:"rc2"`
	Rc3     string `bson:"rc3" json:"rc3"`
	Rc4     string `bson:"rc4" json:"rc4"`
	Rc5     string `bson:"rc5" json:"rc5"`
	Rcand   string `bson:"rcand" json:"rcand"`
	// Title-matching passthrough columns; carried but not evaluated here.
	Title_flag      string `bson:"title_flag" json:"title_flag"`
	Title_match_ctl string `bson:"title_match_ctl" json:"title_match_ctl"`
}

type ProgramRequirement struct {
	Program   string   `bson:"program" json:"program"`
	Req_name  string   `bson:"req_name" json:"req_name"`
	Year_term YearTerm `bson:"year_term" json:"year_term"`
	Category  string   `bson:"category" json:"category"`
	College   string   `bson:"college" json:"college"`
}

// CrosswalkRow maps one PS requirement designation to its raw audit condition cell,
// i.e. "HUAD OR (HU or SB) & C & H".
type CrosswalkRow struct {
	Designation string `bson:"designation" json:"designation"`
	Conditions  string `bson:"conditions" json:"conditions"`
}
