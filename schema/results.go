/*
	This file contains the output row of the matching engine: one satisfied pairing of a
	requirement detail row with an offered course.
*/

package schema

type MatchResult struct {
	Requirement string   `bson:"requirement" json:"requirement"`
	Rqfyt       YearTerm `bson:"rqfyt" json:"rqfyt"`
	Lyt         YearTerm `bson:"lyt" json:"lyt"`
	Sub_req_seq int      `bson:"sub_req_seq" json:"sub_req_seq"`
	Seq         int      `bson:"seq" json:"seq"`
	List_name   string   `bson:"list_name" json:"list_name"`
	List_seq    int      `bson:"list_seq" json:"list_seq"`
	Course_id   string   `bson:"course_id" json:"course_id"`
	Subject     string   `bson:"subject" json:"subject"`
	Number      string   `bson:"number" json:"number"`
	Units_min   float64  `bson:"units_min" json:"units_min"`
	Units_max   float64  `bson:"units_max" json:"units_max"`
	// The codeword combination that satisfied the row's criteria.
	Codeword    string  `bson:"codeword" json:"codeword"`
	College     string  `bson:"college" json:"college"`
	Group_min   int     `bson:"group_min" json:"group_min"`
	Group_max   int     `bson:"group_max" json:"group_max"`
	Hours_min   float64 `bson:"hours_min" json:"hours_min"`
	Hours_max   float64 `bson:"hours_max" json:"hours_max"`
	Count_hours bool    `bson:"count_hours" json:"count_hours"`
	// The three criteria verdicts; all true on every emitted row.
	Accept_match     bool `bson:"accept_match" json:"accept_match"`
	Reject_ord_match bool `bson:"reject_ord_match" json:"reject_ord_match"`
	Reject_and_match bool `bson:"reject_and_match" json:"reject_and_match"`
}
