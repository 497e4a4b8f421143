package loader

import (
	"log"

	"github.com/DegreeData/audit-tools/schema"
)

type reqIdentity struct {
	name  string
	rqfyt schema.YearTerm
}

type subReqIdentity struct {
	reqName  string
	yearTerm schema.YearTerm
	seq      int
}

type detailIdentity struct {
	reqName   string
	yearTerm  schema.YearTerm
	subReqSeq int
	seq       int
	listSeq   int
}

// validate checks a fetched snapshot before it is frozen. Duplicate ordering keys and
// incomplete course identities are fatal, since matching against them would be ambiguous
// or panic later; dangling hierarchy references are routine in the ODS and only logged.
func validate(snap *schema.Snapshot) {
	log.Printf("Validating snapshot relations...")

	dupes := 0
	reqs := make(map[reqIdentity]bool, len(snap.Requirements))
	for _, req := range snap.Requirements {
		k := reqIdentity{req.Name, req.Rqfyt}
		if reqs[k] {
			log.Printf("ERROR: Duplicate requirement %s at %s!", req.Name, req.Rqfyt)
			dupes++
		}
		reqs[k] = true
	}
	subs := make(map[subReqIdentity]bool, len(snap.Sub_requirements))
	for _, sub := range snap.Sub_requirements {
		k := subReqIdentity{sub.Req_name, sub.Year_term, sub.Seq}
		if subs[k] {
			log.Printf("ERROR: Duplicate sub-requirement %d of %s at %s!", sub.Seq, sub.Req_name, sub.Year_term)
			dupes++
		}
		subs[k] = true
	}
	details := make(map[detailIdentity]bool, len(snap.Sub_req_courses))
	for _, det := range snap.Sub_req_courses {
		k := detailIdentity{det.Req_name, det.Year_term, det.Sub_req_seq, det.Seq, det.List_seq}
		if details[k] {
			log.Printf("ERROR: Duplicate course row (%d, %d) under sub-requirement %d of %s at %s!", det.Seq, det.List_seq, det.Sub_req_seq, det.Req_name, det.Year_term)
			dupes++
		}
		details[k] = true
	}
	if dupes > 0 {
		log.Panic("Snapshot has duplicate ordering keys! Expansion order would be ambiguous.")
	}

	emptyIdentities := 0
	for _, row := range snap.Catalog {
		if row.Course_id == "" || row.Subject == "" || row.Number == "" {
			emptyIdentities++
		}
	}
	for _, off := range snap.Offerings {
		if off.Course_id == "" || off.Subject == "" || off.Number == "" {
			emptyIdentities++
		}
	}
	if emptyIdentities > 0 {
		log.Panicf("Snapshot has %d course rows without a full identity!", emptyIdentities)
	}

	danglingSubs := 0
	for _, sub := range snap.Sub_requirements {
		if !reqs[reqIdentity{sub.Req_name, sub.Year_term}] {
			danglingSubs++
		}
	}
	danglingDetails := 0
	for _, det := range snap.Sub_req_courses {
		if !subs[subReqIdentity{det.Req_name, det.Year_term, det.Sub_req_seq}] {
			danglingDetails++
		}
	}
	if danglingSubs > 0 {
		log.Printf("WARNING: %d sub-requirements reference no requirement.", danglingSubs)
	}
	if danglingDetails > 0 {
		log.Printf("WARNING: %d course rows reference no sub-requirement.", danglingDetails)
	}

	log.Printf("Validation passed.")
}
