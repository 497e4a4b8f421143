/*
	This file contains the snapshot container: every input relation frozen at one as-of
	date, so a matching run is reproducible from the snapshot alone.
*/

package schema

import "time"

type Snapshot struct {
	Snapshot_id string    `bson:"snapshot_id" json:"snapshot_id"`
	As_of       time.Time `bson:"as_of" json:"as_of"`
	Source      string    `bson:"source" json:"source"`

	Catalog          []CatalogCourse      `bson:"catalog" json:"catalog"`
	Offerings        []CourseOffering     `bson:"offerings" json:"offerings"`
	Requirements     []RequirementMain    `bson:"requirements" json:"requirements"`
	Sub_requirements []SubRequirement     `bson:"sub_requirements" json:"sub_requirements"`
	Sub_req_courses  []SubReqCourse       `bson:"sub_req_courses" json:"sub_req_courses"`
	Program_reqs     []ProgramRequirement `bson:"program_reqs" json:"program_reqs"`
	Crosswalk        []CrosswalkRow       `bson:"crosswalk" json:"crosswalk"`
}
