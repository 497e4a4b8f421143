/*
	This file contains the course-side relations frozen from ODS. A course id joins the
	catalog, which knows units and the requirement designation, to the offering, which
	knows the subject/number spelling students actually see.
*/

package schema

import "time"

type CatalogCourse struct {
	Course_id   string    `bson:"course_id" json:"course_id"`
	Subject     string    `bson:"subject" json:"subject"`
	Number      string    `bson:"number" json:"number"`
	Units_min   float64   `bson:"units_min" json:"units_min"`
	Units_max   float64   `bson:"units_max" json:"units_max"`
	Designation string    `bson:"designation" json:"designation"`
	Eff_date    time.Time `bson:"eff_date" json:"eff_date"`
	Active      bool      `bson:"active" json:"active"`
}

type CourseOffering struct {
	Course_id        string    `bson:"course_id" json:"course_id"`
	Subject          string    `bson:"subject" json:"subject"`
	Number           string    `bson:"number" json:"number"`
	Eff_date         time.Time `bson:"eff_date" json:"eff_date"`
	Schedule_visible bool      `bson:"schedule_visible" json:"schedule_visible"`
}
