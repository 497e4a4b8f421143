/*
	This file simply acts as a space to store useful regexp pattern constants for consistency across the project.
*/

package utils

// Subject prefix, i.e. MAT
const R_SUBJECT string = `[A-Z]{3}`

// Catalog number, i.e. 101.
// The first digit of a catalog number is the course level.
const R_NUMBER string = `[0-9]{3}`

// Explicit course spelling, i.e. MAT 101
const R_COURSE string = `[A-Z]{3} [0-9]{3}`

// Course pattern shape that may carry single-character * wildcards, i.e. MAT **3
const R_COURSE_WILD string = `[A-Z*]{3}[ *][0-9*]{3}`

// Four-digit year-term code, i.e. 2217
const R_YEAR_TERM string = `[0-9]{4}`
