package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/DegreeData/audit-tools/loader"
	"github.com/DegreeData/audit-tools/matcher"
	"github.com/DegreeData/audit-tools/schema"
	"github.com/DegreeData/audit-tools/uploader"
	"github.com/DegreeData/audit-tools/utils"
)

var yearTermRegexp = utils.Regexpf(`^%s$`, utils.R_YEAR_TERM)

func main() {

	// Setup flags

	// I/O Flags
	inDir := flag.String("i", "./data", "The directory to read data from. Defaults to ./data.")
	outDir := flag.String("o", "./data", "The directory to write resulting data to. Defaults to ./data.")
	logDir := flag.String("l", "./logs", "The directory to write logs to. Defaults to ./logs.")
	snapshotPath := flag.String("snapshot", "./data/snapshot.db", "The snapshot file written by -fetch and read by -match. Defaults to ./data/snapshot.db.")

	// Flags for fetching
	fetch := flag.Bool("fetch", false, "Puts the tool into fetch mode, freezing the ODS relations into a snapshot.")
	skipValidation := flag.Bool("skipv", false, "Alongside -fetch, signifies that the post-fetch validation should be skipped. Be careful with this!")

	// Flags for matching
	match := flag.Bool("match", false, "Puts the tool into match mode, pairing offered courses with a snapshot's requirements.")
	rqfyt := flag.String("rqfyt", "", "Alongside -match, restricts matching to the requirement window starting at this year-term, i.e. 2217. Requires -lyt.")
	lyt := flag.String("lyt", "", "Alongside -match, restricts matching to the requirement window ending at this year-term, i.e. 9999. Requires -rqfyt.")
	asOf := flag.String("asof", "", "Alongside -match, overrides the snapshot's as-of date for effective dating, formatted like 2024-06-01.")

	// Flags for uploading data
	upload := flag.Bool("upload", false, "Puts the tool into upload mode.")
	replace := flag.Bool("replace", false, "Alongside -upload, specifies that uploaded data should replace existing data rather than being merged.")

	// Flags for logging
	verbose := flag.Bool("verbose", false, "Enables verbose logging, good for debugging purposes.")

	// Parse flags
	flag.Parse()

	// Make log dir if it doesn't already exist
	if _, err := os.Stat(*logDir); err != nil {
		os.Mkdir(*logDir, os.ModePerm)
	}

	// Make new log file for this session using timestamp
	dateTime := time.Now()
	year, month, day := dateTime.Date()
	hour, min, sec := dateTime.Clock()
	logFile, err := os.Create(fmt.Sprintf("%s/%d-%d-%dT%d-%d-%d.log", *logDir, month, day, year, hour, min, sec))

	if err != nil {
		log.Fatal(err)
	}

	defer logFile.Close()
	// Set logging output destination to a SplitWriter that writes to both the log file and stdout
	log.SetOutput(utils.NewSplitWriter(logFile, os.Stdout))
	// Do verbose logging if verbose flag specified
	if *verbose {
		log.SetFlags(log.Ltime | log.Lmicroseconds | log.Lshortfile | utils.Lverbose)
	} else {
		log.SetFlags(log.Ltime)
	}

	// Perform actions based on flags
	switch {
	case *fetch:
		loader.Fetch(*snapshotPath, *skipValidation)
	case *match:
		var window *schema.Window
		if *rqfyt != "" || *lyt != "" {
			if !yearTermRegexp.MatchString(*rqfyt) || !yearTermRegexp.MatchString(*lyt) {
				log.Panic("Requirement windows need both -rqfyt and -lyt as 4-digit year-terms, i.e. -rqfyt 2217 -lyt 9999!")
			}
			window = &schema.Window{Rqfyt: schema.YearTerm(*rqfyt), Lyt: schema.YearTerm(*lyt)}
		}
		var asOfDate time.Time
		if *asOf != "" {
			asOfDate, err = time.Parse("2006-01-02", *asOf)
			if err != nil {
				log.Panic("Unable to parse the -asof date! The format is 2024-06-01.")
			}
		}
		matcher.Run(*snapshotPath, *outDir, window, asOfDate)
	case *upload:
		uploader.Upload(*inDir, *replace)
	default:
		flag.PrintDefaults()
		return
	}
}
