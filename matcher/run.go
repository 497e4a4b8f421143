/*
	This file is responsible for running the match stage end to end: load a frozen
	snapshot, evaluate one or all requirement windows, and write the results as
	tab-indented JSON plus one gzipped CSV part file per window, with a run manifest
	tying the parts back to the snapshot they came from.
*/

package matcher

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/DegreeData/audit-tools/schema"
	"github.com/DegreeData/audit-tools/store"
	"github.com/DegreeData/audit-tools/utils"
)

// One entry of the run manifest, naming the part file holding a window's rows.
type runWindow struct {
	Rqfyt schema.YearTerm `json:"rqfyt"`
	Lyt   schema.YearTerm `json:"lyt"`
	Rows  int             `json:"rows"`
	Part  string          `json:"part"`
}

type runManifest struct {
	Run_id      string      `json:"run_id"`
	Snapshot_id string      `json:"snapshot_id"`
	As_of       time.Time   `json:"as_of"`
	Total_rows  int         `json:"total_rows"`
	Windows     []runWindow `json:"windows"`
}

// Run executes the match stage against a snapshot file. A nil window means every
// window in the snapshot; a non-zero asOf overrides the snapshot's own as-of date for
// effective dating.
func Run(snapshotPath string, outDir string, window *schema.Window, asOf time.Time) {
	st, err := store.New(snapshotPath)
	if err != nil {
		log.Panic(err)
	}
	defer st.Close()

	snap, err := st.Load()
	if err != nil {
		log.Panic(err)
	}
	log.Printf("Loaded snapshot %s, as of %s.", snap.Snapshot_id, snap.As_of.Format("2006-01-02"))

	if !asOf.IsZero() {
		log.Printf("Overriding effective dating to %s.", asOf.Format("2006-01-02"))
		snap.As_of = asOf
	}

	matcher := New(snap)

	windows := matcher.Windows()
	if window != nil {
		windows = []schema.Window{*window}
	}
	log.Printf("Matching %d requirement window(s)...", len(windows))

	// Make out dir if it doesn't already exist
	err = os.MkdirAll(outDir, 0777)
	if err != nil {
		panic(err)
	}

	runID := uuid.NewString()
	manifest := runManifest{
		Run_id:      runID,
		Snapshot_id: snap.Snapshot_id,
		As_of:       snap.As_of,
		Windows:     make([]runWindow, 0, len(windows)),
	}

	var allResults []schema.MatchResult
	for part, w := range windows {
		results, err := matcher.Match(w)
		if err != nil {
			log.Panic(err)
		}
		partName := fmt.Sprintf("sub-req-courses-%s-part-%d.csv.gz", runID, part)
		if err := writePartFile(fmt.Sprintf("%s/%s", outDir, partName), results); err != nil {
			log.Panic(err)
		}
		utils.VPrintf("Window %s-%s: %d matched rows.", w.Rqfyt, w.Lyt, len(results))
		manifest.Windows = append(manifest.Windows, runWindow{Rqfyt: w.Rqfyt, Lyt: w.Lyt, Rows: len(results), Part: partName})
		allResults = append(allResults, results...)
	}
	manifest.Total_rows = len(allResults)

	utils.WriteJSON(fmt.Sprintf("%s/matched-courses.json", outDir), allResults)
	utils.WriteJSON(fmt.Sprintf("%s/run.json", outDir), manifest)
	log.Printf("Done matching! %d total rows across %d window(s).", len(allResults), len(windows))
}

// CSV column order for result part files, mirroring the MatchResult field order.
var resultColumns = []string{
	"requirement", "rqfyt", "lyt", "sub_req_seq", "seq", "list_name", "list_seq",
	"course_id", "subject", "number", "units_min", "units_max", "codeword", "college",
	"group_min", "group_max", "hours_min", "hours_max", "count_hours",
	"accept_match", "reject_ord_match", "reject_and_match",
}

// Writes one window's results as a gzipped CSV part file.
func writePartFile(path string, results []schema.MatchResult) error {
	fptr, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fptr.Close()

	gzWriter := gzip.NewWriter(fptr)
	csvWriter := csv.NewWriter(gzWriter)

	if err := csvWriter.Write(resultColumns); err != nil {
		return err
	}
	for _, r := range results {
		record := []string{
			r.Requirement, string(r.Rqfyt), string(r.Lyt),
			strconv.Itoa(r.Sub_req_seq), strconv.Itoa(r.Seq), r.List_name, strconv.Itoa(r.List_seq),
			r.Course_id, r.Subject, r.Number,
			formatUnits(r.Units_min), formatUnits(r.Units_max), r.Codeword, r.College,
			strconv.Itoa(r.Group_min), strconv.Itoa(r.Group_max),
			formatUnits(r.Hours_min), formatUnits(r.Hours_max), strconv.FormatBool(r.Count_hours),
			strconv.FormatBool(r.Accept_match), strconv.FormatBool(r.Reject_ord_match), strconv.FormatBool(r.Reject_and_match),
		}
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}
	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return err
	}
	return gzWriter.Close()
}

// Unit counts print fractionally only when the catalog says so.
func formatUnits(units float64) string {
	return strconv.FormatFloat(units, 'f', -1, 64)
}
