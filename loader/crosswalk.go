/*
	This file fetches the published designation crosswalk, the CSV that maps each PS
	requirement designation to its audit condition codes.
*/

package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/DegreeData/audit-tools/schema"
	"github.com/DegreeData/audit-tools/utils"
)

const defaultCrosswalkURL = "https://dars-uachieve-cmdata-sharing.s3.us-west-2.amazonaws.com/cmdata/condition_codes.csv"

const (
	designationColumn = "PS Requirement Designation"
	conditionsColumn  = "DARS Subreq AC1-AC5"
)

// FetchCrosswalk downloads and parses the crosswalk CSV. The CROSSWALK_CSV_URL env var
// overrides the published location.
func FetchCrosswalk(cli *http.Client) ([]schema.CrosswalkRow, error) {
	csvURL, exists := os.LookupEnv("CROSSWALK_CSV_URL")
	if !exists {
		csvURL = defaultCrosswalkURL
	}
	log.Printf("Fetching designation crosswalk from %s...", csvURL)

	// Try HTTP request, retrying if necessary
	res, err := utils.RetryHTTP(func() *http.Request {
		req, err := http.NewRequest("GET", csvURL, nil)
		if err != nil {
			panic(err)
		}
		return req
	}, cli, func(res *http.Response, numRetries int) {
		log.Printf("ERROR: Crosswalk fetch failed! Response code was: %s", res.Status)
		log.Printf("Retrying in %d seconds...", 3*(numRetries+1))
		time.Sleep(time.Duration(3*(numRetries+1)) * time.Second)
	})
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	rows, err := ParseCrosswalkCSV(res.Body)
	if err != nil {
		return nil, err
	}
	log.Printf("Fetched %d crosswalk rows.", len(rows))
	return rows, nil
}

// ParseCrosswalkCSV reads crosswalk rows out of a CSV document, locating the two columns
// of interest by header name. Rows without a designation are skipped.
func ParseCrosswalkCSV(r io.Reader) ([]schema.CrosswalkRow, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read crosswalk header: %w", err)
	}
	// Exports sometimes lead with a byte order mark
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	designationIdx, conditionsIdx := -1, -1
	for i, name := range header {
		switch utils.TrimWhitespace(name) {
		case designationColumn:
			designationIdx = i
		case conditionsColumn:
			conditionsIdx = i
		}
	}
	if designationIdx < 0 || conditionsIdx < 0 {
		return nil, fmt.Errorf("crosswalk csv is missing the %q or %q column", designationColumn, conditionsColumn)
	}

	var rows []schema.CrosswalkRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read crosswalk row: %w", err)
		}
		designation := utils.TrimWhitespace(record[designationIdx])
		if designation == "" {
			continue
		}
		rows = append(rows, schema.CrosswalkRow{
			Designation: designation,
			Conditions:  utils.TrimWhitespace(record[conditionsIdx]),
		})
	}
	return rows, nil
}
