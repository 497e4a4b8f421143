/*
	This file ties the fetch stage together: connect to the ODS, pull the crosswalk and
	every audit relation, validate the result and freeze it into a snapshot file.
*/

package loader

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"github.com/DegreeData/audit-tools/store"
)

// Fetch pulls a fresh snapshot out of the ODS and writes it to snapshotPath.
func Fetch(snapshotPath string, skipValidation bool) {

	// Load env vars
	if err := godotenv.Load(); err != nil {
		log.Panic("Error loading .env file")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	log.Printf("Connecting to the ODS...")
	database, err := Connect(ctx)
	if err != nil {
		log.Panic(err)
	}
	defer database.Close()

	// Init http client
	tr := &http.Transport{
		MaxIdleConns:       10,
		IdleConnTimeout:    30 * time.Second,
		DisableCompression: true,
	}
	cli := &http.Client{Transport: tr}

	crosswalk, err := FetchCrosswalk(cli)
	if err != nil {
		log.Panic(err)
	}

	snap, err := database.FetchSnapshot(ctx, crosswalk)
	if err != nil {
		log.Panic(err)
	}

	windows, err := database.ListWindows(ctx)
	if err != nil {
		log.Panic(err)
	}
	log.Printf("Snapshot covers %d requirement windows.", len(windows))

	if skipValidation {
		log.Printf("Skipping validation.")
	} else {
		validate(snap)
	}

	st, err := store.New(snapshotPath)
	if err != nil {
		log.Panic(err)
	}
	defer st.Close()
	if err := st.Save(snap); err != nil {
		log.Panic(err)
	}
	log.Printf("Done fetching! Snapshot %s written to %s.", snap.Snapshot_id, snapshotPath)
}
