/*
	This file is responsible for handling uploading of match results to MongoDB.
*/

package uploader

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/DegreeData/audit-tools/schema"
	"github.com/joho/godotenv"
)

//  Documents merge on the row's position in the expansion plus the course identity, so
//  re-uploading a newer run replaces the rows it recomputed and leaves the rest alone.
//  The run manifest is appended as-is; the runs collection is the upload history.

var matchedCoursesMergeKey []string = []string{"requirement", "rqfyt", "lyt", "sub_req_seq", "seq", "list_name", "list_seq", "course_id", "subject", "number"}

func Upload(inDir string, replace bool) {

	//Load env vars
	if err := godotenv.Load(); err != nil {
		log.Panic("Error loading .env file")
	}

	//Connect to mongo
	client := connectDB()

	// Get context
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	// Open data file for reading
	fptr, err := os.Open(fmt.Sprintf("%s/matched-courses.json", inDir))
	if err != nil {
		log.Panic(err)
	}
	defer fptr.Close()

	fmt.Println("Uploading matched-courses.json ...")

	// Decode match results from matched-courses.json
	var results []schema.MatchResult
	decoder := json.NewDecoder(fptr)
	err = decoder.Decode(&results)
	if err != nil {
		log.Panic(err)
	}

	if replace {
		var empty interface{}

		// Get collection
		collection := getCollection(client, "matched_courses")

		// Delete all documents from collection
		_, err := collection.DeleteMany(ctx, empty)
		if err != nil {
			log.Panic(err)
		}

		// Add all documents decoded from matched-courses.json into Mongo collection
		for _, result := range results {
			_, err := collection.InsertOne(ctx, result)
			if err != nil {
				log.Panic(err)
			}
		}
	} else {
		// The merge below needs a unique index over its "on" fields
		if err := ensureMergeIndex(ctx, client); err != nil {
			log.Panic(err)
		}

		// Create a temporary collection
		err := client.Database("auditDB").CreateCollection(ctx, "temp")
		if err != nil {
			log.Panic(err)
		}

		// Get the temporary collection
		tempCollection := getCollection(client, "temp")

		// Add all documents decoded from matched-courses.json into the temporary collection
		for _, result := range results {
			_, err := tempCollection.InsertOne(ctx, result)
			if err != nil {
				log.Panic(err)
			}
		}

		// Create a merge aggregate pipeline
		// Matched documents from the temporary collection will replace matched documents from the Mongo collection
		// Unmatched documents from the temporary collection will be inserted into the Mongo collection
		mergeStage := bson.D{primitive.E{Key: "$merge", Value: bson.D{primitive.E{Key: "into", Value: "matched_courses"}, primitive.E{Key: "on", Value: matchedCoursesMergeKey}, primitive.E{Key: "whenMatched", Value: "replace"}, primitive.E{Key: "whenNotMatched", Value: "insert"}}}}

		// Execute aggregate pipeline
		_, err = tempCollection.Aggregate(ctx, mongo.Pipeline{mergeStage})
		if err != nil {
			log.Panic(err)
		}

		// Drop the temporary collection
		err = tempCollection.Drop(ctx)
		if err != nil {
			log.Panic(err)
		}
	}

	fmt.Println("Done uploading matched-courses.json!")

	// Append the run manifest to the upload history
	manifestPtr, err := os.Open(fmt.Sprintf("%s/run.json", inDir))
	if err != nil {
		log.Panic(err)
	}
	defer manifestPtr.Close()

	fmt.Println("Uploading run.json ...")

	var manifest bson.M
	if err := json.NewDecoder(manifestPtr).Decode(&manifest); err != nil {
		log.Panic(err)
	}
	if _, err := getCollection(client, "runs").InsertOne(ctx, manifest); err != nil {
		log.Panic(err)
	}

	fmt.Println("Done uploading run.json!")
}
