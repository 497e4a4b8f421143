/*
	This file contains a retrying wrapper around HTTP requests to flaky upstreams.
*/

package utils

import (
	"fmt"
	"net/http"
)

// Maximum number of failed attempts before RetryHTTP gives up.
const maxRetries = 10

// Performs the HTTP request produced by reqFactory until it succeeds with a 200, calling
// onFail after each failed attempt; onFail receives the failed response and the number of
// retries performed so far, and may sleep or otherwise recover before the next attempt.
// A fresh request is built per attempt since a request body can only be sent once.
func RetryHTTP(reqFactory func() *http.Request, client *http.Client, onFail func(res *http.Response, numRetries int)) (*http.Response, error) {
	for numRetries := 0; numRetries < maxRetries; numRetries++ {
		res, err := client.Do(reqFactory())
		if err != nil {
			return nil, err
		}
		if res.StatusCode == http.StatusOK {
			return res, nil
		}
		res.Body.Close()
		onFail(res, numRetries)
	}
	return nil, fmt.Errorf("request failed after %d retries", maxRetries)
}
