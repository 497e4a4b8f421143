// This file contains utility methods used throughout various files in this repo.

package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Encodes and writes the given data as tab-indented JSON to the given filepath.
func WriteJSON(filepath string, data interface{}) error {
	fptr, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer fptr.Close()
	encoder := json.NewEncoder(fptr)
	encoder.SetIndent("", "\t")
	encoder.Encode(data)
	return nil
}

// Removes standard whitespace characters (space, tab, newline, carriage return) from a given string.
func TrimWhitespace(text string) string {
	return strings.Trim(text, " \t\n\r")
}

// Gets all of the keys from a given map.
func GetMapKeys[M ~map[K]V, K comparable, V any](m M) []K {
	r := make([]K, 0, len(m))
	for k := range m {
		r = append(r, k)
	}
	return r
}

// Creates a regexp with MustCompile() using a sprintf input.
func Regexpf(format string, vars ...interface{}) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(format, vars...))
}
