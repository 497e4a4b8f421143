/*
	This file contains "verbose-only" variants of built-in logging functions. These
	"verbose-only" functions, all of which start with 'V', will only print if the custom
	'verbose' flag is set on the standard logger.

	Additionally, a "SplitWriter" implementation of io.Writer is provided which supports
	writing to multiple destinations at once, used to mirror session logs to a file.
*/

package utils

import (
	"io"
	"log"
)

// Custom io.Writer for routing writing to multiple sub-writers
type SplitWriter struct {
	writers []io.Writer
}

// Constructor for utils.SplitWriter
func NewSplitWriter(writers ...io.Writer) *SplitWriter {
	return &SplitWriter{writers: writers}
}

// Writes the specified bytes to every sub-writer of the SplitWriter
func (splitWriter *SplitWriter) Write(p []byte) (n int, err error) {
	type writeResult struct {
		n   int
		err error
	}
	// Perform synchronous write across writers with result channel
	c := make(chan writeResult, len(splitWriter.writers))
	for _, w := range splitWriter.writers {
		go func(writer io.Writer) {
			n, err := writer.Write(p)
			c <- writeResult{n, err}
		}(w)
	}
	// Wait for all results from channel, reporting total bytes written and the first error hit
	for range splitWriter.writers {
		res := <-c
		if res.err != nil && err == nil {
			err = res.err
			continue
		}
		n += res.n
	}
	return n, err
}

// Verbose logging flag, only works with the verbose functions below
const Lverbose = 1 << 7

// Verbose-only variant of log.Printf
func VPrintf(format string, vars ...any) {
	flags := log.Flags()
	if flags&Lverbose != 0 {
		log.Printf(format, vars...)
	}
}

// Verbose-only variant of log.Print
func VPrint(text string) {
	flags := log.Flags()
	if flags&Lverbose != 0 {
		log.Print(text)
	}
}

// Verbose-only variant of log.Println
func VPrintln(text string) {
	flags := log.Flags()
	if flags&Lverbose != 0 {
		log.Println(text)
	}
}
