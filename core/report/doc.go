// Package report persists reconciliation output.
//
// A Reporter renders type reports and the run summary as text and JSON and
// writes them to a Sink. Two sinks are provided: LocalSink writes below a
// directory and S3Sink writes below a key prefix of an object storage bucket.
// Either sink is cleared when a run begins, so it always holds the latest
// run only.
package report
