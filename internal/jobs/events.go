// Package jobs carries export progress from background workers to the
// presentation layer: typed events over a bus, folded into a job table by
// the reducer.
package jobs

// StartedEvent announces a new export job.
type StartedEvent struct {
	JobID         string
	ClipID        string
	ClipName      string
	TotalSegments int
}

// ProgressEvent reports one more segment finished.
type ProgressEvent struct {
	JobID          string
	CurrentSegment int
	TotalSegments  int
}

// CompletedEvent reports the whole clip exported.
type CompletedEvent struct {
	JobID string
}

// FailedEvent reports an aborted export with the failure message.
type FailedEvent struct {
	JobID string
	Error string
}
