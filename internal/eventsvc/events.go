package eventsvc

// EventKind classifies a BuildEvent.
type EventKind string

const (
	BuildStarted  EventKind = "BuildStarted"
	TaskFinished  EventKind = "TaskFinished"
	BuildFinished EventKind = "BuildFinished"
)

// BuildEvent is one point-in-time observation of the pipeline, streamed
// to an external collector. It mirrors the data the statistics
// middleware and the orchestrator's report already compute — this
// service only republishes it.
type BuildEvent struct {
	Kind          EventKind `json:"kind"`
	SourceDir     string    `json:"source_dir,omitempty"`
	TaskName      string    `json:"task_name,omitempty"`
	Success       bool      `json:"success,omitempty"`
	CacheHit      bool      `json:"cache_hit,omitempty"`
	ElapsedMillis int64     `json:"elapsed_millis,omitempty"`
	CompiledFiles int64     `json:"compiled_files,omitempty"`
	CachedFiles   int64     `json:"cached_files,omitempty"`
	FailedFiles   int64     `json:"failed_files,omitempty"`
}

// Ack is the server's single response to a closed PublishEvents stream.
type Ack struct {
	EventsReceived int64 `json:"events_received"`
}
