package driver

import "time"

// Stage is a step of processing one file.
type Stage string

const (
	StageRead      Stage = "read"
	StageNormalize Stage = "normalize"
	StageWrite     Stage = "write"
)

// Status is the state of a file within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusSkipped Status = "skipped"
	StatusError   Status = "error"
)

// Event reports progress for a file. Terminal events (done, skipped, error)
// carry the time spent on the file.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// Terminal reports whether no further events follow for the file.
func (e Event) Terminal() bool {
	return e.Status == StatusDone || e.Status == StatusSkipped || e.Status == StatusError
}

// ProgressSink consumes progress events. It is called from worker goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
