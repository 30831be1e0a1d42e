package metrics

import (
	"sync"
	"time"
)

type commandStats struct {
	calls  int
	errors int
}

// Recorder captures lightweight, in-memory metrics about game
// commands and vote activity. It is intentionally simple so it can be
// swapped for a real backend later. Every method is nil-safe.
type Recorder struct {
	mu        sync.Mutex
	commands  map[string]*commandStats
	votes     commandStats
	scores    commandStats
	sweeps    commandStats
	lastSweep time.Duration
	otel      *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		commands: make(map[string]*commandStats),
		otel:     otel,
	}
}

// RecordCommand increments counters for a GM game command.
func (r *Recorder) RecordCommand(name string, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats, ok := r.commands[name]
	if !ok {
		stats = &commandStats{}
		r.commands[name] = stats
	}
	stats.calls++
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordCommand(name, err)
	}
}

// RecordVote tracks a vote submission attempt and whether it was
// rejected.
func (r *Recorder) RecordVote(err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.votes.calls++
	if err != nil {
		r.votes.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordVote(err)
	}
}

// RecordScore tracks a decision scoring attempt.
func (r *Recorder) RecordScore(err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.scores.calls++
	if err != nil {
		r.scores.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordScore(err)
	}
}

// RecordArchiveSweep tracks one pass of the report archiver.
func (r *Recorder) RecordArchiveSweep(duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.sweeps.calls++
	if err != nil {
		r.sweeps.errors++
	}
	r.lastSweep = duration
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordArchiveSweep(duration, err)
	}
}

// CommandCalls returns the total attempts recorded for a command.
func (r *Recorder) CommandCalls(name string) int {
	return r.Snapshot(name).Calls
}

// CommandErrors returns the failed attempts recorded for a command.
func (r *Recorder) CommandErrors(name string) int {
	return r.Snapshot(name).Errors
}

// VoteCalls returns the total vote submissions recorded.
func (r *Recorder) VoteCalls() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.votes.calls
}

// VoteErrors returns the rejected vote submissions recorded.
func (r *Recorder) VoteErrors() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.votes.errors
}

// ScoreCalls returns the total scoring attempts recorded.
func (r *Recorder) ScoreCalls() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scores.calls
}

// LastSweepDuration returns the duration of the most recent archive
// sweep.
func (r *Recorder) LastSweepDuration() time.Duration {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastSweep
}

// Snapshot is a copy of the current stats for one command.
type Snapshot struct {
	Calls  int
	Errors int
}

func (r *Recorder) Snapshot(name string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stats, ok := r.commands[name]
	if !ok {
		return Snapshot{}
	}
	return Snapshot{Calls: stats.calls, Errors: stats.errors}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}
