// Package jobs tracks the outcome of detached work so callers can poll it.
package jobs

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Well-known job keys.
const (
	KeyChangeID    = "change-id"
	KeyServerCheck = "server-check"
	KeyInstall     = "install"
	KeyUpdate      = "update"
	KeyPostRequest = "post-request"
)

// HTTPKey returns the key an HTTP request to url is tracked under.
func HTTPKey(url string) string {
	return "http:" + url
}

// State is the lifecycle position of a job.
type State int

const (
	// StateIdle means no job has been started for the key.
	StateIdle State = iota
	StatePending
	StateSucceeded
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSucceeded:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Status is the most recent outcome for a key.
type Status struct {
	Key        string
	State      State
	Result     string // Payload of a successful job, if any
	Err        string // Failure message
	Generation string // ULID of the job that produced this status
	UpdatedAt  time.Time
}

// Text renders the status the way the front-end polls it: empty while idle,
// "pending" while running, "done" (or the result) on success and the error
// message on failure.
func (s Status) Text() string {
	switch s.State {
	case StatePending:
		return StatePending.String()
	case StateSucceeded:
		if s.Result != "" {
			return s.Result
		}
		return StateSucceeded.String()
	case StateFailed:
		return s.Err
	default:
		return ""
	}
}

// Tracker keeps one status per key. Starting a job overwrites whatever was
// there; a completion from an older job is discarded.
type Tracker struct {
	mu       sync.Mutex
	statuses map[string]Status
	now      func() time.Time
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		statuses: make(map[string]Status),
		now:      time.Now,
	}
}

// Job is a handle to one started job.
type Job struct {
	tracker    *Tracker
	key        string
	generation string
}

// Begin marks key as pending and returns the handle used to complete it.
func (t *Tracker) Begin(key string) *Job {
	now := t.now()
	gen := ulid.MustNew(ulid.Timestamp(now), rand.Reader).String()

	t.mu.Lock()
	t.statuses[key] = Status{
		Key:        key,
		State:      StatePending,
		Generation: gen,
		UpdatedAt:  now,
	}
	t.mu.Unlock()

	return &Job{tracker: t, key: key, generation: gen}
}

// Status returns the current status for key.
func (t *Tracker) Status(key string) Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.statuses[key]
	if !ok {
		return Status{Key: key, State: StateIdle}
	}
	return s
}

// Reset returns key to idle.
func (t *Tracker) Reset(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.statuses, key)
}

// Key returns the job's key.
func (j *Job) Key() string { return j.key }

// Generation returns the job's unique id.
func (j *Job) Generation() string { return j.generation }

// Succeed records success with an optional result payload.
// Returns false if a newer job has replaced this one.
func (j *Job) Succeed(result string) bool {
	return j.tracker.complete(j, StateSucceeded, result, "")
}

// Fail records err as the job's outcome.
// Returns false if a newer job has replaced this one.
func (j *Job) Fail(err error) bool {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return j.tracker.complete(j, StateFailed, "", msg)
}

// Finish records success when err is nil and failure otherwise.
func (j *Job) Finish(result string, err error) bool {
	if err != nil {
		return j.Fail(err)
	}
	return j.Succeed(result)
}

func (t *Tracker) complete(j *Job, state State, result, errMsg string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur, ok := t.statuses[j.key]
	if !ok || cur.Generation != j.generation {
		return false
	}
	t.statuses[j.key] = Status{
		Key:        j.key,
		State:      state,
		Result:     result,
		Err:        errMsg,
		Generation: j.generation,
		UpdatedAt:  t.now(),
	}
	return true
}
