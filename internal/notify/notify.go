// Package notify carries user-visible outcomes of list operations.
package notify

import (
	"fmt"
	"sync"
)

// Kind tells success and failure apart.
type Kind int

const (
	Success Kind = iota
	Failure
)

func (k Kind) String() string {
	if k == Failure {
		return "failure"
	}
	return "success"
}

// Op names the operation a notice is about.
type Op string

const (
	OpLoad   Op = "load"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Notice is one user-visible message. ID is 0 for load and create.
type Notice struct {
	Kind    Kind
	Op      Op
	ID      int
	Title   string
	Message string
}

func (n Notice) String() string {
	return fmt.Sprintf("%s: %s", n.Title, n.Message)
}

// Notifier receives notices.
type Notifier interface {
	Notify(Notice)
}

// Func adapts a function to a Notifier.
type Func func(Notice)

func (f Func) Notify(n Notice) { f(n) }

// Discard drops every notice.
var Discard Notifier = Func(func(Notice) {})

// Recorder keeps every notice it receives; safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Notices returns a copy of what was recorded so far.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

// Last returns the most recent notice, if any.
func (r *Recorder) Last() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}
