package checkout

import (
	"errors"
	"sync"
	"time"
)

// DefaultMaxForms bounds the registry when no limit is configured.
const DefaultMaxForms = 10000

var (
	ErrFormNotFound = errors.New("payment form not mounted")
	ErrTooManyForms = errors.New("too many open payment forms")
)

// Sessions keeps one Form per shopper session.
type Sessions struct {
	submitter submitter
	timeout   time.Duration
	maxForms  int

	mu    sync.Mutex
	forms map[string]*Form
}

// NewSessions returns an empty registry holding at most maxForms forms. A
// non-positive maxForms means DefaultMaxForms.
func NewSessions(s submitter, submitTimeout time.Duration, maxForms int) *Sessions {
	if maxForms <= 0 {
		maxForms = DefaultMaxForms
	}
	return &Sessions{
		submitter: s,
		timeout:   submitTimeout,
		maxForms:  maxForms,
		forms:     make(map[string]*Form),
	}
}

// Get returns the session's form, mounting a new one if needed. Callers
// mount only after the Shop API has accepted the session.
func (s *Sessions) Get(key string) (*Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f, ok := s.forms[key]; ok {
		f.touch()
		return f, nil
	}
	if len(s.forms) >= s.maxForms {
		return nil, ErrTooManyForms
	}
	f := NewForm(s.submitter, s.timeout)
	s.forms[key] = f
	return f, nil
}

// Lookup returns the session's form without mounting one.
func (s *Sessions) Lookup(key string) (*Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.forms[key]
	if !ok {
		return nil, ErrFormNotFound
	}
	f.touch()
	return f, nil
}

// Close unmounts the session's form, cancelling any in-flight submission.
func (s *Sessions) Close(key string) bool {
	s.mu.Lock()
	f, ok := s.forms[key]
	delete(s.forms, key)
	s.mu.Unlock()

	if ok {
		f.Close()
	}
	return ok
}

// Sweep closes forms that have been idle for longer than maxIdle and
// returns how many were removed. Forms with a submission in flight are kept.
func (s *Sessions) Sweep(now time.Time, maxIdle time.Duration) int {
	s.mu.Lock()
	var stale []*Form
	for key, f := range s.forms {
		last, idle := f.idleSince()
		if idle && now.Sub(last) > maxIdle {
			stale = append(stale, f)
			delete(s.forms, key)
		}
	}
	s.mu.Unlock()

	for _, f := range stale {
		f.Close()
	}
	return len(stale)
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.forms)
}
