// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

// Package session holds the state behind an interactive password check,
// independent of how it is rendered.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/alvinbaena/pwned-check/pkg/strength"
	"github.com/rs/zerolog/log"
	"github.com/thinhdanggroup/executor"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Placeholder states of the breach result. They are not failures.
var (
	ErrNotChecked = errors.New("not checked yet")
	ErrChecking   = errors.New("checking password")
)

// Checker is the breach lookup, usually a *hibp.Client.
type Checker interface {
	Check(ctx context.Context, password string) (uint64, error)
}

// Result is either an occurrence count or the reason there is none.
type Result struct {
	Count uint64
	Err   error
}

// Pending reports whether the result is a placeholder rather than an answer.
func (r Result) Pending() bool {
	return errors.Is(r.Err, ErrNotChecked) || errors.Is(r.Err, ErrChecking)
}

func (r Result) String() string {
	if r.Err != nil {
		return r.Err.Error()
	}

	p := message.NewPrinter(language.English)
	return p.Sprintf("Found %d times", r.Count)
}

// Snapshot is a copy of the session state for rendering.
type Snapshot struct {
	Seq      uint64
	Length   int
	Strength strength.Report
	Breach   Result
}

type Session struct {
	mu         sync.Mutex
	checker    Checker
	timeout    time.Duration
	userInputs []string
	onUpdate   func(Snapshot)
	pool       *executor.Executor

	password string
	strength strength.Report
	result   Result
	// seq identifies the current request. Lookups finishing with an older
	// number are discarded.
	seq uint64
	// cancel aborts the lookup of the current seq, if any.
	cancel context.CancelFunc
}

type lookupJob struct {
	ctx      context.Context
	seq      uint64
	password string
}

type Option func(*Session)

// WithTimeout bounds every lookup. 0 leaves it to the checker.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Session) {
		s.timeout = timeout
	}
}

// WithUserInputs adds words that weaken a password, like the user name.
func WithUserInputs(inputs []string) Option {
	return func(s *Session) {
		s.userInputs = inputs
	}
}

// WithUpdates is called, outside the session lock, after a lookup result is
// published.
func WithUpdates(fn func(Snapshot)) Option {
	return func(s *Session) {
		s.onUpdate = fn
	}
}

func New(checker Checker, opts ...Option) (*Session, error) {
	s := &Session{
		checker:  checker,
		strength: strength.Estimate("", nil),
		result:   Result{Err: ErrNotChecked},
	}

	for _, opt := range opts {
		opt(s)
	}

	pool, err := executor.New(executor.Config{
		ReqPerSeconds: 0,
		QueueSize:     16,
		NumWorkers:    4,
	})
	if err != nil {
		return nil, err
	}
	s.pool = pool

	return s, nil
}

// SetPassword replaces the password, scores it and resets the breach result.
// Lookups still in flight for the previous password are superseded.
func (s *Session) SetPassword(password string) Snapshot {
	report := strength.Estimate(password, s.userInputs)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.password = password
	s.strength = report
	s.supersede()
	s.seq++
	s.result = Result{Err: ErrNotChecked}
	return s.snapshot()
}

// Check starts a lookup of the current password and returns immediately with
// its sequence number. The result replaces the slot only if no newer check or
// password change happened meanwhile, either of which also cancels it.
func (s *Session) Check() (uint64, error) {
	s.mu.Lock()
	s.supersede()
	s.seq++
	job := &lookupJob{seq: s.seq, password: s.password}
	job.ctx, s.cancel = context.WithCancel(context.Background())
	s.result = Result{Err: ErrChecking}
	s.mu.Unlock()

	if err := s.pool.Publish(s.lookup, job); err != nil {
		s.publish(job.seq, Result{Err: err})
		return job.seq, err
	}

	return job.seq, nil
}

// supersede cancels the in-flight lookup so its worker is freed at once.
// Must hold s.mu.
func (s *Session) supersede() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Session) lookup(job *lookupJob) {
	if job.ctx.Err() != nil {
		log.Debug().Msgf("skipping superseded check %d", job.seq)
		return
	}

	ctx := job.ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	count, err := s.checker.Check(ctx, job.password)
	if err != nil {
		log.Debug().Err(err).Msgf("breach check %d failed", job.seq)
		s.publish(job.seq, Result{Err: err})
		return
	}

	s.publish(job.seq, Result{Count: count})
}

func (s *Session) publish(seq uint64, result Result) {
	s.mu.Lock()
	if seq != s.seq {
		s.mu.Unlock()
		log.Debug().Msgf("discarding result of superseded check %d", seq)
		return
	}

	s.result = result
	snap := s.snapshot()
	s.mu.Unlock()

	if s.onUpdate != nil {
		s.onUpdate(snap)
	}
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) snapshot() Snapshot {
	return Snapshot{
		Seq:      s.seq,
		Length:   len([]rune(s.password)),
		Strength: s.strength,
		Breach:   s.result,
	}
}

// Wait blocks until every started lookup has finished.
func (s *Session) Wait() {
	s.pool.Wait()
}

// Close aborts the lookup in flight and stops the workers.
func (s *Session) Close() {
	s.mu.Lock()
	s.supersede()
	s.mu.Unlock()

	s.pool.Wait()
	s.pool.Close()
}
