// Package runstate tracks the progress of per-campaign overlay runs in
// memory. Apply and remove operations walk many products with independent
// commits; the store lets operators observe a run in flight and keeps
// finished runs around for a TTL before dropping them.
package runstate

import (
	"sync"
	"time"

	"github.com/light-bringer/campaign-pricing-service/internal/pkg/clock"
)

// Op names the overlay operation a run performs.
type Op string

const (
	OpApply  Op = "apply"
	OpRemove Op = "remove"
)

// Run is a snapshot of one campaign run's progress.
type Run struct {
	CampaignID string
	Op         Op
	Total      int
	Succeeded  int
	Failed     int
	StartedAt  time.Time
	UpdatedAt  time.Time
	Done       bool
}

type entry struct {
	run       Run
	expiresAt time.Time
}

// Store is a TTL-bounded in-memory map of campaign runs.
// Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	runs  map[string]*entry
	ttl   time.Duration
	clock clock.Clock
}

// NewStore creates a Store keeping finished runs for ttl.
func NewStore(ttl time.Duration, clk clock.Clock) *Store {
	return &Store{
		runs:  make(map[string]*entry),
		ttl:   ttl,
		clock: clk,
	}
}

// Begin records the start of a run, replacing any previous run for the
// campaign.
func (s *Store) Begin(campaignID string, op Op, total int) {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked(now)
	s.runs[campaignID] = &entry{
		run: Run{
			CampaignID: campaignID,
			Op:         op,
			Total:      total,
			StartedAt:  now,
			UpdatedAt:  now,
		},
	}
}

// RecordSuccess counts one successfully committed item.
func (s *Store) RecordSuccess(campaignID string) {
	s.record(campaignID, func(r *Run) { r.Succeeded++ })
}

// RecordFailure counts one item whose commit failed.
func (s *Store) RecordFailure(campaignID string) {
	s.record(campaignID, func(r *Run) { r.Failed++ })
}

// Finish marks the run done and starts its TTL.
func (s *Store) Finish(campaignID string) {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.runs[campaignID]
	if !ok {
		return
	}
	e.run.Done = true
	e.run.UpdatedAt = now
	e.expiresAt = now.Add(s.ttl)
}

// Get returns the run for a campaign, if one is tracked and unexpired.
func (s *Store) Get(campaignID string) (Run, bool) {
	now := s.clock.Now()

	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.runs[campaignID]
	if !ok || e.expired(now) {
		return Run{}, false
	}
	return e.run, true
}

// Len returns the number of tracked runs, expired entries included until the
// next write evicts them.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}

func (s *Store) record(campaignID string, fn func(*Run)) {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.runs[campaignID]
	if !ok {
		return
	}
	fn(&e.run)
	e.run.UpdatedAt = now
}

// evictLocked drops expired entries. Caller holds the write lock.
func (s *Store) evictLocked(now time.Time) {
	for id, e := range s.runs {
		if e.expired(now) {
			delete(s.runs, id)
		}
	}
}

func (e *entry) expired(now time.Time) bool {
	return e.run.Done && !e.expiresAt.After(now)
}
