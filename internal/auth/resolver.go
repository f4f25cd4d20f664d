package auth

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"vendorflow-backend/internal/models"
)

// ProfileFetcher is the point lookup the resolver races against its
// timeout.
type ProfileFetcher interface {
	GetProfileByID(ctx context.Context, id string) (*models.Profile, error)
}

// SessionSource is the subset of the session store the resolver consumes.
type SessionSource interface {
	OnSessionChange(fn func(models.SessionEvent)) *Listener
}

// MetricsCollector records session-resolution outcomes.
type MetricsCollector interface {
	RecordResolved()
	RecordDegraded(reason string)
}

// Degradation reasons reported to the metrics collector.
const (
	DegradedAbsent  = "absent"
	DegradedError   = "error"
	DegradedTimeout = "timeout"
)

// Resolver combines the session store's live session with a bounded-time
// profile lookup and publishes the result. A slow or failing profile store
// must never block authentication: every path commits a snapshot with
// Loading false, degrading to a profile-less user when the lookup loses
// the race.
type Resolver struct {
	state    *State
	profiles ProfileFetcher
	timeout  time.Duration
	metrics  MetricsCollector

	mu       sync.Mutex
	seq      uint64
	listener *Listener
}

// NewResolver creates a resolver in the initializing state.
func NewResolver(profiles ProfileFetcher, timeout time.Duration, metrics MetricsCollector) *Resolver {
	return &Resolver{
		state:    NewState(),
		profiles: profiles,
		timeout:  timeout,
		metrics:  metrics,
	}
}

// State exposes the published snapshot store for readers.
func (r *Resolver) State() *State {
	return r.state
}

// Start subscribes to the session source and performs the initial
// resolution pass with boot (nil when no session exists at startup).
func (r *Resolver) Start(source SessionSource, boot *models.Session) {
	r.mu.Lock()
	r.listener = source.OnSessionChange(r.handleEvent)
	r.mu.Unlock()

	r.Resolve(boot)
}

// Close releases the session-change subscription.
func (r *Resolver) Close() {
	r.mu.Lock()
	listener := r.listener
	r.listener = nil
	r.mu.Unlock()

	if listener != nil {
		listener.Unsubscribe()
	}
}

func (r *Resolver) handleEvent(ev models.SessionEvent) {
	switch ev.Type {
	case models.SessionSignedIn:
		seq := r.nextSeq()
		// Resolution blocks up to the timeout; never stall the emitter.
		go r.resolve(ev.Session, seq)
	case models.SessionSignedOut:
		r.commit(r.nextSeq(), Snapshot{User: nil, Loading: false})
	}
}

// Resolve runs one resolution pass synchronously. Concurrent passes are
// serialized by sequence number: only the latest may commit, so a slow
// older pass can never overwrite a newer one's result.
func (r *Resolver) Resolve(session *models.Session) {
	r.resolve(session, r.nextSeq())
}

// ResolveSession performs the bounded lookup without touching published
// state. Used per request by the route guard; shares the exact race and
// degradation semantics of the stateful pass.
func (r *Resolver) ResolveSession(session *models.Session) *models.AuthenticatedUser {
	if session == nil {
		return nil
	}
	return r.lookupWithTimeout(session)
}

func (r *Resolver) resolve(session *models.Session, seq uint64) {
	if session == nil {
		r.commit(seq, Snapshot{User: nil, Loading: false})
		return
	}
	user := r.lookupWithTimeout(session)
	r.commit(seq, Snapshot{User: user, Loading: false})
}

func (r *Resolver) lookupWithTimeout(session *models.Session) *models.AuthenticatedUser {
	user := &models.AuthenticatedUser{Identity: session.Identity}

	res, settled := raceProfileLookup(func() (*models.Profile, error) {
		return r.profiles.GetProfileByID(context.Background(), session.Identity.UserID)
	}, r.timeout)

	switch {
	case !settled:
		log.Printf("⚠️ Profile fetch timed out for %s - proceeding without profile", session.Identity.UserID)
		r.metrics.RecordDegraded(DegradedTimeout)
	case errors.Is(res.err, models.ErrNotFound):
		log.Printf("⚠️ No profile found for user: %s", session.Identity.UserID)
		r.metrics.RecordDegraded(DegradedAbsent)
	case res.err != nil:
		log.Printf("❌ Error fetching profile for %s: %v", session.Identity.UserID, res.err)
		r.metrics.RecordDegraded(DegradedError)
	default:
		user.Profile = res.profile
		r.metrics.RecordResolved()
	}

	return user
}

func (r *Resolver) nextSeq() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return r.seq
}

// commit publishes snap unless a newer attempt has started. The check and
// the publish happen under one lock so an older pass can never slip in
// between a newer pass's check and its write.
func (r *Resolver) commit(seq uint64, snap Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if seq != r.seq {
		log.Printf("⚠️ Discarding stale resolution attempt %d (latest is %d)", seq, r.seq)
		return
	}
	r.state.set(snap)
}
