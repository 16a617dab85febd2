// Package session keeps the process-wide view of who is signed in and with
// what role, synchronised with the identity provider through a single
// subscription.
//
// All writes go through one mutex-guarded path ordered by arrival: every
// session-change event and every Initialize call takes a ticket when it
// arrives, and a role lookup is applied only while its ticket is still the
// latest and the identity it was fetched for is still current. Results that
// lose that race are dropped.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/cuidadomaisfamilia/cuidado-api/pkg/identity"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

var ErrAlreadySubscribed = errors.New("session: store is already subscribed to the identity provider")

// IdentityProvider is the part of the identity provider the store consumes.
type IdentityProvider interface {
	// CurrentIdentity returns the already signed-in identity, or nil.
	CurrentIdentity(ctx context.Context) (*identity.Identity, error)
	// OnSessionChange registers callback for sign-in, sign-out and token
	// invalidation. The callback receives nil when the session ended.
	OnSessionChange(callback func(*identity.Identity)) (unsubscribe func())
}

// RoleSource looks up the role record keyed by identity id.
type RoleSource interface {
	// FetchRole returns identity.RoleUnknown and a nil error when the
	// identity has no role record.
	FetchRole(ctx context.Context, identityID string) (identity.Role, error)
}

// State is a snapshot of the session.
type State struct {
	Identity *identity.Identity
	Role     identity.Role
	Loading  bool
}

func (s State) IsAuthenticated() bool {
	return s.Identity != nil
}

func (s State) IsAdmin() bool {
	return identity.Classify(s.Role).IsAdmin
}

type Store struct {
	provider IdentityProvider
	roles    RoleSource
	logger   zerolog.Logger

	mu          sync.RWMutex
	state       State
	resolved    bool
	arrivals    uint64
	subscribed  bool
	watchers    map[uint64]func(State)
	nextWatcher uint64

	pending  []State
	draining bool
	fetches  singleflight.Group
}

func NewStore(provider IdentityProvider, roles RoleSource, logger zerolog.Logger) *Store {
	return &Store{
		provider: provider,
		roles:    roles,
		logger:   logger.With().Str("component", "session").Logger(),
		state:    State{Loading: true},
		watchers: make(map[uint64]func(State)),
	}
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) IsAuthenticated() bool {
	return s.State().IsAuthenticated()
}

func (s *Store) IsAdmin() bool {
	return s.State().IsAdmin()
}

// Initialize performs the one-shot lookup of an already signed-in identity.
// It always leaves Loading false unless a session-change event arrived while
// it was running, in which case that event owns the state.
func (s *Store) Initialize(ctx context.Context) State {
	ticket := s.arrive()

	current, err := s.provider.CurrentIdentity(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("session lookup failed, continuing signed out")
		s.commitState(ticket, State{}, false)
		return s.State()
	}

	if current == nil {
		s.commitState(ticket, State{}, false)
		return s.State()
	}
	if s.superseded(ticket) {
		return s.State()
	}

	role, resolved := s.fetchRole(ctx, current.ID)
	s.commitState(ticket, State{Identity: current, Role: role}, resolved)
	return s.State()
}

// Subscribe registers the store's single session-change subscription. The
// returned function releases it and must be called when the owner goes away.
func (s *Store) Subscribe(ctx context.Context) (func(), error) {
	s.mu.Lock()
	if s.subscribed {
		s.mu.Unlock()
		return nil, ErrAlreadySubscribed
	}
	s.subscribed = true
	s.mu.Unlock()

	release := s.provider.OnSessionChange(func(next *identity.Identity) {
		s.handleChange(ctx, next)
	})

	var once sync.Once
	return func() {
		once.Do(func() {
			release()
			s.mu.Lock()
			s.subscribed = false
			s.mu.Unlock()
		})
	}, nil
}

// CheckUserRole returns the role of the current identity, fetching it only
// when it has not been resolved yet. The boolean is false when nobody is
// signed in.
func (s *Store) CheckUserRole(ctx context.Context) (identity.Role, bool) {
	s.mu.RLock()
	st, resolved, ticket := s.state, s.resolved, s.arrivals
	s.mu.RUnlock()

	if st.Identity == nil {
		return identity.RoleUnknown, false
	}
	if resolved || st.Role.Known() {
		return st.Role, true
	}

	id := st.Identity.ID
	v, _, _ := s.fetches.Do(id, func() (any, error) {
		role, ok := s.fetchRole(ctx, id)
		s.commitRole(ticket, id, role, ok)
		return role, nil
	})
	return v.(identity.Role), true
}

// Watch calls fn with the current state after every change. The returned
// function stops the notifications.
func (s *Store) Watch(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextWatcher
	s.nextWatcher++
	s.watchers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}
}

func (s *Store) handleChange(ctx context.Context, next *identity.Identity) {
	s.mu.Lock()
	s.arrivals++
	ticket := s.arrivals

	if next == nil {
		s.state = State{}
		s.resolved = false
		s.mu.Unlock()
		s.logger.Debug().Uint64("ticket", ticket).Msg("signed out")
		s.notify()
		return
	}

	// Same principal again (token refresh, role change): keep showing the
	// role we have until the new lookup lands.
	role := identity.RoleUnknown
	if s.state.Identity.SameAs(next) {
		role = s.state.Role
	}
	s.state = State{Identity: next, Role: role, Loading: s.state.Loading}
	s.resolved = false
	s.mu.Unlock()

	s.logger.Debug().Uint64("ticket", ticket).Str("identity_id", next.ID).Msg("session changed")
	s.notify()

	go func() {
		role, ok := s.fetchRole(ctx, next.ID)
		s.commitRole(ticket, next.ID, role, ok)
	}()
}

func (s *Store) arrive() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.arrivals++
	return s.arrivals
}

func (s *Store) superseded(ticket uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ticket != s.arrivals
}

func (s *Store) fetchRole(ctx context.Context, identityID string) (identity.Role, bool) {
	role, err := s.roles.FetchRole(ctx, identityID)
	if err != nil {
		s.logger.Error().Err(err).Str("identity_id", identityID).Msg("role lookup failed")
		return identity.RoleUnknown, false
	}
	return role, true
}

func (s *Store) commitState(ticket uint64, next State, resolved bool) {
	s.mu.Lock()
	if ticket != s.arrivals {
		s.mu.Unlock()
		s.logger.Debug().Uint64("ticket", ticket).Msg("discarding superseded session lookup")
		return
	}
	next.Loading = false
	s.state = next
	s.resolved = resolved
	s.mu.Unlock()
	s.notify()
}

func (s *Store) commitRole(ticket uint64, identityID string, role identity.Role, resolved bool) {
	s.mu.Lock()
	if ticket != s.arrivals || s.state.Identity == nil || s.state.Identity.ID != identityID {
		s.mu.Unlock()
		s.logger.Debug().Uint64("ticket", ticket).Str("identity_id", identityID).Msg("discarding stale role lookup")
		return
	}
	s.state.Role = role
	s.state.Loading = false
	s.resolved = resolved
	s.mu.Unlock()
	s.notify()
}

// notify queues the current state for the watchers. The first caller drains
// the queue outside the lock; nested or concurrent callers only enqueue, so
// a watcher may call back into the store and states arrive in order.
func (s *Store) notify() {
	s.mu.Lock()
	s.pending = append(s.pending, s.state)
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true

	for len(s.pending) > 0 {
		st := s.pending[0]
		s.pending = s.pending[1:]
		fns := make([]func(State), 0, len(s.watchers))
		for _, fn := range s.watchers {
			fns = append(fns, fn)
		}
		s.mu.Unlock()

		for _, fn := range fns {
			fn(st)
		}

		s.mu.Lock()
	}
	s.pending = nil
	s.draining = false
	s.mu.Unlock()
}
