package session

import (
	"context"
	"sync"

	"github.com/cuidadomaisfamilia/cuidado-api/pkg/identity"
)

type fakeProvider struct {
	mu        sync.Mutex
	current   *identity.Identity
	err       error
	gate      chan struct{}
	callbacks map[int]func(*identity.Identity)
	next      int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{callbacks: make(map[int]func(*identity.Identity))}
}

func (f *fakeProvider) CurrentIdentity(ctx context.Context) (*identity.Identity, error) {
	f.mu.Lock()
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current, f.err
}

func (f *fakeProvider) OnSessionChange(callback func(*identity.Identity)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.next
	f.next++
	f.callbacks[id] = callback
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.callbacks, id)
	}
}

func (f *fakeProvider) emit(next *identity.Identity) {
	f.mu.Lock()
	fns := make([]func(*identity.Identity), 0, len(f.callbacks))
	for _, fn := range f.callbacks {
		fns = append(fns, fn)
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn(next)
	}
}

func (f *fakeProvider) subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.callbacks)
}

type roleAnswer struct {
	role identity.Role
	err  error
	gate chan struct{}
	done chan struct{}
}

type fakeRoles struct {
	mu      sync.Mutex
	answers map[string]*roleAnswer
	calls   map[string]int
}

func newFakeRoles() *fakeRoles {
	return &fakeRoles{
		answers: make(map[string]*roleAnswer),
		calls:   make(map[string]int),
	}
}

func (f *fakeRoles) set(id string, role identity.Role, err error) *roleAnswer {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := &roleAnswer{role: role, err: err, done: make(chan struct{}, 16)}
	f.answers[id] = a
	return a
}

func (f *fakeRoles) block(id string, role identity.Role) *roleAnswer {
	a := f.set(id, role, nil)
	a.gate = make(chan struct{})
	return a
}

func (f *fakeRoles) FetchRole(ctx context.Context, identityID string) (identity.Role, error) {
	f.mu.Lock()
	f.calls[identityID]++
	a, ok := f.answers[identityID]
	f.mu.Unlock()

	if !ok {
		return identity.RoleUnknown, nil
	}
	defer func() { a.done <- struct{}{} }()

	if a.gate != nil {
		<-a.gate
	}
	return a.role, a.err
}

func (f *fakeRoles) callCount(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[id]
}

func ident(id string) *identity.Identity {
	email := id + "@example.com"
	return &identity.Identity{ID: id, Email: &email}
}
