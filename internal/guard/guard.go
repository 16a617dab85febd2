package guard

import (
	"fmt"
	"sync"

	"github.com/cuidadomaisfamilia/cuidado-api/internal/session"
	"github.com/rs/zerolog"
)

// StateSource is the part of session.Store the guard reads.
type StateSource interface {
	State() session.State
	Watch(fn func(session.State)) func()
}

// Guard re-evaluates the current route on every session change and every
// navigation request.
type Guard struct {
	source StateSource
	nav    Navigator
	logger zerolog.Logger

	mu        sync.Mutex
	last      Decision
	listeners []func(Decision)
	stop      func()
}

func New(source StateSource, nav Navigator, logger zerolog.Logger) *Guard {
	return &Guard{
		source: source,
		nav:    nav,
		logger: logger.With().Str("component", "guard").Logger(),
	}
}

// Start evaluates once and then follows the session. Calling Start again is
// a no-op until Stop.
func (g *Guard) Start() Decision {
	g.mu.Lock()
	if g.stop != nil {
		g.mu.Unlock()
		return g.Last()
	}
	g.stop = g.source.Watch(func(st session.State) {
		g.evaluate(st)
	})
	g.mu.Unlock()

	return g.evaluate(g.source.State())
}

func (g *Guard) Stop() {
	g.mu.Lock()
	stop := g.stop
	g.stop = nil
	g.mu.Unlock()
	if stop != nil {
		stop()
	}
}

// OnDecision registers fn to receive every decision, including the ones that
// render without a redirect.
func (g *Guard) OnDecision(fn func(Decision)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listeners = append(g.listeners, fn)
}

type pusher interface {
	Push(path string) error
}

// Navigate moves to path, pushing when the navigator keeps a stack, and
// evaluates the result. A navigation error is logged and the previous screen
// stays.
func (g *Guard) Navigate(path string) Decision {
	var err error
	if p, ok := g.nav.(pusher); ok {
		err = p.Push(path)
	} else {
		err = g.nav.Replace(path)
	}
	if err != nil {
		g.logger.Error().Err(err).Str("path", path).Msg("navigation failed")
	}
	return g.evaluate(g.source.State())
}

// Evaluate re-runs the rule against the current session and route.
func (g *Guard) Evaluate() Decision {
	return g.evaluate(g.source.State())
}

func (g *Guard) Last() Decision {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last
}

func (g *Guard) evaluate(st session.State) (d Decision) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error().Interface("panic", r).Msg("route evaluation panicked")
			d = g.Last()
		}
	}()

	d = Classify(st, g.nav.Current())
	if d.Redirect != "" {
		if err := g.redirect(d.Redirect); err != nil {
			g.logger.Error().Err(err).
				Str("from", d.Path).
				Str("to", d.Redirect).
				Msg("redirect failed")
		} else {
			g.logger.Debug().Str("from", d.Path).Str("to", d.Redirect).Msg("redirected")
		}
	}

	g.mu.Lock()
	g.last = d
	listeners := append([]func(Decision){}, g.listeners...)
	g.mu.Unlock()

	for _, fn := range listeners {
		fn(d)
	}
	return d
}

func (g *Guard) redirect(path string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("navigator panicked: %v", r)
		}
	}()
	return g.nav.Replace(path)
}
