package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/rescue"
	"github.com/zeromicro/go-zero/core/syncx"
	"github.com/zeromicro/go-zero/core/threading"
)

// ErrSessionNotFound is returned for an unknown or expired session ID.
var ErrSessionNotFound = errors.New("session: not found")

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithIdleTimeout sets how long an untouched session survives a sweep.
func WithIdleTimeout(d time.Duration) RegistryOption {
	return func(r *Registry) {
		if d > 0 {
			r.idle = d
		}
	}
}

// WithOnRemove registers a callback run after a session is removed.
func WithOnRemove(fn func(id string)) RegistryOption {
	return func(r *Registry) {
		r.onRemove = fn
	}
}

// WithRegistryClock overrides the time source used for idle tracking.
func WithRegistryClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

type registered struct {
	controller *Controller
	lastSeen   time.Time
}

// Registry owns the controllers of all live sessions.
type Registry struct {
	create   func() (*Controller, error)
	idle     time.Duration
	onRemove func(id string)
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*registered

	running *syncx.AtomicBool
	ctx     context.Context
	cancel  context.CancelFunc
	group   *threading.RoutineGroup
}

// NewRegistry creates a registry building controllers with create.
func NewRegistry(create func() (*Controller, error), opts ...RegistryOption) *Registry {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Registry{
		create:   create,
		idle:     30 * time.Minute,
		now:      time.Now,
		sessions: make(map[string]*registered),
		running:  syncx.NewAtomicBool(),
		ctx:      ctx,
		cancel:   cancel,
		group:    threading.NewRoutineGroup(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create starts a new session.
func (r *Registry) Create() (string, *Controller, error) {
	c, err := r.create()
	if err != nil {
		return "", nil, err
	}

	id := uuid.NewString()
	r.mu.Lock()
	r.sessions[id] = &registered{controller: c, lastSeen: r.now()}
	n := len(r.sessions)
	r.mu.Unlock()

	activeSessions.Set(float64(n))
	logx.Infow("Session created", logx.Field("session_id", id), logx.Field("active", n))
	return id, c, nil
}

// Get returns a live session and marks it as used.
func (r *Registry) Get(id string) (*Controller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok || !s.controller.Active() {
		return nil, ErrSessionNotFound
	}
	s.lastSeen = r.now()
	return s.controller, nil
}

// Remove closes and forgets a session.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	n := len(r.sessions)
	r.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	activeSessions.Set(float64(n))
	r.release(id, s.controller)
	return nil
}

// Len returns the number of held sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep removes sessions untouched for longer than idle, and sessions whose
// controller was closed, returning how many were removed.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	expired := make(map[string]*Controller)
	for id, s := range r.sessions {
		if s.lastSeen.Before(cutoff) || !s.controller.Active() {
			expired[id] = s.controller
			delete(r.sessions, id)
		}
	}
	n := len(r.sessions)
	r.mu.Unlock()

	if len(expired) == 0 {
		return 0
	}
	activeSessions.Set(float64(n))
	for id, c := range expired {
		r.release(id, c)
	}
	logx.Infow("Idle sessions swept", logx.Field("removed", len(expired)), logx.Field("active", n))
	return len(expired)
}

// Start runs a janitor sweeping idle sessions every interval.
func (r *Registry) Start(interval time.Duration) {
	if !r.running.CompareAndSwap(false, true) {
		return
	}
	if interval <= 0 {
		interval = time.Minute
	}

	logx.Infow("Session janitor started", logx.Field("interval", interval.String()), logx.Field("idle", r.idle.String()))
	r.group.RunSafe(func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-r.ctx.Done():
				return
			case <-ticker.C:
				r.sweepSafe()
			}
		}
	})
}

// Stop halts the janitor and closes every session.
func (r *Registry) Stop() {
	if r.running.CompareAndSwap(true, false) {
		r.cancel()
		r.group.Wait()
	}

	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*registered)
	r.mu.Unlock()

	for id, s := range sessions {
		r.release(id, s.controller)
	}
	activeSessions.Set(0)
	logx.Info("Session registry stopped")
}

func (r *Registry) sweepSafe() {
	defer rescue.RecoverCtx(r.ctx)
	r.Sweep(r.idle)
}

func (r *Registry) release(id string, c *Controller) {
	c.Close()
	if r.onRemove != nil {
		r.onRemove(id)
	}
}
