package controller

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/octobees/leads-manager/internal/dto"
	"github.com/octobees/leads-manager/internal/entity"
)

// LeadLister is the part of the API client the controller depends on.
type LeadLister interface {
	ListLeads(ctx context.Context, filters dto.LeadFilters) ([]entity.Lead, error)
}

// State is a snapshot of the list page state.
type State struct {
	Filters dto.LeadFilters
	Leads   []entity.Lead
	Loading bool
	Error   string
}

// LeadsController owns the current filters and the last fetched leads.
// Only the most recently issued fetch may update state; older responses are dropped.
type LeadsController struct {
	api    LeadLister
	logger logrus.FieldLogger

	mu        sync.Mutex
	state     State
	seq       uint64
	observers map[int]func(State)
	nextObs   int
}

// Option configures a LeadsController.
type Option func(*LeadsController)

// WithLogger sets the controller logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *LeadsController) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithInitialFilters seeds the filters used by the first Refresh.
func WithInitialFilters(filters dto.LeadFilters) Option {
	return func(c *LeadsController) {
		c.state.Filters = filters.Clone()
	}
}

// New creates a controller backed by api.
func New(api LeadLister, opts ...Option) *LeadsController {
	c := &LeadsController{
		api:       api,
		logger:    logrus.StandardLogger(),
		observers: make(map[int]func(State)),
		state:     State{Leads: []entity.Lead{}},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns a copy of the current state.
func (c *LeadsController) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every state change.
func (c *LeadsController) Subscribe(fn func(State)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextObs
	c.nextObs++
	c.observers[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.observers, id)
			c.mu.Unlock()
		})
	}
}

// ApplyFilters replaces the filters and fetches. Applying filters equal to the current
// ones does nothing.
func (c *LeadsController) ApplyFilters(ctx context.Context, filters dto.LeadFilters) {
	c.mu.Lock()
	if c.state.Filters.Equal(filters) {
		c.mu.Unlock()
		return
	}
	c.state.Filters = filters.Clone()
	c.mu.Unlock()

	c.fetch(ctx)
}

// ClearFilters resets to the empty filter set.
func (c *LeadsController) ClearFilters(ctx context.Context) {
	c.ApplyFilters(ctx, dto.LeadFilters{})
}

// Refresh fetches again with the current filters.
func (c *LeadsController) Refresh(ctx context.Context) {
	c.fetch(ctx)
}

func (c *LeadsController) fetch(ctx context.Context) {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	filters := c.state.Filters.Clone()
	c.state.Loading = true
	started := c.snapshotLocked()
	observers := c.observersLocked()
	c.mu.Unlock()
	notify(observers, started)

	leads, err := c.api.ListLeads(ctx, filters)

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		c.logger.WithField("seq", seq).Debug("discarding stale lead list response")
		return
	}
	c.state.Loading = false
	if err != nil {
		c.state.Error = err.Error()
		c.logger.WithError(err).Warn("failed to fetch leads")
	} else {
		if leads == nil {
			leads = []entity.Lead{}
		}
		c.state.Leads = leads
		c.state.Error = ""
	}
	done := c.snapshotLocked()
	observers = c.observersLocked()
	c.mu.Unlock()
	notify(observers, done)
}

func (c *LeadsController) snapshotLocked() State {
	s := c.state
	s.Filters = c.state.Filters.Clone()
	s.Leads = append([]entity.Lead(nil), c.state.Leads...)
	if s.Leads == nil {
		s.Leads = []entity.Lead{}
	}
	return s
}

func (c *LeadsController) observersLocked() []func(State) {
	out := make([]func(State), 0, len(c.observers))
	for i := 0; i < c.nextObs; i++ {
		if fn, ok := c.observers[i]; ok {
			out = append(out, fn)
		}
	}
	return out
}

func notify(observers []func(State), s State) {
	for _, fn := range observers {
		fn(s)
	}
}
