package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/ThomasCrouzet/archmap/internal/client"
	"github.com/ThomasCrouzet/archmap/internal/model"
)

// ErrInFlight is returned when a submission is already pending.
var ErrInFlight = errors.New("an analysis is already in progress")

// Submitter sends one analysis request.
type Submitter interface {
	Submit(ctx context.Context, owner, repo string) (*model.AnalysisResult, error)
}

// Controller owns the page state and guards against concurrent submissions.
type Controller struct {
	submitter Submitter
	interval  time.Duration
	rand      func() float64
	onChange  func(State)

	mu    sync.Mutex
	state State
}

// Option configures a Controller.
type Option func(*Controller)

// WithInterval sets the decorative tick interval.
func WithInterval(d time.Duration) Option {
	return func(c *Controller) { c.interval = d }
}

// WithRand replaces the tick increment source.
func WithRand(fn func() float64) Option {
	return func(c *Controller) { c.rand = fn }
}

// WithOnChange registers a callback run after every state change.
func WithOnChange(fn func(State)) Option {
	return func(c *Controller) { c.onChange = fn }
}

func NewController(s Submitter, opts ...Option) *Controller {
	c := &Controller{
		submitter: s,
		interval:  200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) update(fn func(State) State) {
	c.mu.Lock()
	c.state = fn(c.state)
	s := c.state
	c.mu.Unlock()

	if c.onChange != nil {
		c.onChange(s)
	}
}

// Submit validates, then runs one submission while the decorative ticker animates.
// Empty input fails with *client.ValidationError and leaves the state alone;
// a call made while another is pending returns ErrInFlight without a request.
func (c *Controller) Submit(ctx context.Context, owner, repo string) (*model.AnalysisResult, error) {
	owner = strings.TrimSpace(owner)
	repo = strings.TrimSpace(repo)
	if owner == "" || repo == "" {
		return nil, &client.ValidationError{Message: client.ErrMissingInput}
	}

	c.mu.Lock()
	next, ok := c.state.Begin(owner + "/" + repo)
	if !ok {
		c.mu.Unlock()
		return nil, ErrInFlight
	}
	c.state = next
	c.mu.Unlock()
	if c.onChange != nil {
		c.onChange(next)
	}

	ticker := NewTicker(c.interval, c.rand, func(inc float64) {
		c.update(func(s State) State { return s.Tick(inc) })
	})
	ticker.Start()

	res, err := c.submitter.Submit(ctx, owner, repo)

	ticker.Stop()

	if err != nil {
		c.update(func(s State) State { return s.Fail(err.Error()) })
		return nil, err
	}
	c.update(func(s State) State { return s.Complete() })
	return res, nil
}
