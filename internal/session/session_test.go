package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThomasCrouzet/archmap/internal/client"
	"github.com/ThomasCrouzet/archmap/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSubmitter struct {
	calls   int32
	release chan struct{}
	started chan struct{}
	result  *model.AnalysisResult
	err     error
}

func (f *fakeSubmitter) Submit(ctx context.Context, owner, repo string) (*model.AnalysisResult, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	return f.result, f.err
}

func TestStateTransitions(t *testing.T) {
	s := State{}
	assert.Equal(t, Idle, s.Phase)

	s, ok := s.Begin("octocat/hello")
	require.True(t, ok)
	assert.Equal(t, Submitting, s.Phase)
	assert.Equal(t, "Analyzing octocat/hello...", s.Message)

	_, ok = s.Begin("again")
	assert.False(t, ok)

	for i := 0; i < 20; i++ {
		s = s.Tick(14)
	}
	assert.Equal(t, TickCeiling, s.Progress)

	done := s.Complete()
	assert.Equal(t, Succeeded, done.Phase)
	assert.Equal(t, 100.0, done.Progress)

	failed := s.Fail("rate limited")
	assert.Equal(t, Failed, failed.Phase)
	assert.Equal(t, 0.0, failed.Progress)
	assert.Equal(t, "rate limited", failed.Err)

	_, ok = failed.Begin("retry")
	assert.True(t, ok, "a failed submission can be retried")
}

func TestTickIgnoredOutsideSubmitting(t *testing.T) {
	assert.Equal(t, State{}, State{}.Tick(10))
	done := State{}.Complete()
	assert.Equal(t, done, done.Tick(10))
}

func TestProgressMonotonicBelowCeiling(t *testing.T) {
	s, _ := State{}.Begin("x")
	prev := s.Progress
	for _, inc := range []float64{3, 0, 14.9, -5, 7, 15, 15, 15, 15, 15} {
		s = s.Tick(inc)
		assert.GreaterOrEqual(t, s.Progress, prev)
		assert.LessOrEqual(t, s.Progress, TickCeiling)
		prev = s.Progress
	}
}

func TestControllerSuccess(t *testing.T) {
	f := &fakeSubmitter{result: &model.AnalysisResult{Success: true, Services: []string{"Flask"}}}

	var mu sync.Mutex
	var phases []Phase
	c := NewController(f, WithInterval(time.Hour), WithOnChange(func(s State) {
		mu.Lock()
		phases = append(phases, s.Phase)
		mu.Unlock()
	}))

	res, err := c.Submit(context.Background(), " octocat ", " hello ")
	require.NoError(t, err)
	assert.Equal(t, []string{"Flask"}, res.Services)
	assert.Equal(t, Succeeded, c.State().Phase)
	assert.Equal(t, 100.0, c.State().Progress)
	assert.Equal(t, []Phase{Submitting, Succeeded}, phases)
}

func TestControllerFailure(t *testing.T) {
	f := &fakeSubmitter{err: &client.ApplicationError{Message: "rate limited"}}
	c := NewController(f, WithInterval(time.Hour))

	_, err := c.Submit(context.Background(), "o", "r")
	require.Error(t, err)

	st := c.State()
	assert.Equal(t, Failed, st.Phase)
	assert.Equal(t, "rate limited", st.Err)
	assert.Equal(t, 0.0, st.Progress)
}

func TestControllerValidationLeavesStateAlone(t *testing.T) {
	f := &fakeSubmitter{}
	c := NewController(f)

	_, err := c.Submit(context.Background(), "", "repo")

	var verr *client.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, State{}, c.State())
	assert.Equal(t, int32(0), atomic.LoadInt32(&f.calls))
}

func TestControllerSingleFlight(t *testing.T) {
	f := &fakeSubmitter{
		release: make(chan struct{}),
		started: make(chan struct{}),
		result:  &model.AnalysisResult{Success: true},
	}
	c := NewController(f, WithInterval(time.Millisecond))

	errc := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background(), "o", "r")
		errc <- err
	}()

	<-f.started
	_, err := c.Submit(context.Background(), "o", "r")
	assert.ErrorIs(t, err, ErrInFlight)
	assert.Equal(t, Submitting, c.State().Phase)

	close(f.release)
	require.NoError(t, <-errc)
	assert.Equal(t, int32(1), atomic.LoadInt32(&f.calls))
	assert.Equal(t, Succeeded, c.State().Phase)
}

func TestControllerTickerAnimatesWhilePending(t *testing.T) {
	f := &fakeSubmitter{
		release: make(chan struct{}),
		started: make(chan struct{}),
		result:  &model.AnalysisResult{Success: true},
	}

	ticked := make(chan State, 100)
	c := NewController(f,
		WithInterval(time.Millisecond),
		WithRand(func() float64 { return 1 }),
		WithOnChange(func(s State) {
			if s.Phase == Submitting && s.Progress > 0 {
				select {
				case ticked <- s:
				default:
				}
			}
		}),
	)

	errc := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background(), "o", "r")
		errc <- err
	}()

	<-f.started
	first := <-ticked
	assert.Equal(t, MaxIncrement, first.Progress)

	close(f.release)
	require.NoError(t, <-errc)
	assert.Equal(t, 100.0, c.State().Progress)
}

func TestTickerStopIsIdempotent(t *testing.T) {
	tk := NewTicker(0, nil, func(float64) {})
	tk.Start()
	tk.Stop()
	tk.Stop()
}
