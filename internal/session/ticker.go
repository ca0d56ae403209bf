package session

import (
	"math/rand"
	"sync"
	"time"
)

// MaxIncrement bounds a single decorative tick.
const MaxIncrement = 15.0

// Ticker calls fn on a fixed interval until stopped. It knows nothing about the request.
type Ticker struct {
	interval time.Duration
	fn       func(inc float64)
	rand     func() float64

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewTicker creates a ticker; rnd returns values in [0,1) and defaults to math/rand.
func NewTicker(interval time.Duration, rnd func() float64, fn func(inc float64)) *Ticker {
	if rnd == nil {
		rnd = rand.Float64
	}
	return &Ticker{
		interval: interval,
		fn:       fn,
		rand:     rnd,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the ticking goroutine.
func (t *Ticker) Start() {
	go t.run()
}

func (t *Ticker) run() {
	defer close(t.done)
	if t.interval <= 0 {
		<-t.stop
		return
	}

	tk := time.NewTicker(t.interval)
	defer tk.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-tk.C:
			t.fn(t.rand() * MaxIncrement)
		}
	}
}

// Stop halts the ticker and waits for its goroutine to exit. Safe to call twice.
func (t *Ticker) Stop() {
	t.once.Do(func() { close(t.stop) })
	<-t.done
}
