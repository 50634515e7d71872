// Package poller turns a one-shot asynchronous producer into a periodically refreshed
// cell.
//
// A Poller:
//   - Calls its producer immediately, then again every interval
//   - Never has two producer calls in flight
//   - Keeps the previous value when a call fails, counting the failure
//   - Freezes its cell on Stop, discarding any result that arrives afterwards
package poller

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sljivkov/pricegraph/logger"
	"github.com/sljivkov/pricegraph/metrics"
	"github.com/sljivkov/pricegraph/obs"
)

// DefaultInterval is used when a non-positive interval is given.
const DefaultInterval = time.Minute

// Producer fetches one value. ctx is cancelled when the poller stops.
type Producer[T any] func(ctx context.Context) (T, error)

// Poller periodically refreshes an obs.Source from a Producer.
type Poller[T any] struct {
	name     string
	interval time.Duration
	produce  Producer[T]
	src      *obs.Source[T]
	log      *logrus.Entry

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	// mu orders poll starts against Stop: once Stop returns no new poll begins.
	mu       sync.Mutex
	stopOnce sync.Once
	polls    atomic.Uint64
	failures atomic.Uint64
}

// New starts a poller whose cell is unresolved until the first successful poll.
func New[T any](name string, interval time.Duration, produce Producer[T]) *Poller[T] {
	return start(name, interval, produce, obs.NewSource[T]())
}

// NewWithInitial starts a poller whose cell starts resolved to initial.
func NewWithInitial[T any](name string, interval time.Duration, produce Producer[T], initial T) *Poller[T] {
	return start(name, interval, produce, obs.NewSourceWith(initial))
}

func start[T any](name string, interval time.Duration, produce Producer[T], src *obs.Source[T]) *Poller[T] {
	if interval <= 0 {
		interval = DefaultInterval
	}

	ctx, cancel := context.WithCancel(context.Background())

	p := &Poller[T]{
		name:     name,
		interval: interval,
		produce:  produce,
		src:      src,
		log:      logger.Component("poller").WithField("poller", name),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	go p.run()

	p.log.WithField("interval", interval).Debug("📡 poller started")

	return p
}

// Obs returns the cell fed by this poller.
func (p *Poller[T]) Obs() obs.Obs[T] {
	return p.src
}

// Name returns the poller name.
func (p *Poller[T]) Name() string {
	return p.name
}

// Interval returns the effective poll interval.
func (p *Poller[T]) Interval() time.Duration {
	return p.interval
}

// Polls returns the number of producer calls made so far.
func (p *Poller[T]) Polls() uint64 {
	return p.polls.Load()
}

// Failures returns the number of producer calls that returned an error.
func (p *Poller[T]) Failures() uint64 {
	return p.failures.Load()
}

// Listeners returns the number of subscriptions on the poller's cell.
func (p *Poller[T]) Listeners() int {
	return p.src.Listeners()
}

// Stop cancels the poll loop and freezes the cell. Further calls are no-ops.
func (p *Poller[T]) Stop() {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.src.Freeze()
		p.cancel()
		p.mu.Unlock()

		p.log.Debug("🛑 poller stopped")
	})
}

// Stopped reports whether Stop was called.
func (p *Poller[T]) Stopped() bool {
	return p.ctx.Err() != nil
}

// Done is closed once the poll loop has exited.
func (p *Poller[T]) Done() <-chan struct{} {
	return p.done
}

// run is the poll loop. Each poll starts at least one interval after the previous one
// started; a poll that overruns is followed by exactly one immediate poll.
func (p *Poller[T]) run() {
	defer close(p.done)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-timer.C:
		}

		// A timer reset to zero after a long poll races ctx.Done in the select above.
		if p.ctx.Err() != nil {
			return
		}

		started := time.Now()
		p.poll()

		wait := p.interval - time.Since(started)
		if wait < 0 {
			wait = 0
		}
		timer.Reset(wait)
	}
}

func (p *Poller[T]) poll() {
	p.mu.Lock()
	if p.ctx.Err() != nil {
		p.mu.Unlock()
		return
	}
	p.polls.Add(1)
	p.mu.Unlock()

	metrics.PollsTotal.WithLabelValues(p.name).Inc()

	v, err := p.produce(p.ctx)
	if p.ctx.Err() != nil {
		return
	}

	if err != nil {
		p.failures.Add(1)
		metrics.PollFailuresTotal.WithLabelValues(p.name).Inc()
		p.log.WithError(err).WithField("failures", p.failures.Load()).Warn("⚠️ poll failed, keeping previous value")

		return
	}

	// Publish is a no-op if Stop froze the source in the meantime.
	p.src.Publish(v)
}
