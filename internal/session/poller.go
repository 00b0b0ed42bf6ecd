package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Poller periodically invokes tick while started. The controller owns
// exactly one poller per session; Start is idempotent so re-entering the
// authenticated state never spawns a second timer.
type Poller struct {
	interval time.Duration
	tick     func(ctx context.Context)

	mu     sync.Mutex
	cancel context.CancelFunc
	paused atomic.Bool
}

func NewPoller(interval time.Duration, tick func(ctx context.Context)) *Poller {
	return &Poller{interval: interval, tick: tick}
}

func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	go p.run(ctx)
}

// Stop cancels the timer. Ticks run inline in the timer goroutine, so after
// the cancellation is observed no further tick fires; a tick already running
// keeps its cancelled context and its result is discarded upstream.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

// Pause keeps the timer alive but skips ticks until Resume.
func (p *Poller) Pause() { p.paused.Store(true) }

func (p *Poller) Resume() { p.paused.Store(false) }

func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

func (p *Poller) run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if p.paused.Load() {
				continue
			}
			p.tick(ctx)
		}
	}
}
