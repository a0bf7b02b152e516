// Package poller watches a payment reference id until it reaches a
// terminal status. It is the client half of the callback/polling bridge:
// the server learns the outcome from the gateway webhook, the poller
// learns it by asking the server every few seconds.
package poller

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

type State string

const (
	StateIdle    State = "idle"
	StatePolling State = "polling"
	StateSuccess State = "success"
	StateExpired State = "expired"
	StateStopped State = "stopped"
)

// Terminal status values on the wire. Unrecognized statuses keep the
// machine polling.
const (
	statusSucceeded = "berhasil"
	statusExpired   = "expired"
)

// Result is one poll answer. Exists false means no callback has arrived
// yet; the payment is still pending.
type Result struct {
	Exists      bool   `json:"exists"`
	ReferenceID string `json:"reference_id"`
	Status      string `json:"status"`
	StatusCode  string `json:"status_code"`
	Amount      string `json:"amount"`
	PaidAt      string `json:"paid_at"`
	ReceivedAt  string `json:"received_at"`
	TrxID       string `json:"trx_id"`
}

type Checker interface {
	Check(ctx context.Context, referenceID string) (Result, error)
}

// Config tunes one Poller. All callbacks are optional and are invoked from
// the polling goroutine, never concurrently with each other.
type Config struct {
	Interval    time.Duration // default 3s
	MaxDuration time.Duration // total polling budget; default 30m, <0 disables
	OnStatus    func(Result)  // every tick that found a record
	OnSuccess   func(Result)  // fired exactly once
	OnExpired   func(Result)
	OnTimeout   func() // budget exhausted without a terminal status
}

var ErrNotIdle = errors.New("poller already started")

// Poller is a single-use machine: idle → polling → success | expired |
// stopped. One goroutine runs all ticks, so a slow check delays the next
// tick instead of overlapping it.
type Poller struct {
	checker Checker
	cfg     Config

	mu          sync.Mutex
	state       State
	referenceID string
	cancel      context.CancelFunc
	done        chan struct{}
}

func New(checker Checker, cfg Config) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = 3 * time.Second
	}
	if cfg.MaxDuration == 0 {
		cfg.MaxDuration = 30 * time.Minute
	}
	return &Poller{checker: checker, cfg: cfg, state: StateIdle}
}

func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Start begins polling for referenceID: one immediate check, then one per
// interval. It returns once the goroutine is launched.
func (p *Poller) Start(referenceID string) error {
	p.mu.Lock()
	if p.state != StateIdle {
		p.mu.Unlock()
		return ErrNotIdle
	}
	ctx := context.Background()
	var cancel context.CancelFunc
	if p.cfg.MaxDuration > 0 {
		ctx, cancel = context.WithTimeout(ctx, p.cfg.MaxDuration)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	p.state = StatePolling
	p.referenceID = referenceID
	p.cancel = cancel
	p.done = make(chan struct{})
	p.mu.Unlock()

	go p.run(ctx)
	return nil
}

// Stop cancels polling from any state and waits for the goroutine to
// exit, guaranteeing no tick fires afterwards. Safe to call repeatedly.
func (p *Poller) Stop() {
	p.mu.Lock()
	if p.state == StateIdle {
		p.state = StateStopped
		p.mu.Unlock()
		return
	}
	if p.state == StatePolling {
		p.state = StateStopped
	}
	cancel, done := p.cancel, p.done
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)
	defer p.cancel()

	if p.tick(ctx) {
		return
	}
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			p.finishCancelled(ctx)
			return
		case <-ticker.C:
			if p.tick(ctx) {
				return
			}
		}
	}
}

// tick runs one status check and reports whether a terminal state was
// reached. Transport errors and absent records keep the machine polling;
// a transient blip must read as "still pending", not a failure.
func (p *Poller) tick(ctx context.Context) bool {
	res, err := p.checker.Check(ctx, p.referenceID)
	if err != nil {
		if ctx.Err() != nil {
			p.finishCancelled(ctx)
			return true
		}
		log.Printf("[POLLER] check failed for %s: %v", p.referenceID, err)
		return false
	}
	if !res.Exists {
		return false
	}
	if p.cfg.OnStatus != nil {
		p.cfg.OnStatus(res)
	}
	switch res.Status {
	case statusSucceeded:
		if p.transition(StateSuccess) && p.cfg.OnSuccess != nil {
			p.cfg.OnSuccess(res)
		}
		return true
	case statusExpired:
		if p.transition(StateExpired) && p.cfg.OnExpired != nil {
			p.cfg.OnExpired(res)
		}
		return true
	default:
		return false
	}
}

// transition moves polling → to, returning false if Stop got there first.
func (p *Poller) transition(to State) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StatePolling {
		return false
	}
	p.state = to
	return true
}

func (p *Poller) finishCancelled(ctx context.Context) {
	timedOut := errors.Is(ctx.Err(), context.DeadlineExceeded)
	if p.transition(StateStopped) && timedOut {
		log.Printf("[POLLER] polling budget exhausted for %s", p.referenceID)
		if p.cfg.OnTimeout != nil {
			p.cfg.OnTimeout()
		}
	}
}
