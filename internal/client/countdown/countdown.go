// Package countdown implements the per-question answer timer.
//
// Every Start returns a fresh Token. Events carry the token they belong to,
// so a consumer can drop anything from a timer that has since been replaced.
// A running countdown ends exactly once: either Cancel claims it or it
// expires, never both.
package countdown

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Token identifies one armed countdown.
type Token struct {
	Question   int
	Generation uint64
}

// Event is a tick (Expired=false) or the final expiry of a countdown.
type Event struct {
	Token     Token
	Remaining time.Duration
	Expired   bool
}

type timer struct {
	tok     Token
	start   time.Time
	limit   time.Duration
	cancel  context.CancelFunc
	claimed bool
}

type Countdown struct {
	tick time.Duration

	mu  sync.Mutex
	cur *timer
	gen uint64
}

// New returns a Countdown that ticks every tick (one second in production).
func New(tick time.Duration) *Countdown {
	if tick <= 0 {
		tick = time.Second
	}
	return &Countdown{tick: tick}
}

// Start arms a countdown of limit for the given question, replacing any
// running one. onEvent receives a tick right away, one per tick interval,
// and a single Expired event when the limit runs out. It is called from a
// separate goroutine.
func (c *Countdown) Start(question int, limit time.Duration, onEvent func(Event)) Token {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cur != nil {
		c.cur.claimed = true
		c.cur.cancel()
	}

	c.gen++
	ctx, cancel := context.WithCancel(context.Background())
	t := &timer{
		tok:    Token{Question: question, Generation: c.gen},
		start:  time.Now(),
		limit:  limit,
		cancel: cancel,
	}
	c.cur = t

	go c.run(ctx, t, onEvent)
	return t.tok
}

// Cancel claims the countdown identified by tok and returns the time that
// was left. It reports false when tok is not the running countdown or the
// countdown already expired.
func (c *Countdown) Cancel(tok Token) (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.cur
	if t == nil || t.tok != tok || t.claimed {
		return 0, false
	}
	t.claimed = true
	t.cancel()
	c.cur = nil

	remaining := t.limit - time.Since(t.start)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true
}

// Current returns the running token, if any.
func (c *Countdown) Current() (Token, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur == nil || c.cur.claimed {
		return Token{}, false
	}
	return c.cur.tok, true
}

// Stop drops the running countdown without emitting anything further.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur != nil {
		c.cur.claimed = true
		c.cur.cancel()
		c.cur = nil
	}
}

func (c *Countdown) run(ctx context.Context, t *timer, onEvent func(Event)) {
	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()

	remaining := t.limit
	for {
		if remaining <= 0 {
			if c.claim(t) {
				onEvent(Event{Token: t.tok, Expired: true})
			}
			return
		}
		if !c.active(t) {
			return
		}
		onEvent(Event{Token: t.tok, Remaining: remaining})

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			remaining -= c.tick
		}
	}
}

func (c *Countdown) active(t *timer) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur == t && !t.claimed
}

func (c *Countdown) claim(t *timer) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur != t || t.claimed {
		return false
	}
	t.claimed = true
	t.cancel()
	return true
}

// Format renders d as MM:SS, truncated to whole seconds.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
