package countdown

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sink struct {
	mu     sync.Mutex
	events []Event
	expiry chan Event
}

func newSink() *sink {
	return &sink{expiry: make(chan Event, 4)}
}

func (s *sink) on(e Event) {
	s.mu.Lock()
	s.events = append(s.events, e)
	s.mu.Unlock()
	if e.Expired {
		s.expiry <- e
	}
}

func (s *sink) ticks(tok Token) []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []time.Duration
	for _, e := range s.events {
		if e.Token == tok && !e.Expired {
			out = append(out, e.Remaining)
		}
	}
	return out
}

func (s *sink) expiredCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.events {
		if e.Expired {
			n++
		}
	}
	return n
}

func TestCountdown_TicksThenExpiresOnce(t *testing.T) {
	c := New(5 * time.Millisecond)
	s := newSink()

	tok := c.Start(0, 20*time.Millisecond, s.on)

	select {
	case e := <-s.expiry:
		assert.Equal(t, tok, e.Token)
	case <-time.After(2 * time.Second):
		t.Fatal("countdown did not expire")
	}

	assert.Equal(t, []time.Duration{
		20 * time.Millisecond, 15 * time.Millisecond, 10 * time.Millisecond, 5 * time.Millisecond,
	}, s.ticks(tok))

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, s.expiredCount())

	_, ok := c.Cancel(tok)
	assert.False(t, ok, "an expired countdown cannot be cancelled")
}

func TestCountdown_CancelPreventsExpiry(t *testing.T) {
	c := New(5 * time.Millisecond)
	s := newSink()

	tok := c.Start(0, 50*time.Millisecond, s.on)
	remaining, ok := c.Cancel(tok)
	require.True(t, ok)
	assert.Greater(t, remaining, time.Duration(0))
	assert.LessOrEqual(t, remaining, 50*time.Millisecond)

	_, ok = c.Cancel(tok)
	assert.False(t, ok, "second cancel must fail")

	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, s.expiredCount())
	_, running := c.Current()
	assert.False(t, running)
}

func TestCountdown_RestartInvalidatesOldToken(t *testing.T) {
	c := New(5 * time.Millisecond)
	s := newSink()

	first := c.Start(0, 15*time.Millisecond, s.on)
	second := c.Start(1, 30*time.Millisecond, s.on)
	assert.NotEqual(t, first, second)
	assert.Equal(t, 1, second.Question)

	cur, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, second, cur)

	_, ok = c.Cancel(first)
	assert.False(t, ok)

	select {
	case e := <-s.expiry:
		assert.Equal(t, second, e.Token)
	case <-time.After(2 * time.Second):
		t.Fatal("countdown did not expire")
	}
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, s.expiredCount())
}

func TestCountdown_SameQuestionGetsNewGeneration(t *testing.T) {
	c := New(time.Second)
	defer c.Stop()

	a := c.Start(2, time.Minute, func(Event) {})
	b := c.Start(2, time.Minute, func(Event) {})
	assert.Equal(t, a.Question, b.Question)
	assert.NotEqual(t, a.Generation, b.Generation)
}

func TestCountdown_ZeroLimitExpiresImmediately(t *testing.T) {
	c := New(time.Second)
	s := newSink()

	tok := c.Start(0, 0, s.on)
	select {
	case e := <-s.expiry:
		assert.Equal(t, tok, e.Token)
	case <-time.After(time.Second):
		t.Fatal("countdown did not expire")
	}
	assert.Empty(t, s.ticks(tok))
}

func TestCountdown_Stop(t *testing.T) {
	c := New(5 * time.Millisecond)
	s := newSink()

	c.Start(0, 20*time.Millisecond, s.on)
	c.Stop()
	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, s.expiredCount())
}

func TestFormat(t *testing.T) {
	tests := map[time.Duration]string{
		120 * time.Second:                      "02:00",
		119 * time.Second:                      "01:59",
		61*time.Second + 900*time.Millisecond: "01:01",
		9 * time.Second:                        "00:09",
		0:                                      "00:00",
		-time.Second:                           "00:00",
		65 * time.Minute:                       "65:00",
	}
	for d, want := range tests {
		assert.Equal(t, want, Format(d), d.String())
	}
}
