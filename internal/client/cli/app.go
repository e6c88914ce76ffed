package cli

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/aihr/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// pinger is what the status watcher probes.
type pinger interface {
	Ping(ctx context.Context) error
}

// modeTracker holds the online/offline state shared by the REPL and the
// status watcher.
type modeTracker struct {
	mu   sync.RWMutex
	mode Mode
	log  logging.Logger
}

func (m *modeTracker) Mode() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mode
}

// setMode switches the mode and reports whether it changed.
func (m *modeTracker) setMode(ctx context.Context, mode Mode) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mode == mode {
		return false
	}
	m.mode = mode
	if m.log != nil {
		m.log.Info(ctx, "switched mode", "mode", string(mode))
	}
	return true
}

// probe pings once and updates the mode.
func (m *modeTracker) probe(ctx context.Context, p pinger, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	err := p.Ping(ctx)
	cancel()

	if err != nil {
		m.setMode(ctx, ModeOffline)
	} else {
		m.setMode(ctx, ModeOnline)
	}
}

// StartOnlineStatusWatcher probes p every interval until ctx is done.
func (m *modeTracker) StartOnlineStatusWatcher(ctx context.Context, p pinger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.probe(ctx, p, 3*time.Second)
		case <-ctx.Done():
			return
		}
	}
}
