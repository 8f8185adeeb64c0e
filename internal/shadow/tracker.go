// Package shadow links an origin message to the bot's shadow reply so the
// reply can follow the origin when it is deleted.
package shadow

import (
	"sync"

	"reactbot/internal/metrics"
	"reactbot/internal/platform"
)

// Tracker is an in-memory map from origin message id to shadow handle.
// Entries live until a delete event for the origin arrives; nothing else
// evicts them, and nothing survives a restart.
type Tracker struct {
	mu      sync.Mutex
	replies map[string]platform.MessageHandle
}

func NewTracker() *Tracker {
	return &Tracker{replies: make(map[string]platform.MessageHandle)}
}

// Record links originID to h, replacing any previous link.
func (t *Tracker) Record(originID string, h platform.MessageHandle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.replies[originID] = h
	metrics.ShadowsTracked.Set(float64(len(t.replies)))
}

func (t *Tracker) Lookup(originID string) (platform.MessageHandle, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	h, ok := t.replies[originID]
	return h, ok
}

func (t *Tracker) Forget(originID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.replies, originID)
	metrics.ShadowsTracked.Set(float64(len(t.replies)))
}

func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.replies)
}
