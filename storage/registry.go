// Package storage tracks open tickets across restarts. The registry row is
// the source of truth for ownership and claim state; the channel name on
// Discord is only a projection of it.
package storage

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"ticket-bot/config"
)

// Ticket is one open ticket. OwnerID is set once at creation and never
// changes; ClaimantID is empty while the ticket is unclaimed.
type Ticket struct {
	ChannelID  string    `json:"channel_id"  bson:"channel_id"`
	OwnerID    string    `json:"owner_id"    bson:"owner_id"`
	ClaimantID string    `json:"claimant_id" bson:"claimant_id"`
	Category   string    `json:"category"    bson:"category"`
	BaseName   string    `json:"base_name"   bson:"base_name"`
	CreatedAt  time.Time `json:"created_at"  bson:"created_at"`
}

func (t Ticket) Claimed() bool { return t.ClaimantID != "" }

type Registry interface {
	// RecordOwner inserts the ticket. The channel ID must not already
	// be registered.
	RecordOwner(t Ticket) error

	// Get returns the ticket for the channel, or nil if none is open.
	Get(channelID string) (*Ticket, error)

	SetClaimant(channelID, userID string) error
	ClearClaimant(channelID string) error

	// Remove deletes the ticket. Removing an unknown channel is not an
	// error; a close racing another close must find nothing and move on.
	Remove(channelID string) error

	CountOpenFor(userID string) (int, error)
	ListOpen() ([]Ticket, error)

	Close() error
}

// Init opens the registry backend named by the config.
func Init(cfg *config.DatabaseConfig) (Registry, error) {
	switch cfg.Driver {
	case "sqlite":
		return OpenSQLite(cfg.SQLite.Path)
	case "mongodb":
		return OpenMongo(cfg.MongoDB.URI, cfg.MongoDB.Database)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s (use \"sqlite\", \"mongodb\" or \"memory\")", cfg.Driver)
	}
}

// Memory keeps tickets in process memory only. Used by tests and as the
// fallback when the configured backend fails to initialise.
type Memory struct {
	mu      sync.RWMutex
	tickets map[string]Ticket
}

func NewMemory() *Memory {
	return &Memory{tickets: make(map[string]Ticket)}
}

func (m *Memory) RecordOwner(t Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tickets[t.ChannelID]; ok {
		return fmt.Errorf("channel %s already has an open ticket", t.ChannelID)
	}
	m.tickets[t.ChannelID] = t
	return nil
}

func (m *Memory) Get(channelID string) (*Ticket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tickets[channelID]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (m *Memory) SetClaimant(channelID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tickets[channelID]
	if !ok {
		return fmt.Errorf("no open ticket for channel %s", channelID)
	}
	t.ClaimantID = userID
	m.tickets[channelID] = t
	return nil
}

func (m *Memory) ClearClaimant(channelID string) error {
	return m.SetClaimant(channelID, "")
}

func (m *Memory) Remove(channelID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tickets, channelID)
	return nil
}

func (m *Memory) CountOpenFor(userID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, t := range m.tickets {
		if t.OwnerID == userID {
			n++
		}
	}
	return n, nil
}

func (m *Memory) ListOpen() ([]Ticket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Ticket, 0, len(m.tickets))
	for _, t := range m.tickets {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChannelID < out[j].ChannelID })
	return out, nil
}

func (m *Memory) Close() error { return nil }

// ChannelLocks serializes claim/unclaim/close on the same channel. Event
// delivery is ordered per source in practice, but the check-then-act on
// registry state must not depend on that.
type ChannelLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewChannelLocks() *ChannelLocks {
	return &ChannelLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for the channel and returns its unlock func.
func (c *ChannelLocks) Lock(channelID string) func() {
	c.mu.Lock()
	l, ok := c.locks[channelID]
	if !ok {
		l = &sync.Mutex{}
		c.locks[channelID] = l
	}
	c.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Forget drops the lock entry for a channel that no longer exists.
func (c *ChannelLocks) Forget(channelID string) {
	c.mu.Lock()
	delete(c.locks, channelID)
	c.mu.Unlock()
}
