// Package status holds the shared table of per-host status text. It is the
// single point of contention between the host pollers (writers) and the
// renderer (reader).
package status

import (
	"sync"
	"time"
)

// Entry is the latest known status for one host.
type Entry struct {
	Hostname string
	// Text is the pre-rendered display block for the host. It may embed
	// ANSI color markup; the renderer converts it for the output format.
	Text string
	// LastUpdated is when the entry was last overwritten.
	LastUpdated time.Time
}

// Table is an ordered mapping from hostname to the latest status entry.
// Insertion order is fixed at startup and never changes; entries are only
// ever overwritten, never removed. All methods are safe for concurrent use.
type Table struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]Entry
	clock   func() time.Time
}

// NewTable creates an empty table. Hosts are registered with Init before
// pollers start, so the first render is well-defined.
func NewTable() *Table {
	return &Table{
		entries: make(map[string]Entry),
		clock:   time.Now,
	}
}

// Init registers a host with a placeholder text. Registration order becomes
// the render order. Re-initializing an existing host only overwrites its
// text.
func (t *Table) Init(hostname, placeholder string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.entries[hostname]; !exists {
		t.order = append(t.order, hostname)
	}
	t.entries[hostname] = Entry{
		Hostname:    hostname,
		Text:        placeholder,
		LastUpdated: t.clock(),
	}
}

// Set overwrites the status text for a host. Unknown hosts are appended to
// the order, though in normal operation every host is initialized first.
func (t *Table) Set(hostname, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.entries[hostname]; !exists {
		t.order = append(t.order, hostname)
	}
	t.entries[hostname] = Entry{
		Hostname:    hostname,
		Text:        text,
		LastUpdated: t.clock(),
	}
}

// Get returns the entry for a host, if present.
func (t *Table) Get(hostname string) (Entry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.entries[hostname]
	return e, ok
}

// Snapshot returns a point-in-time copy of all entries in insertion order.
// The copy is safe to read while writers continue.
func (t *Table) Snapshot() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snap := make([]Entry, 0, len(t.order))
	for _, hostname := range t.order {
		snap = append(snap, t.entries[hostname])
	}
	return snap
}

// Len returns the number of registered hosts.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.order)
}
