package report

import (
	"log/slog"
	"sync"
)

// Entry is one dictionary mapping.
type Entry struct {
	Key      string
	Template string
}

// Dictionary maps message keys to templates for one report tree.
// Implementations must be safe for concurrent use.
type Dictionary interface {
	// Put registers template under key. A different template for an existing
	// key replaces the old one and counts as a collision.
	Put(key, template string)
	// Merge puts every entry of other, in other's order.
	Merge(other Dictionary)
	// Lookup returns the template registered for key.
	Lookup(key string) (string, bool)
	// Snapshot returns the entries in insertion order.
	Snapshot() []Entry
	Len() int
	// Collisions returns how many times a key was re-registered with a
	// different template.
	Collisions() int
}

type dictionary struct {
	mu         sync.Mutex
	index      map[string]int
	entries    []Entry
	collisions int
	logger     *slog.Logger
}

// NewDictionary returns an empty Dictionary. Collisions are logged as
// warnings on logger, or on slog.Default() when logger is nil.
func NewDictionary(logger *slog.Logger) Dictionary {
	if logger == nil {
		logger = slog.Default()
	}
	return &dictionary{
		index:  make(map[string]int),
		logger: logger,
	}
}

func (d *dictionary) Put(key, template string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.putLocked(key, template)
}

func (d *dictionary) putLocked(key, template string) {
	if i, ok := d.index[key]; ok {
		prev := d.entries[i].Template
		if prev == template {
			return
		}
		d.entries[i].Template = template
		d.collisions++
		d.logger.Warn("report dictionary key collision, keeping the newest template",
			slog.String("key", key),
			slog.String("previous", prev),
			slog.String("template", template))
		return
	}
	d.index[key] = len(d.entries)
	d.entries = append(d.entries, Entry{Key: key, Template: template})
}

func (d *dictionary) Merge(other Dictionary) {
	if other == nil {
		return
	}
	if o, ok := other.(*dictionary); ok && o == d {
		return
	}
	// Never hold both locks at once.
	entries := other.Snapshot()
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, e := range entries {
		d.putLocked(e.Key, e.Template)
	}
}

func (d *dictionary) Lookup(key string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	i, ok := d.index[key]
	if !ok {
		return "", false
	}
	return d.entries[i].Template, true
}

func (d *dictionary) Snapshot() []Entry {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Entry(nil), d.entries...)
}

func (d *dictionary) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}

func (d *dictionary) Collisions() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.collisions
}
