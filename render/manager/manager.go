// package manager is the resource manager: the L3 table mapping request IDs
// to the typed objects in render/resource, keyed by the allocation order
// render/ids hands out.
package manager

import (
	"sync"

	"github.com/aurorarender/protocol/render/ids"
	"github.com/aurorarender/protocol/render/resource"
	"github.com/aurorarender/protocol/render/rerr"
)

// entry pairs a kept object with the frame it was destroyed on, so the
// presenter can defer the actual GPU release until every in-flight frame
// that might still reference it has completed.
type entry struct {
	object      resource.Object
	tombstoned  bool
	destroyedAt uint64
}

// Manager owns every live and recently-tombstoned object by ID. Objects are
// never removed from the table the instant a destroy request arrives:
// destroy marks the entry tombstoned and records the current frame number,
// and Sweep later drops entries whose destroy frame has fully retired.
type Manager struct {
	mu      sync.Mutex
	objects map[ids.ID]*entry
}

// New returns an empty Manager.
func New() *Manager {
	return &Manager{objects: make(map[ids.ID]*entry)}
}

// Put registers a newly created object under id. It is an error to Put over
// an id that already has a live (non-tombstoned) entry.
func (m *Manager) Put(id ids.ID, obj resource.Object) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.objects[id]; ok && !e.tombstoned {
		return rerr.Newf(rerr.ValidationFailed, "manager: id %d already in use", id)
	}
	m.objects[id] = &entry{object: obj}
	return nil
}

// Get returns the object registered under id. It fails with
// rerr.StaleReference if id was never registered or has been tombstoned.
func (m *Manager) Get(id ids.ID) (resource.Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.objects[id]
	if !ok || e.tombstoned {
		return nil, rerr.Wrap(rerr.StaleReference, id, "object not found", nil)
	}
	return e.object, nil
}

// Tombstone marks id's entry for deferred destruction at the given frame
// number. From then on Get reports it as stale, but the object itself is
// kept (and not destroyed) until Sweep removes it, since a still-in-flight
// command buffer may reference it.
func (m *Manager) Tombstone(id ids.ID, frame uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.objects[id]
	if !ok || e.tombstoned {
		return rerr.Wrap(rerr.StaleReference, id, "object not found", nil)
	}
	e.tombstoned = true
	e.destroyedAt = frame
	return nil
}

// Sweep drops every tombstoned entry whose destroy frame is at or before
// retiredFrame (the most recently completed frame), calling Destroy on each
// object's underlying GPU resources before dropping it.
func (m *Manager) Sweep(retiredFrame uint64) []error {
	m.mu.Lock()
	var toDestroy []resource.Object
	for id, e := range m.objects {
		if e.tombstoned && e.destroyedAt <= retiredFrame {
			toDestroy = append(toDestroy, e.object)
			delete(m.objects, id)
		}
	}
	m.mu.Unlock()

	var errs []error
	for _, obj := range toDestroy {
		if err := obj.Destroy(); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Len reports the number of entries still tracked, live or tombstoned.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
