// package resource defines the typed GPU object wrappers the manager keeps
// by ID: buffers, textures, samplers, shader modules and pipelines. Each
// object carries an explicit lifecycle state, since requests can configure
// an object's declared shape before any GPU-visible resource is created,
// and can arrive out of order relative to that shape becoming final.
package resource

import "github.com/aurorarender/protocol/render/rerr"

// State is the lifecycle stage of a resource object.
type State int

const (
	// Uninitialized means the object was allocated an ID but no
	// configuration request has touched it yet.
	Uninitialized State = iota
	// Configuring means one or more configuration calls (e.g. SetSlot,
	// Configure) have been applied but the backing GPU object hasn't been
	// created yet.
	Configuring
	// Created means the backing GPU object exists and is usable.
	Created
	// Destroyed means the object was released; any further request
	// against its ID fails with rerr.StaleReference.
	Destroyed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Configuring:
		return "Configuring"
	case Created:
		return "Created"
	case Destroyed:
		return "Destroyed"
	default:
		return "Unknown"
	}
}

// lifecycle is embedded by every typed resource to enforce valid state
// transitions: Uninitialized/Configuring -> Configuring,
// Uninitialized/Configuring -> Created once, any non-Destroyed -> Destroyed.
type lifecycle struct {
	state State
}

func (l *lifecycle) State() State { return l.state }

// beginConfigure advances Uninitialized to Configuring; it is a no-op once
// already Configuring, and rejects Created/Destroyed.
func (l *lifecycle) beginConfigure(kind string) error {
	switch l.state {
	case Uninitialized:
		l.state = Configuring
		return nil
	case Configuring:
		return nil
	default:
		return rerr.Newf(rerr.WrongState, "%s: cannot configure from state %s", kind, l.state)
	}
}

// markCreated advances Configuring (or Uninitialized, for objects with no
// separate configure step) to Created.
func (l *lifecycle) markCreated(kind string) error {
	switch l.state {
	case Uninitialized, Configuring:
		l.state = Created
		return nil
	default:
		return rerr.Newf(rerr.WrongState, "%s: cannot create from state %s", kind, l.state)
	}
}

// markDestroyed advances any non-Destroyed state to Destroyed.
func (l *lifecycle) markDestroyed(kind string) error {
	if l.state == Destroyed {
		return rerr.Newf(rerr.WrongState, "%s: already destroyed", kind)
	}
	l.state = Destroyed
	return nil
}

// requireCreated returns a WrongState error unless the object is Created.
func (l *lifecycle) requireCreated(kind string) error {
	if l.state != Created {
		return rerr.Newf(rerr.WrongState, "%s: not created (state %s)", kind, l.state)
	}
	return nil
}

// Object is implemented by every typed resource kept by the manager.
type Object interface {
	State() State
	Destroy() error
}
