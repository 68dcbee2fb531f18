// package rerr collects the render layer's error taxonomy into one
// structured type, instead of the scattered sentinel-error and validation-
// error pairs a larger program tends to accumulate.
package rerr

import (
	"fmt"

	"github.com/aurorarender/protocol/render/ids"
)

// Kind classifies what went wrong, so callers can branch on failure class
// without string-matching a message.
type Kind int

const (
	// DeviceInit covers adapter/device acquisition failures.
	DeviceInit Kind = iota
	// FeatureMissing means the selected adapter lacks a feature or limit a
	// request depends on.
	FeatureMissing
	// OutOfMemory means the suballocator or a direct GPU allocation failed.
	OutOfMemory
	// StaleReference means a request named an ID that was never created, or
	// was already destroyed.
	StaleReference
	// WrongState means a request targeted an object that isn't in a state
	// that permits the operation (e.g. binding a Pipeline before its slots
	// are set).
	WrongState
	// ValidationFailed covers malformed request content that isn't about a
	// referenced object's identity or state.
	ValidationFailed
	// ShaderCompile means a shader module failed to compile.
	ShaderCompile
	// SwapchainLost means the presentation surface was lost (usually from a
	// resize or device loss) and must be reconfigured.
	SwapchainLost
	// TransferFailed means a staged upload could not complete.
	TransferFailed
)

func (k Kind) String() string {
	switch k {
	case DeviceInit:
		return "DeviceInit"
	case FeatureMissing:
		return "FeatureMissing"
	case OutOfMemory:
		return "OutOfMemory"
	case StaleReference:
		return "StaleReference"
	case WrongState:
		return "WrongState"
	case ValidationFailed:
		return "ValidationFailed"
	case ShaderCompile:
		return "ShaderCompile"
	case SwapchainLost:
		return "SwapchainLost"
	case TransferFailed:
		return "TransferFailed"
	default:
		return "Unknown"
	}
}

// Error is the single structured error type returned by every render
// package. Object is ids.None when the error isn't about a specific
// created object (e.g. DeviceInit).
type Error struct {
	Kind    Kind
	Object  ids.ID
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Object != ids.None {
		return fmt.Sprintf("%s(id=%d): %s", e.Kind, e.Object, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds an Error not tied to a specific object.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf builds an Error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error tied to a specific object, wrapping a lower-level
// cause (typically a *wgpu call's error).
func Wrap(kind Kind, object ids.ID, message string, cause error) *Error {
	return &Error{Kind: kind, Object: object, Message: message, Cause: cause}
}

// Callback receives every error the render layer produces. Dispatch logs
// each skipped request and then reports it through Callback; present
// reports per-frame failures through Callback and carries on.
type Callback func(*Error)
