// package device owns the WebGPU instance/adapter/device/queue quadruple
// that every other render layer is built on top of: the L1 layer named in
// the module layout.
package device

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/aurorarender/protocol/render/rerr"
)

// Device wraps an acquired WebGPU adapter and logical device plus the
// default queue requests are submitted on.
type Device interface {
	// Instance returns the WebGPU instance the device was created from.
	Instance() *wgpu.Instance
	// Adapter returns the physical adapter the device was requested from.
	Adapter() *wgpu.Adapter
	// Raw returns the underlying logical device.
	Raw() *wgpu.Device
	// Queue returns the default submission queue.
	Queue() *wgpu.Queue
	// Limits returns the limits the device was created with.
	Limits() wgpu.Limits
	// Poll drives the device event loop so mapped-buffer and submission
	// callbacks fire; wait blocks until at least one pending operation
	// completes.
	Poll(wait bool)
	// HasFeature reports whether the adapter backing this device supports
	// the named feature.
	HasFeature(feature wgpu.FeatureName) bool
	// Release destroys the logical device and adapter.
	Release()
}

type device struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	raw      *wgpu.Device
	queue    *wgpu.Queue
	limits   wgpu.Limits
}

var _ Device = (*device)(nil)

// BuilderOption configures device acquisition.
type BuilderOption func(*options)

type options struct {
	instance             *wgpu.Instance
	forceFallbackAdapter bool
	compatibleSurface    *wgpu.Surface
	label                string
	maxBindGroups        uint32
}

// WithInstance uses a caller-supplied WebGPU instance instead of creating a
// new one, so a presentation surface built from that same instance can be
// passed to WithCompatibleSurface before the adapter is requested.
func WithInstance(instance *wgpu.Instance) BuilderOption {
	return func(o *options) { o.instance = instance }
}

// WithFallbackAdapter forces selection of a software/fallback adapter,
// useful for headless CI environments without a real GPU.
func WithFallbackAdapter(force bool) BuilderOption {
	return func(o *options) { o.forceFallbackAdapter = force }
}

// WithCompatibleSurface restricts adapter selection to one compatible with
// the given presentation surface.
func WithCompatibleSurface(surface *wgpu.Surface) BuilderOption {
	return func(o *options) { o.compatibleSurface = surface }
}

// WithLabel sets the debug label attached to the logical device.
func WithLabel(label string) BuilderOption {
	return func(o *options) { o.label = label }
}

// WithMaxBindGroups raises the device's MaxBindGroups limit above the
// WebGPU spec default, for pipelines that bind more than the default four
// groups. A value of 0 keeps the default limit.
func WithMaxBindGroups(n uint32) BuilderOption {
	return func(o *options) { o.maxBindGroups = n }
}

// New acquires an instance, adapter, and logical device, applying the given
// options. It blocks until adapter and device requests resolve.
func New(opts ...BuilderOption) (Device, error) {
	o := &options{label: "render device"}
	for _, opt := range opts {
		opt(o)
	}

	instance := o.instance
	if instance == nil {
		instance = wgpu.CreateInstance(nil)
	}

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: o.forceFallbackAdapter,
		CompatibleSurface:    o.compatibleSurface,
	})
	if err != nil {
		return nil, rerr.Wrap(rerr.DeviceInit, 0, "request adapter", err)
	}

	limits := wgpu.DefaultLimits()
	if o.maxBindGroups > 0 {
		limits.MaxBindGroups = o.maxBindGroups
	}

	raw, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:          o.label,
		RequiredLimits: &wgpu.RequiredLimits{Limits: limits},
	})
	if err != nil {
		return nil, rerr.Wrap(rerr.DeviceInit, 0, "request device", err)
	}

	return &device{
		instance: instance,
		adapter:  adapter,
		raw:      raw,
		queue:    raw.GetQueue(),
		limits:   limits,
	}, nil
}

func (d *device) Instance() *wgpu.Instance { return d.instance }
func (d *device) Adapter() *wgpu.Adapter   { return d.adapter }
func (d *device) Raw() *wgpu.Device        { return d.raw }
func (d *device) Queue() *wgpu.Queue       { return d.queue }
func (d *device) Limits() wgpu.Limits      { return d.limits }

func (d *device) Poll(wait bool) {
	d.raw.Poll(wait, nil)
}

func (d *device) Release() {
	if d.raw != nil {
		d.raw.Release()
	}
	if d.adapter != nil {
		d.adapter.Release()
	}
}

func (d *device) HasFeature(feature wgpu.FeatureName) bool {
	return d.adapter.HasFeature(feature)
}

// String is used in log lines identifying which device a message concerns.
func (d *device) String() string {
	return fmt.Sprintf("device(limits.MaxBindGroups=%d)", d.limits.MaxBindGroups)
}
