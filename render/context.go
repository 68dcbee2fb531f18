// package render is the public facade: the one entry point an external
// scene/visual layer imports. It wires together every internal layer
// (device, resource manager, transfer engine, dispatcher, recorder,
// presenter, window) behind the batch-construction and run-loop API
// spec.md §6 names.
package render

import (
	"log"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/aurorarender/protocol/render/batch"
	"github.com/aurorarender/protocol/render/device"
	"github.com/aurorarender/protocol/render/dispatch"
	"github.com/aurorarender/protocol/render/ids"
	"github.com/aurorarender/protocol/render/manager"
	"github.com/aurorarender/protocol/render/present"
	"github.com/aurorarender/protocol/render/profiler"
	"github.com/aurorarender/protocol/render/recorder"
	"github.com/aurorarender/protocol/render/rerr"
	"github.com/aurorarender/protocol/render/transfer"
	"github.com/aurorarender/protocol/window"
)

// Context is the protocol's top-level handle: one device, one resource
// manager, one dispatcher, and a presenter per canvas window opened
// through it.
type Context struct {
	mu sync.Mutex

	logger *log.Logger

	device     device.Device
	manager    *manager.Manager
	recorders  *recorder.Registry
	transfer   *transfer.Engine
	dispatcher *dispatch.Dispatcher
	counter    *ids.Counter
	profiler   *profiler.Profiler

	win        window.Window
	presenters map[ids.ID]*present.Presenter

	onError rerr.Callback

	profilingEnabled bool

	resizeListeners []func(width, height int)
}

// presenterEntry pairs a canvas ID with its Presenter for the frame loop's
// error reporting.
type presenterEntry struct {
	id        ids.ID
	presenter *present.Presenter
}

// Open creates a window, acquires a GPU device compatible with its
// presentation surface, and wires every protocol layer together. The
// returned Context owns all of it; Close tears down in reverse order.
func Open(opts ...Option) (*Context, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	c := &Context{
		logger:           o.logger,
		counter:          ids.NewCounter(),
		manager:          manager.New(),
		recorders:        recorder.NewRegistry(),
		presenters:       make(map[ids.ID]*present.Presenter),
		onError:          o.onError,
		profilingEnabled: o.profiling,
		profiler:         profiler.New(),
	}

	win, err := window.New(o.windowOpts...)
	if err != nil {
		return nil, rerr.Wrap(rerr.DeviceInit, 0, "open window", err)
	}
	c.win = win

	instance := wgpu.CreateInstance(nil)
	surface := instance.CreateSurface(surfaceDescriptorFrom(win))

	dev, err := device.New(
		device.WithInstance(instance),
		device.WithCompatibleSurface(surface),
		device.WithMaxBindGroups(o.maxBindGroups),
	)
	if err != nil {
		_ = win.Close()
		return nil, err
	}
	c.device = dev
	c.logger.Printf("render: opened %v, NUM_THREADS=%s", dev, numThreadsFromEnv())
	c.transfer = transfer.New(dev.Queue())
	// Layers report through this closure rather than a copy of c.onError,
	// so a later SetErrorCallback reaches them too.
	report := func(re *rerr.Error) {
		if c.onError != nil {
			c.onError(re)
			return
		}
		c.logger.Printf("render: %v", re)
	}
	c.dispatcher = dispatch.New(dev, c.manager, c.recorders, c.transfer, report)

	width, height := win.FramebufferSize()
	canvas := c.counter.Next()
	c.recorders.Create(canvas, o.backgroundColor)
	format := preferredSurfaceFormat(dev, surface)
	pres := present.New(dev, c.manager, c.recorders, c.transfer, canvas, surface, format, uint32(width), uint32(height), 1, report)
	pres.Configure(uint32(width), uint32(height))
	c.presenters[canvas] = pres

	c.addResizeListener(func(width, height int) {
		pres.Configure(uint32(width), uint32(height))
	})

	return c, nil
}

func surfaceDescriptorFrom(win window.Window) *wgpu.SurfaceDescriptor {
	return win.SurfaceDescriptor()
}

func preferredSurfaceFormat(dev device.Device, surface *wgpu.Surface) wgpu.TextureFormat {
	caps := surface.GetCapabilities(dev.Adapter())
	if len(caps.Formats) == 0 {
		return wgpu.TextureFormatBGRA8Unorm
	}
	return caps.Formats[0]
}

// BeginBatch returns a fresh Batch whose request IDs are drawn from this
// Context's process-wide counter.
func (c *Context) BeginBatch() *batch.Batch {
	return batch.New(c.counter)
}

// SubmitBatch applies every request in b, in order, to the manager,
// recorder and transfer engine, then frees b.
func (c *Context) SubmitBatch(b *batch.Batch) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dispatcher.Apply(b)
}

// SetErrorCallback installs the single error-reporting callback every
// layer funnels failures through. Passing nil routes errors to the log
// only.
func (c *Context) SetErrorCallback(cb rerr.Callback) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onError = cb
}

// OnFrame registers the per-iteration callback on the window; the window's
// own Run loop invokes it once per iteration. Context.Run and Frame do not
// invoke it.
func (c *Context) OnFrame(callback func(dt float32)) {
	c.win.OnFrame(callback)
}

// OnResize registers a window resize listener. Unlike window.Window's own
// OnResize (one callback slot, last registration wins), every listener
// added through Context fires on resize, so a client's callback never
// clobbers the internal swapchain-reconfigure listener Open installs.
func (c *Context) OnResize(callback func(width, height int)) {
	c.addResizeListener(callback)
}

// addResizeListener appends to the fan-out list, wiring the single
// window.Window resize slot to call every registered listener the first
// time one is added.
func (c *Context) addResizeListener(callback func(width, height int)) {
	c.mu.Lock()
	c.resizeListeners = append(c.resizeListeners, callback)
	first := len(c.resizeListeners) == 1
	c.mu.Unlock()

	if !first {
		return
	}
	c.win.OnResize(func(width, height int) {
		c.mu.Lock()
		listeners := append([]func(width, height int){}, c.resizeListeners...)
		c.mu.Unlock()
		for _, l := range listeners {
			l(width, height)
		}
	})
}

// OnMouse registers the pointer event listener.
func (c *Context) OnMouse(callback func(window.MouseEvent)) {
	c.win.OnMouse(callback)
}

// OnKeyboard registers the keyboard event listener.
func (c *Context) OnKeyboard(callback func(window.KeyboardEvent)) {
	c.win.OnKeyboard(callback)
}

// OnRequests registers the listener for protocol batches arriving
// out-of-band, ahead of SubmitBatch's direct call path.
func (c *Context) OnRequests(callback func(trace []byte)) {
	c.win.OnRequests(callback)
}

// Close tears down every layer in reverse creation order: GPU device last
// after the window (and the surface it owns) is gone.
func (c *Context) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.win.Close(); err != nil {
		c.logger.Printf("render: close window: %v", err)
	}
	c.device.Release()
	return nil
}
