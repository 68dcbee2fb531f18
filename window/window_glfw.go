package window

import (
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow is the GLFW-backed Window implementation. GLFW requires every
// call to originate from the thread that created the window, so New locks
// the calling goroutine to its OS thread for the window's lifetime.
type glfwWindow struct {
	win *glfw.Window

	mods Modifier

	dragging     bool
	dragButton   MouseButton
	downX, downY float64
	lastX, lastY float64

	onMouse    func(MouseEvent)
	onKeyboard func(KeyboardEvent)
	onFrame    func(dt float32)
	onResize   func(width, height int)
	onRequests func(trace []byte)
}

var _ Window = (*glfwWindow)(nil)

// New creates and shows a GLFW window, applying the given options.
func New(opts ...BuilderOption) (Window, error) {
	runtime.LockOSThread()

	c := defaultConfig()
	for _, opt := range opts {
		opt(c)
	}

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("window: init GLFW: %w", err)
	}

	// WebGPU owns its own presentation surface; GLFW must not create one.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(c.width, c.height, c.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("window: create GLFW window: %w", err)
	}
	win.SetSizeLimits(c.minWidth, c.minHeight, c.maxWidth, c.maxHeight)

	w := &glfwWindow{win: win}
	w.registerCallbacks()
	return w, nil
}

func (w *glfwWindow) registerCallbacks() {
	w.win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		w.mods = modifierFrom(mods)
		if w.onKeyboard == nil || action == glfw.Repeat {
			return
		}
		w.onKeyboard(KeyboardEvent{Key: keyFrom(key), Pressed: action == glfw.Press, Mods: w.mods})
	})

	w.win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		w.mods = modifierFrom(mods)
		btn := mouseButtonFrom(button)
		x, y := w.win.GetCursorPos()

		switch action {
		case glfw.Press:
			w.downX, w.downY = x, y
			w.dispatchMouse(MouseEvent{Kind: MouseButtonDown, X: x, Y: y, Button: btn, Mods: w.mods})
		case glfw.Release:
			if w.dragging && w.dragButton == btn {
				w.dragging = false
				w.dispatchMouse(MouseEvent{Kind: MouseDragStop, X: x, Y: y, Button: btn, Mods: w.mods})
			}
			w.dispatchMouse(MouseEvent{Kind: MouseButtonUp, X: x, Y: y, Button: btn, Mods: w.mods})
		}
	})

	w.win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		defer func() { w.lastX, w.lastY = x, y }()

		if w.win.GetMouseButton(glfw.MouseButtonLeft) == glfw.Press {
			w.trackDrag(MouseButtonLeft, x, y)
		} else if w.win.GetMouseButton(glfw.MouseButtonMiddle) == glfw.Press {
			w.trackDrag(MouseButtonMiddle, x, y)
		} else if w.win.GetMouseButton(glfw.MouseButtonRight) == glfw.Press {
			w.trackDrag(MouseButtonRight, x, y)
		} else {
			w.dispatchMouse(MouseEvent{Kind: MouseMove, X: x, Y: y, Mods: w.mods})
		}
	})

	w.win.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		x, y := w.win.GetCursorPos()
		w.dispatchMouse(MouseEvent{Kind: MouseWheel, X: x, Y: y, Wheel: float32(yoff), Mods: w.mods})
	})

	w.win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		if w.onResize != nil {
			w.onResize(width, height)
		}
	})
}

// trackDrag synthesizes drag-start/drag events once the pointer has moved
// past dragThresholdPixels from its button-down position while btn is held.
func (w *glfwWindow) trackDrag(btn MouseButton, x, y float64) {
	if !w.dragging {
		dx, dy := x-w.downX, y-w.downY
		if math.Hypot(dx, dy) < dragThresholdPixels {
			return
		}
		w.dragging = true
		w.dragButton = btn
		w.dispatchMouse(MouseEvent{Kind: MouseDragStart, X: x, Y: y, Button: btn, Mods: w.mods})
		return
	}
	if w.dragButton == btn {
		w.dispatchMouse(MouseEvent{Kind: MouseDrag, X: x, Y: y, Button: btn, Mods: w.mods})
	}
}

func (w *glfwWindow) dispatchMouse(ev MouseEvent) {
	if w.onMouse != nil {
		w.onMouse(ev)
	}
}

func (w *glfwWindow) PollEvents() {
	glfw.PollEvents()
}

func (w *glfwWindow) Run() {
	last := time.Now()
	for !w.ShouldClose() {
		w.PollEvents()
		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now
		if w.onFrame != nil {
			w.onFrame(dt)
		}
		runtime.Gosched()
	}
}

func (w *glfwWindow) ShouldClose() bool {
	return w.win.ShouldClose()
}

func (w *glfwWindow) FramebufferSize() (int, int) {
	return w.win.GetFramebufferSize()
}

func (w *glfwWindow) ContentScale() (float32, float32) {
	return w.win.GetContentScale()
}

func (w *glfwWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(w.win)
}

func (w *glfwWindow) Close() error {
	w.win.Destroy()
	glfw.Terminate()
	return nil
}

func (w *glfwWindow) OnMouse(callback func(MouseEvent))       { w.onMouse = callback }
func (w *glfwWindow) OnKeyboard(callback func(KeyboardEvent))  { w.onKeyboard = callback }
func (w *glfwWindow) OnFrame(callback func(dt float32))        { w.onFrame = callback }
func (w *glfwWindow) OnResize(callback func(width, height int)) { w.onResize = callback }
func (w *glfwWindow) OnRequests(callback func(trace []byte))    { w.onRequests = callback }

// DeliverRequests hands trace to the registered on_requests listener, for a
// transport (socket, pipe, in-process channel) feeding batches into this
// window's render thread from outside the input callbacks above.
func (w *glfwWindow) DeliverRequests(trace []byte) {
	if w.onRequests != nil {
		w.onRequests(trace)
	}
}
