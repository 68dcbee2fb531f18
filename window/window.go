// package window is the backend-agnostic windowing and input layer: a
// Window interface any presentation backend can satisfy, with a GLFW
// implementation that also synthesizes drag events and tracks modifier
// state independently of individual key state.
package window

import "github.com/cogentcore/webgpu/wgpu"

// Window is the backend-agnostic surface this protocol presents into.
// Every method is safe to call only from the thread that created the
// window, matching GLFW's own threading constraint.
type Window interface {
	// PollEvents processes pending OS input without blocking, dispatching
	// to whichever typed callbacks are registered.
	PollEvents()

	// Run blocks, calling PollEvents once per iteration and invoking the
	// on_frame callback (if any) after each poll, until ShouldClose or
	// Close is called.
	Run()

	// ShouldClose reports whether the window has received a close request.
	ShouldClose() bool

	// FramebufferSize returns the current framebuffer extent in pixels,
	// which may differ from the window size on high-DPI displays.
	FramebufferSize() (width, height int)

	// ContentScale returns the ratio between framebuffer pixels and
	// window-manager logical units, for scaling UI content consistently.
	ContentScale() (x, y float32)

	// SurfaceDescriptor returns a platform-appropriate wgpu.SurfaceDescriptor
	// for creating a WebGPU presentation surface against this window.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Close tears down platform resources. Safe to call more than once.
	Close() error

	// OnMouse registers the listener for pointer move/button/wheel/drag
	// events. A nil callback disables dispatch.
	OnMouse(callback func(MouseEvent))

	// OnKeyboard registers the listener for key press/release events.
	OnKeyboard(callback func(KeyboardEvent))

	// OnFrame registers the callback Run invokes once per loop iteration,
	// receiving the elapsed time in seconds since the previous iteration.
	OnFrame(callback func(dt float32))

	// OnResize registers the listener for framebuffer resize events.
	OnResize(callback func(width, height int))

	// OnRequests registers the listener for protocol request batches
	// arriving out-of-band (e.g. over a socket or pipe feeding this
	// window's render thread), delivered as an encoded batch trace the
	// caller decodes with render/batch.Decode.
	OnRequests(callback func(trace []byte))
}
