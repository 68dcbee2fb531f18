package render

import (
	"log"
	"os"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/aurorarender/protocol/render/rerr"
	"github.com/aurorarender/protocol/window"
)

// Option configures a Context at Open time, following the same
// functional-option style every layer in this module uses.
type Option func(*options)

type options struct {
	logger          *log.Logger
	onError         rerr.Callback
	maxBindGroups   uint32
	profiling       bool
	windowOpts      []window.BuilderOption
	backgroundColor wgpu.Color
}

func defaultOptions() *options {
	return &options{
		logger:          log.Default(),
		maxBindGroups:   4,
		backgroundColor: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
	}
}

// WithLogger overrides the default logger every layer writes diagnostics
// to.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithErrorCallback installs the error callback from Open, equivalent to
// calling Context.SetErrorCallback immediately after.
func WithErrorCallback(cb rerr.Callback) Option {
	return func(o *options) { o.onError = cb }
}

// WithMaxBindGroups raises the device's bind group limit above the WebGPU
// default for pipelines needing more than four descriptor slots.
func WithMaxBindGroups(n uint32) Option {
	return func(o *options) { o.maxBindGroups = n }
}

// WithProfiling enables periodic frame-rate/memory logging via
// render/profiler.
func WithProfiling(enabled bool) Option {
	return func(o *options) { o.profiling = enabled }
}

// WithWindow passes through window construction options (title, size,
// size limits) to window.New.
func WithWindow(opts ...window.BuilderOption) Option {
	return func(o *options) { o.windowOpts = append(o.windowOpts, opts...) }
}

// WithBackgroundColor sets the clear color for the Context's initial
// window canvas. Defaults to opaque black.
func WithBackgroundColor(c wgpu.Color) Option {
	return func(o *options) { o.backgroundColor = c }
}

// numThreadsFromEnv mirrors internal/workerpool's NUM_THREADS reading, used
// only for logging the effective worker count at Open time.
func numThreadsFromEnv() string {
	if v := os.Getenv("NUM_THREADS"); v != "" {
		return v
	}
	return "unset (defaulting to NumCPU-1)"
}
