package main

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/aurorarender/protocol/render"
	"github.com/aurorarender/protocol/render/batch"
	"github.com/aurorarender/protocol/render/rerr"
	"github.com/aurorarender/protocol/window"
)

// runDemo opens a window, submits one batch that allocates and uploads a
// small uniform buffer, then drives the frame loop for the requested
// number of frames (or until the window is closed, if frames <= 0).
func runDemo(frames int) (int, error) {
	ctx, err := render.Open(
		render.WithWindow(window.WithTitle("render-cli demo"), window.WithSize(1024, 768)),
		render.WithProfiling(true),
		render.WithBackgroundColor(wgpu.Color{R: 1, G: 1, B: 1, A: 1}),
	)
	if err != nil {
		return 1, fmt.Errorf("open: %w", err)
	}
	defer ctx.Close()

	ctx.SetErrorCallback(func(re *rerr.Error) {
		fmt.Printf("render error: %v\n", re)
	})

	b := ctx.BeginBatch()
	dat := b.CreateDat(batch.BufferUniform, 64, false, 0)
	b.Upload(batch.ObjectDat, dat, 0, make([]byte, 64))
	ctx.SubmitBatch(b)

	ctx.Run(frames)
	return 0, nil
}
