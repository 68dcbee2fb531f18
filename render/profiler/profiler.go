// package profiler tracks the protocol's frame loop rate and heap
// statistics, logging a summary once per update interval.
package profiler

import (
	"log"
	"runtime"
	"time"
)

// Profiler accumulates frame counts between ticks and reports FPS, heap
// usage and GC pause stats once updateInterval has elapsed.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	logger         *log.Logger
}

// New returns a Profiler that reports once per second through the default
// logger.
func New() *Profiler {
	return &Profiler{
		updateInterval: time.Second,
		logger:         log.Default(),
	}
}

// Tick should be called once per presented frame. It returns true when a
// summary was logged this call.
func (p *Profiler) Tick() bool {
	if p.lastTime.IsZero() {
		p.lastTime = time.Now()
	}
	p.frameCount++
	now := time.Now()
	elapsed := now.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()
	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024

	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000
		start := p.lastGCCount
		if gcCount-start > 256 {
			start = gcCount - 256
		}
		for i := start; i < gcCount; i++ {
			if pause := p.memStats.PauseNs[i%256] / 1000; pause > maxPauseUs {
				maxPauseUs = pause
			}
		}
	}

	p.logger.Printf("render frame stats: fps=%.2f heap=%.2fMB alloc_rate=%.2fMB/s gc=%d last_pause=%dus max_pause=%dus sys=%.2fMB",
		fps, allocMB, allocRateMB, gcCount, lastPauseUs, maxPauseUs, sysMB)

	p.frameCount = 0
	p.lastTime = now
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
