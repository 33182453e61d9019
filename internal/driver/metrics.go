package driver

import (
	"fmt"
	"sync/atomic"
)

// parallelMetrics tracks what the workers did during one Run.
type parallelMetrics struct {
	// Worker pool metrics
	workersActive    atomic.Int32 // Currently running workers
	workersPeak      atomic.Int32
	workersCompleted atomic.Int64 // Total completed files

	// Cache metrics
	memHits    atomic.Int64
	diskHits   atomic.Int64
	diskMisses atomic.Int64
	diskErrors atomic.Int64

	renders        atomic.Int64
	renderFailures atomic.Int64
	rewrites       atomic.Int64
}

// MetricsSnapshot is a copy of the counters after Run.
type MetricsSnapshot struct {
	Completed      int64
	PeakWorkers    int32
	MemHits        int64
	DiskHits       int64
	DiskMisses     int64
	DiskErrors     int64
	Renders        int64
	RenderFailures int64
	Rewrites       int64
}

func (pm *parallelMetrics) enter() {
	n := pm.workersActive.Add(1)
	for {
		peak := pm.workersPeak.Load()
		if n <= peak || pm.workersPeak.CompareAndSwap(peak, n) {
			return
		}
	}
}

func (pm *parallelMetrics) leave() {
	pm.workersActive.Add(-1)
	pm.workersCompleted.Add(1)
}

func (pm *parallelMetrics) snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Completed:      pm.workersCompleted.Load(),
		PeakWorkers:    pm.workersPeak.Load(),
		MemHits:        pm.memHits.Load(),
		DiskHits:       pm.diskHits.Load(),
		DiskMisses:     pm.diskMisses.Load(),
		DiskErrors:     pm.diskErrors.Load(),
		Renders:        pm.renders.Load(),
		RenderFailures: pm.renderFailures.Load(),
		Rewrites:       pm.rewrites.Load(),
	}
}

// String outputs all collected metrics in one line (trace detail).
func (m MetricsSnapshot) String() string {
	diskTotal := m.DiskHits + m.DiskMisses
	diskHitRate := 0.0
	if diskTotal > 0 {
		diskHitRate = float64(m.DiskHits) / float64(diskTotal) * 100
	}
	return fmt.Sprintf(
		"workers: %d completed, peak %d | cache: mem=%d, disk=%d/%d (%.1f%%), errors=%d | render: %d (%d failed) | rewrites: %d",
		m.Completed, m.PeakWorkers,
		m.MemHits, m.DiskHits, diskTotal, diskHitRate, m.DiskErrors,
		m.Renders, m.RenderFailures, m.Rewrites,
	)
}
