package observability

import (
	"log/slog"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/process"
)

// Stats is a point-in-time snapshot of the service counters plus process
// and runtime level metrics, consumed by the debug inspector.
type Stats struct {
	Requests     uint64  `json:"requests"`
	Errors       uint64  `json:"errors"`
	PostsCreated uint64  `json:"posts_created"`
	PostsDeleted uint64  `json:"posts_deleted"`
	Likes        uint64  `json:"likes"`
	Unlikes      uint64  `json:"unlikes"`
	Comments     uint64  `json:"comments"`
	CPUPercent   float64 `json:"cpu_percent"`
	RAMPercent   float32 `json:"ram_percent"`
	AllocMemMb   uint64  `json:"alloc_mem_mb"`
	NumGC        uint32  `json:"num_gc"`
	Goroutines   int     `json:"goroutines"`
	UptimeSec    int64   `json:"uptime_sec"`
}

// Monitor aggregates telemetry with atomic counters; it is safe for
// concurrent use from every request handler.
type Monitor struct {
	log     *slog.Logger
	proc    *process.Process
	started time.Time

	requests     atomic.Uint64
	errors       atomic.Uint64
	postsCreated atomic.Uint64
	postsDeleted atomic.Uint64
	likes        atomic.Uint64
	unlikes      atomic.Uint64
	comments     atomic.Uint64
}

func NewMonitor(log *slog.Logger) *Monitor {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		// Snapshot degrades to runtime metrics only.
		log.Warn("Process telemetry unavailable", "error", err)
		proc = nil
	}
	return &Monitor{log: log, proc: proc, started: time.Now()}
}

func (m *Monitor) IncRequest()     { m.requests.Add(1) }
func (m *Monitor) IncError()       { m.errors.Add(1) }
func (m *Monitor) IncPostCreated() { m.postsCreated.Add(1) }
func (m *Monitor) IncPostDeleted() { m.postsDeleted.Add(1) }
func (m *Monitor) IncLike()        { m.likes.Add(1) }
func (m *Monitor) IncUnlike()      { m.unlikes.Add(1) }
func (m *Monitor) IncComment()     { m.comments.Add(1) }

// Snapshot gathers the counters and samples the process on demand.
func (m *Monitor) Snapshot() Stats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	stats := Stats{
		Requests:     m.requests.Load(),
		Errors:       m.errors.Load(),
		PostsCreated: m.postsCreated.Load(),
		PostsDeleted: m.postsDeleted.Load(),
		Likes:        m.likes.Load(),
		Unlikes:      m.unlikes.Load(),
		Comments:     m.comments.Load(),
		AllocMemMb:   mem.Alloc / 1024 / 1024,
		NumGC:        mem.NumGC,
		Goroutines:   runtime.NumGoroutine(),
		UptimeSec:    int64(time.Since(m.started).Seconds()),
	}

	if m.proc != nil {
		if cpu, err := m.proc.CPUPercent(); err == nil {
			stats.CPUPercent = cpu
		}
		if ram, err := m.proc.MemoryPercent(); err == nil {
			stats.RAMPercent = ram
		}
	}
	return stats
}

// StatsProvider adapts Snapshot to the map shape the debug inspector
// template expects.
func (m *Monitor) StatsProvider() map[string]any {
	s := m.Snapshot()
	return map[string]any{
		"requests":      s.Requests,
		"errors":        s.Errors,
		"posts_created": s.PostsCreated,
		"posts_deleted": s.PostsDeleted,
		"likes":         s.Likes,
		"unlikes":       s.Unlikes,
		"comments":      s.Comments,
		"cpu_percent":   s.CPUPercent,
		"ram_percent":   s.RAMPercent,
		"alloc_mem_mb":  s.AllocMemMb,
		"goroutines":    s.Goroutines,
		"uptime_sec":    s.UptimeSec,
	}
}
