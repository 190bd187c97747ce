package observability

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMonitor_Counters(t *testing.T) {
	req := require.New(t)
	m := NewMonitor(slog.Default())

	m.IncRequest()
	m.IncRequest()
	m.IncError()
	m.IncPostCreated()
	m.IncLike()
	m.IncUnlike()
	m.IncComment()

	stats := m.Snapshot()
	req.Equal(uint64(2), stats.Requests)
	req.Equal(uint64(1), stats.Errors)
	req.Equal(uint64(1), stats.PostsCreated)
	req.Equal(uint64(1), stats.Likes)
	req.Equal(uint64(1), stats.Unlikes)
	req.Equal(uint64(1), stats.Comments)
	req.Positive(stats.Goroutines)
}

func TestMonitor_StatsProvider(t *testing.T) {
	req := require.New(t)
	m := NewMonitor(slog.Default())
	m.IncPostCreated()

	provided := m.StatsProvider()
	req.Equal(uint64(1), provided["posts_created"])
	req.Contains(provided, "cpu_percent")
	req.Contains(provided, "uptime_sec")
}
