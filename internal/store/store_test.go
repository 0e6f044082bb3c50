package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestVisitors(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, s.RecordVisit(ctx, VisitorMetric{HashedIP: "aaaa", Path: "/", Timestamp: now.Add(-time.Minute)}))
	require.NoError(t, s.RecordVisit(ctx, VisitorMetric{HashedIP: "aaaa", Path: "/journey", Timestamp: now}))
	require.NoError(t, s.RecordVisit(ctx, VisitorMetric{HashedIP: "bbbb", Path: "/", Timestamp: now.AddDate(0, -13, 0)}))

	recent, err := s.RecentVisits(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "/journey", recent[0].Path)
	assert.WithinDuration(t, now, recent[0].Timestamp, time.Second)

	deleted, err := s.CleanupVisits(ctx, now.AddDate(0, -12, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	recent, err = s.RecentVisits(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

func TestMessages(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	require.NoError(t, s.SaveMessage(ctx, Message{ID: "m1", Name: "Ann", Email: "ann@example.com", Body: "hello"}))
	require.NoError(t, s.SaveMessage(ctx, Message{ID: "m2", Body: "second", CreatedAt: time.Now().Add(time.Second)}))

	m, err := s.GetMessage(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, m.Status)
	assert.Equal(t, "hello", m.Body)

	require.NoError(t, s.UpdateMessageStatus(ctx, "m1", StatusFailed, "smtp down"))
	m, err = s.GetMessage(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, m.Status)
	assert.Equal(t, "smtp down", m.Error)

	assert.ErrorIs(t, s.UpdateMessageStatus(ctx, "missing", StatusSent, ""), ErrNotFound)
	_, err = s.GetMessage(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	messages, err := s.RecentMessages(ctx, 10)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "m2", messages[0].ID)
}

func TestStats(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, v := range []VisitorMetric{
		{HashedIP: "a", Path: "/", Timestamp: now},
		{HashedIP: "a", Path: "/journey", Timestamp: now},
		{HashedIP: "b", Path: "/", Timestamp: now},
		{HashedIP: "c", Path: "/", Timestamp: now.AddDate(0, 0, -30)},
	} {
		require.NoError(t, s.RecordVisit(ctx, v))
	}
	require.NoError(t, s.SaveMessage(ctx, Message{ID: "m1", Body: "hi"}))
	require.NoError(t, s.SaveMessage(ctx, Message{ID: "m2", Body: "hi", Status: StatusSent}))

	stats, err := s.Stats(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalVisitors)
	assert.Equal(t, int64(3), stats.UniqueVisitors)
	assert.Equal(t, int64(3), stats.VisitorsThisWeek)
	assert.Equal(t, int64(2), stats.TotalMessages)
	assert.Equal(t, int64(1), stats.PendingMessages)
	require.NotEmpty(t, stats.TopPaths)
	assert.Equal(t, PathStat{Path: "/", Views: 3}, stats.TopPaths[0])
	assert.Len(t, stats.RecentVisitors, 4)
}
