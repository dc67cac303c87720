package registry

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shellbox/internal/backend"
)

func testSession(id, owner string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:           id,
		Owner:        owner,
		Handle:       "ctr-" + id,
		Image:        "alpine:3.20",
		Mode:         backend.ModeReal,
		CreatedAt:    now,
		LastAccessed: now,
	}
}

func TestReserveBound(t *testing.T) {
	r := New(2)

	assert.True(t, r.Reserve())
	assert.True(t, r.Reserve())
	assert.False(t, r.Reserve(), "third slot exceeds capacity")

	r.Release()
	assert.True(t, r.Reserve())
}

func TestReserveCountsRegisteredSessions(t *testing.T) {
	r := New(2)

	require.True(t, r.Reserve())
	r.Insert(testSession("s1", "alice"))

	require.True(t, r.Reserve())
	assert.False(t, r.Reserve(), "one registered + one reserved fills capacity 2")
}

func TestConcurrentReserveNeverExceedsMax(t *testing.T) {
	const max = 5
	r := New(max)

	var wg sync.WaitGroup
	granted := make(chan string, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if r.Reserve() {
				id := fmt.Sprintf("s%d", n)
				r.Insert(testSession(id, "alice"))
				granted <- id
			}
		}(i)
	}
	wg.Wait()
	close(granted)

	assert.Len(t, granted, max)
	assert.Equal(t, max, r.Active())
}

func TestRemoveReportsOnce(t *testing.T) {
	r := New(5)
	r.Insert(testSession("s1", "alice"))

	_, ok := r.Remove("s1")
	assert.True(t, ok)
	assert.Equal(t, 0, r.Active())

	_, ok = r.Remove("s1")
	assert.False(t, ok, "second remove must report nothing removed")

	_, ok = r.Remove("never-existed")
	assert.False(t, ok)
}

func TestRemoveFreesSlot(t *testing.T) {
	r := New(1)

	require.True(t, r.Reserve())
	r.Insert(testSession("s1", "alice"))
	require.False(t, r.Reserve())

	r.Remove("s1")
	assert.True(t, r.Reserve())
}

func TestGetReturnsSnapshot(t *testing.T) {
	r := New(5)
	r.Insert(testSession("s1", "alice"))
	r.AppendLog("s1", LogEntry{Command: "echo hi"})

	snap, ok := r.Get("s1")
	require.True(t, ok)

	// Mutating the snapshot must not bleed into the registry.
	snap.Owner = "mallory"
	snap.RecentLog[0].Command = "rm -rf /"

	cur, _ := r.Get("s1")
	assert.Equal(t, "alice", cur.Owner)
	assert.Equal(t, "echo hi", cur.RecentLog[0].Command)
}

func TestListByOwner(t *testing.T) {
	r := New(5)
	r.Insert(testSession("s1", "alice"))
	r.Insert(testSession("s2", "alice"))
	r.Insert(testSession("s3", "bob"))

	assert.Len(t, r.ListByOwner("alice"), 2)
	assert.Len(t, r.ListByOwner("bob"), 1)
	assert.Empty(t, r.ListByOwner("carol"))
	assert.Len(t, r.List(), 3)
}

func TestRecordActivity(t *testing.T) {
	r := New(5)
	sess := testSession("s1", "alice")
	sess.LastAccessed = time.Now().UTC().Add(-time.Hour)
	r.Insert(sess)

	require.True(t, r.RecordActivity("s1"))

	cur, _ := r.Get("s1")
	assert.Equal(t, 1, cur.CommandCount)
	assert.WithinDuration(t, time.Now(), cur.LastAccessed, time.Second)
	assert.False(t, cur.LastAccessed.Before(cur.CreatedAt))

	assert.False(t, r.RecordActivity("nope"))
}

func TestDowngrade(t *testing.T) {
	r := New(5)
	r.Insert(testSession("s1", "alice"))

	require.True(t, r.Downgrade("s1"))

	cur, _ := r.Get("s1")
	assert.Equal(t, backend.ModeMock, cur.Mode)

	assert.False(t, r.Downgrade("nope"))
}

func TestAppendLogRing(t *testing.T) {
	r := New(5)
	r.Insert(testSession("s1", "alice"))

	for i := 0; i < RecentLogCap+3; i++ {
		r.AppendLog("s1", LogEntry{Command: fmt.Sprintf("cmd-%d", i)})
	}

	cur, _ := r.Get("s1")
	require.Len(t, cur.RecentLog, RecentLogCap)
	assert.Equal(t, fmt.Sprintf("cmd-%d", RecentLogCap+2), cur.RecentLog[0].Command)
	assert.Equal(t, "cmd-3", cur.RecentLog[RecentLogCap-1].Command)
}
