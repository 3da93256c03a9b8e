package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"crucible-api/store"
)

const (
	walletAda   = "0x52908400098527886E0F7030069857D2E4169EE7"
	walletGrace = "0x8617E340B3D01FA5F11F306F4090FD50E238070D"
	walletLinus = "0xde709f2102306220921060314715629080e2fb77"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newDocs(t *testing.T) *store.Documents {
	t.Helper()
	return store.NewDocuments(store.NewMemoryBackend())
}

func requireKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, KindOf(err), "unexpected error: %v", err)
}

func intPtr(v int) *int { return &v }

func scorePtr(v float64) *float64 { return &v }
