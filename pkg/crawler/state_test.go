package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sriram-PR/leakcrawl/pkg/models"
	"github.com/Sriram-PR/leakcrawl/pkg/storage"
)

func newTestState(t *testing.T) *CrawlState {
	t.Helper()
	store := storage.NewMemoryStore(testLogger())
	t.Cleanup(func() { _ = store.Close() })
	return newCrawlState("http://example.com", "example.com", 1, store)
}

func TestCrawlState_VisitedIsFinal(t *testing.T) {
	state := newTestState(t)
	const u = "http://example.com/a"

	added, err := state.claim(u, 1)
	require.NoError(t, err)
	require.True(t, added)

	require.NoError(t, state.recordVisited(u, 1, 200, &models.PageResult{}))

	err = state.recordFailed(u, 1, "Panic")
	assert.ErrorIs(t, err, errAlreadyFinal)
	err = state.recordVisited(u, 1, 500, &models.PageResult{})
	assert.ErrorIs(t, err, errAlreadyFinal)

	res := state.snapshot()
	assert.Contains(t, res.Pages, u)
	assert.Empty(t, res.Failed, "a visited page must not also be reported as failed")

	status, entry, err := state.store.CheckPageStatus(u)
	require.NoError(t, err)
	assert.Equal(t, models.PageStatusVisited, status)
	assert.Equal(t, 200, entry.StatusCode)
}

func TestCrawlState_FailedIsFinal(t *testing.T) {
	state := newTestState(t)
	const u = "http://example.com/b"

	_, err := state.claim(u, 0)
	require.NoError(t, err)
	require.NoError(t, state.recordFailed(u, 0, "Network_Timeout"))

	err = state.recordVisited(u, 0, 200, &models.PageResult{})
	assert.ErrorIs(t, err, errAlreadyFinal)

	res := state.snapshot()
	assert.NotContains(t, res.Pages, u)
	assert.Equal(t, "Network_Timeout", res.Failed[u])
}
