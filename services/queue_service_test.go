package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnqueueIsIdempotentPerUser(t *testing.T) {
	q := NewQueueService()
	q.Enqueue("u1", "sock-1", nil)
	q.Enqueue("u1", "sock-2", []string{"chess"})

	assert.Equal(t, 1, q.Size())

	q.Enqueue("u2", "sock-3", nil)
	a, b, found := q.TryMatch()
	require.True(t, found)
	assert.Equal(t, "u1", a.UserID)
	assert.Equal(t, "sock-2", a.SocketID, "re-join should refresh the socket reference")
	assert.Equal(t, []string{"chess"}, a.HobbyFilters)
	assert.Equal(t, "u2", b.UserID)
}

func TestDequeueUnknownUserIsNoOp(t *testing.T) {
	q := NewQueueService()
	q.Dequeue("ghost")
	assert.Equal(t, 0, q.Size())
}

func TestTryMatchNeedsTwoEntries(t *testing.T) {
	q := NewQueueService()
	_, _, found := q.TryMatch()
	assert.False(t, found)

	q.Enqueue("u1", "sock-1", nil)
	_, _, found = q.TryMatch()
	assert.False(t, found)
	assert.Equal(t, 1, q.Size(), "unmatched entry stays queued")
}

func TestTryMatchInsertionOrderTieBreak(t *testing.T) {
	q := NewQueueService()
	q.Enqueue("u1", "s1", nil)
	q.Enqueue("u2", "s2", nil)
	q.Enqueue("u3", "s3", nil)

	a, b, found := q.TryMatch()
	require.True(t, found)
	assert.Equal(t, "u1", a.UserID)
	assert.Equal(t, "u2", b.UserID)
	assert.Equal(t, 1, q.Size())
}

func TestTryMatchOnePairPerInvocation(t *testing.T) {
	q := NewQueueService()
	q.Enqueue("u1", "s1", nil)
	q.Enqueue("u2", "s2", nil)
	q.Enqueue("u3", "s3", nil)
	q.Enqueue("u4", "s4", nil)

	a, b, found := q.TryMatch()
	require.True(t, found)
	assert.Equal(t, "u1", a.UserID)
	assert.Equal(t, "u2", b.UserID)
	assert.Equal(t, 2, q.Size())

	a, b, found = q.TryMatch()
	require.True(t, found)
	assert.Equal(t, "u3", a.UserID)
	assert.Equal(t, "u4", b.UserID)

	_, _, found = q.TryMatch()
	assert.False(t, found)
}

func TestTryMatchSkipsIncompatibleFilters(t *testing.T) {
	q := NewQueueService()
	q.Enqueue("u1", "s1", []string{"chess"})
	q.Enqueue("u2", "s2", []string{"hiking"})

	_, _, found := q.TryMatch()
	assert.False(t, found)
	assert.Equal(t, 2, q.Size())

	// A third user with no filter is compatible with the earliest entry
	q.Enqueue("u3", "s3", nil)
	a, b, found := q.TryMatch()
	require.True(t, found)
	assert.Equal(t, "u1", a.UserID)
	assert.Equal(t, "u3", b.UserID)
}

func TestTryMatchFilterIntersectionCaseInsensitive(t *testing.T) {
	q := NewQueueService()
	q.Enqueue("u1", "s1", []string{"Chess", "Hiking"})
	q.Enqueue("u2", "s2", []string{"hiking", "painting"})

	_, _, found := q.TryMatch()
	assert.True(t, found)
}

func TestCompatibleSymmetry(t *testing.T) {
	cases := []struct {
		name    string
		a, b    []string
		matches bool
	}{
		{"both unfiltered", nil, nil, true},
		{"one unfiltered", []string{"chess"}, nil, true},
		{"intersecting", []string{"chess", "hiking"}, []string{"HIKING"}, true},
		{"disjoint", []string{"chess"}, []string{"hiking"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := &QueueEntry{UserID: "a", HobbyFilters: tc.a}
			b := &QueueEntry{UserID: "b", HobbyFilters: tc.b}
			assert.Equal(t, tc.matches, compatible(a, b))
			assert.Equal(t, compatible(a, b), compatible(b, a))
		})
	}
}

func TestCompatibleNeverWithSelf(t *testing.T) {
	entry := &QueueEntry{UserID: "u1"}
	assert.False(t, compatible(entry, entry))
}

func TestEnqueueDropsBlankFilters(t *testing.T) {
	q := NewQueueService()
	q.Enqueue("u1", "s1", []string{" ", ""})
	q.Enqueue("u2", "s2", []string{"chess"})

	// Blank filters collapse to "no filter", so the pair is compatible
	_, _, found := q.TryMatch()
	assert.True(t, found)
}
