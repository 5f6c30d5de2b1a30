package notifications_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/realtime/pkg/notifications"
)

func TestMemoryStore_DrainExactlyOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := notifications.NewMemoryStore()

	n1 := notifications.Notification{ID: "n1", Type: notifications.TypeTaskCreated}
	n2 := notifications.Notification{ID: "n2", Type: notifications.TypeTaskUpdated}
	require.NoError(t, store.Append(ctx, "user-1", n1))
	require.NoError(t, store.Append(ctx, "user-1", n2))

	drained, err := store.Drain(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, drained, 2)
	assert.Equal(t, "n1", drained[0].ID, "insertion order preserved")
	assert.Equal(t, "n2", drained[1].ID)

	again, err := store.Drain(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, again, "second drain without intervening append is empty")
}

func TestMemoryStore_DrainUnknownUser(t *testing.T) {
	t.Parallel()

	store := notifications.NewMemoryStore()
	drained, err := store.Drain(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, drained)
}

func TestMemoryStore_BuffersAreIsolatedPerUser(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := notifications.NewMemoryStore()

	require.NoError(t, store.Append(ctx, "user-1", notifications.Notification{ID: "a"}))
	require.NoError(t, store.Append(ctx, "user-2", notifications.Notification{ID: "b"}))

	drained, err := store.Drain(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, drained, 1)
	assert.Equal(t, "a", drained[0].ID)

	other, err := store.Drain(ctx, "user-2")
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, "b", other[0].ID)
}

func TestMemoryStore_Clear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := notifications.NewMemoryStore()

	require.NoError(t, store.Append(ctx, "user-1", notifications.Notification{ID: "a"}))
	require.NoError(t, store.Clear(ctx, "user-1"))

	drained, err := store.Drain(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, drained)
}

func TestMemoryStore_CapDropsOldest(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := notifications.NewMemoryStore(notifications.WithMaxPerUser(3))

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(ctx, "user-1", notifications.Notification{
			ID: fmt.Sprintf("n%d", i),
		}))
	}

	drained, err := store.Drain(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, drained, 3)
	assert.Equal(t, "n2", drained[0].ID, "oldest entries dropped first")
	assert.Equal(t, "n4", drained[2].ID)
}
