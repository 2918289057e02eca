package persist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileBackend_RoundTrip(t *testing.T) {
	backend, err := NewFileBackend(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, backend.Save(ctx, SlotReminders, []byte(`[{"id":"R001"}]`)))

	blob, ok, err := backend.Load(ctx, SlotReminders)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"R001"}]`, string(blob))
}

func TestFileBackend_AbsentSlot(t *testing.T) {
	backend, err := NewFileBackend(t.TempDir())
	require.NoError(t, err)

	blob, ok, err := backend.Load(context.Background(), SlotWorkOrders)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, blob)
}

func TestFileBackend_Overwrite(t *testing.T) {
	backend, err := NewFileBackend(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, backend.Save(ctx, SlotReminderCounter, []byte("3")))
	require.NoError(t, backend.Save(ctx, SlotReminderCounter, []byte("4")))

	blob, ok, err := backend.Load(ctx, SlotReminderCounter)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "4", string(blob))
}
