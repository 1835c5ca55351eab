package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/switchboard/pkg/domain"
)

// RunProfileStoreContract runs a suite of tests to verify that a
// ProfileStore implementation adheres to the defined interface contract.
func RunProfileStoreContract(t *testing.T, store ProfileStore) {
	ctx := context.Background()
	identity := "contract-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		profile := domain.NewProfile()
		profile.CurrentState = "intro"
		profile.Set("ussd_sessions", 3)
		profile.SetAnswer("fname", "John")

		err := store.Save(ctx, identity, profile)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, identity)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, "intro", loaded.CurrentState)
		assert.Equal(t, 3, loaded.GetInt("ussd_sessions", 0))
		assert.Equal(t, "John", loaded.Answer("fname"))
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+identity)
		assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, identity, domain.NewProfile())
		require.NoError(t, err)

		err = store.Delete(ctx, identity)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, identity)
		assert.ErrorIs(t, err, domain.ErrProfileNotFound, "Load after Delete should return ErrProfileNotFound")
	})
}

// RunCounterStoreContract verifies the atomic increment contract.
func RunCounterStoreContract(t *testing.T, counters CounterStore) {
	ctx := context.Background()
	key := "contract-counter-" + time.Now().Format("20060102150405")

	v, err := counters.Incr(ctx, key, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	v, err = counters.Incr(ctx, key, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(5), v)
}
