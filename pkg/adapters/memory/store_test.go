package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/ports"
)

func TestStore_Contract(t *testing.T) {
	ports.RunProfileStoreContract(t, NewStore())
}

func TestStore_SaveCopies(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	profile := domain.NewProfile()
	profile.Set("flag", "before")
	require.NoError(t, store.Save(ctx, "111", profile))

	// Mutations after Save must not leak into the stored copy.
	profile.Set("flag", "after")

	loaded, err := store.Load(ctx, "111")
	require.NoError(t, err)
	assert.Equal(t, "before", loaded.GetString("flag", ""))
}
