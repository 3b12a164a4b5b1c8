package pets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedSkipsExistingNames(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository()

	_, err := repo.Create(ctx, NewPet{Name: "buddy", Species: "Dog"})
	require.NoError(t, err)

	added, err := Seed(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, len(SamplePets)-1, added)

	again, err := Seed(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, 0, again)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(SamplePets))
}
