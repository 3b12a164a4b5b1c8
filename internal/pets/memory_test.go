package pets

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository() *MemoryRepository {
	repo := NewMemoryRepository()
	base := time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return repo
}

func TestMemoryCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository()

	created, err := repo.Create(ctx, NewPet{Name: "  Rex ", Species: "Dog", Breed: strPtr("Beagle"), Age: intPtr(4)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "Rex", created.Name)
	assert.False(t, created.IsAdopted)
	assert.Nil(t, created.Description)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	*got.Breed = "Changed"
	again, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Beagle", *again.Breed)
}

func TestMemoryCreateValidation(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository()

	tests := []struct {
		name    string
		data    NewPet
		message string
	}{
		{"missing name", NewPet{Species: "Dog"}, "Name and species are required"},
		{"blank species", NewPet{Name: "Rex", Species: "   "}, "Name and species are required"},
		{"age too high", NewPet{Name: "Rex", Species: "Dog", Age: intPtr(51)}, "Age must be between 0 and 50"},
		{"negative age", NewPet{Name: "Rex", Species: "Dog", Age: intPtr(-1)}, "Age must be between 0 and 50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.Create(ctx, tt.data)
			require.Error(t, err)
			assert.Equal(t, KindInvalidInput, KindOf(err))
			assert.Equal(t, tt.message, err.Error())
		})
	}

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestMemoryGetAllNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository()

	for _, name := range []string{"A", "B", "C"} {
		_, err := repo.Create(ctx, NewPet{Name: name, Species: "Cat"})
		require.NoError(t, err)
	}

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "C", all[0].Name)
	assert.Equal(t, "A", all[2].Name)
}

func TestMemoryUpdate(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository()

	created, err := repo.Create(ctx, NewPet{Name: "Rex", Species: "Dog"})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, created.ID, Update{Age: intPtr(5), Description: strPtr("Good boy")})
	require.NoError(t, err)
	assert.Equal(t, 5, *updated.Age)
	assert.Equal(t, "Good boy", *updated.Description)
	assert.Equal(t, "Rex", updated.Name)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	unchanged, err := repo.Update(ctx, created.ID, Update{})
	require.NoError(t, err)
	assert.Equal(t, updated.UpdatedAt, unchanged.UpdatedAt)

	_, err = repo.Update(ctx, created.ID, Update{Name: strPtr(" ")})
	assert.Equal(t, KindInvalidInput, KindOf(err))

	_, err = repo.Update(ctx, 99, Update{Age: intPtr(1)})
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "Pet with ID 99 not found", err.Error())
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository()

	created, err := repo.Create(ctx, NewPet{Name: "Rex", Species: "Dog"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.GetByID(ctx, created.ID)
	assert.True(t, IsNotFound(err))
	assert.True(t, IsNotFound(repo.Delete(ctx, created.ID)))
}

func TestMemoryAdopt(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository()

	created, err := repo.Create(ctx, NewPet{Name: "Rex", Species: "Dog"})
	require.NoError(t, err)

	adopted, err := repo.Adopt(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, adopted.IsAdopted)

	_, err = repo.Adopt(ctx, created.ID)
	assert.True(t, IsConflict(err))
	assert.Equal(t, "Rex is already adopted", err.Error())

	_, err = repo.Adopt(ctx, 42)
	assert.True(t, IsNotFound(err))
}

func TestMemoryAdoptConcurrently(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository()

	created, err := repo.Create(ctx, NewPet{Name: "Rex", Species: "Dog"})
	require.NoError(t, err)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.Adopt(ctx, created.ID); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, successes)
}

func TestMemoryFindByName(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository()

	_, err := repo.Create(ctx, NewPet{Name: "Maxwell", Species: "Dog"})
	require.NoError(t, err)
	newer, err := repo.Create(ctx, NewPet{Name: "Max", Species: "Cat"})
	require.NoError(t, err)

	found, err := repo.FindByName(ctx, "max")
	require.NoError(t, err)
	assert.Equal(t, newer.ID, found.ID)

	_, err = repo.FindByName(ctx, "Nobody")
	assert.True(t, IsNotFound(err))
	assert.Equal(t, `No pet found with name containing "Nobody"`, err.Error())
}

func TestMemorySearch(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository()

	_, err := repo.Create(ctx, NewPet{Name: "Buddy", Species: "Dog", Breed: strPtr("Golden Retriever"), Age: intPtr(3)})
	require.NoError(t, err)
	whiskers, err := repo.Create(ctx, NewPet{Name: "Whiskers", Species: "Cat", Age: intPtr(2)})
	require.NoError(t, err)
	maxPet, err := repo.Create(ctx, NewPet{Name: "Max", Species: "Dog", Breed: strPtr("Labrador"), Age: intPtr(7)})
	require.NoError(t, err)
	_, err = repo.Adopt(ctx, maxPet.ID)
	require.NoError(t, err)

	tests := []struct {
		name     string
		filter   Filter
		expected []string
	}{
		{"no filter", Filter{}, []string{"Max", "Whiskers", "Buddy"}},
		{"species case-insensitive", Filter{Species: "dog"}, []string{"Max", "Buddy"}},
		{"breed substring", Filter{Breed: "retr"}, []string{"Buddy"}},
		{"available only", Filter{AvailableOnly: true}, []string{"Whiskers", "Buddy"}},
		{"age range", Filter{MinAge: intPtr(3), MaxAge: intPtr(7)}, []string{"Max", "Buddy"}},
		{"no matches", Filter{Species: "Fish"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := repo.Search(ctx, tt.filter)
			require.NoError(t, err)
			names := []string{}
			for _, p := range result {
				names = append(names, p.Name)
			}
			assert.Equal(t, tt.expected, names)
		})
	}

	available, err := repo.GetAvailable(ctx)
	require.NoError(t, err)
	require.Len(t, available, 2)
	assert.Equal(t, whiskers.ID, available[0].ID)
}

func TestMemorySummaryAndStats(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository()

	summary, err := repo.Summary(ctx)
	require.NoError(t, err)
	assert.NotNil(t, summary.SpeciesStats)
	assert.Equal(t, 0, summary.OverallTotals.TotalPets)

	for _, data := range []NewPet{
		{Name: "A", Species: "Dog"},
		{Name: "B", Species: "Dog"},
		{Name: "C", Species: "Cat"},
	} {
		_, err := repo.Create(ctx, data)
		require.NoError(t, err)
	}
	_, err = repo.Adopt(ctx, 1)
	require.NoError(t, err)

	summary, err = repo.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, SpeciesStats{Total: 2, Adopted: 1, Available: 1}, summary.SpeciesStats["Dog"])
	assert.Equal(t, Totals{TotalPets: 3, AdoptedPets: 1, AvailablePets: 2}, summary.OverallTotals)

	stats, err := repo.AdoptionStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 33.33, stats.AdoptionRate)
	assert.Equal(t, 3, stats.TotalPets)
}

func TestMemoryValidSpecies(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository()

	_, err := repo.Create(ctx, NewPet{Name: "Spike", Species: "Iguana"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, NewPet{Name: "Rex", Species: "Dog"})
	require.NoError(t, err)

	species, err := repo.ValidSpecies(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dog", "Iguana"}, species.ExistingInDatabase)
	assert.Contains(t, species.Species, "Iguana")
	assert.Contains(t, species.Species, "Guinea Pig")
	assert.Equal(t, CommonSpecies, species.CommonOptions)
}

func TestMemoryCreateBatch(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository()

	created, err := repo.CreateBatch(ctx, []NewPet{
		{Name: "A", Species: "Dog"},
		{Name: "B", Species: "Cat"},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, int64(1), created[0].ID)
	assert.Equal(t, int64(2), created[1].ID)

	_, err = repo.CreateBatch(ctx, []NewPet{
		{Name: "C", Species: "Dog"},
		{Name: "", Species: "Cat"},
	})
	require.Error(t, err)
	assert.Equal(t, "Pet 2: Name and species are required", err.Error())

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
