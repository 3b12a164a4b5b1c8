package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FreePeak/pet-mcp-server/internal/pets"
	"github.com/FreePeak/pet-mcp-server/pkg/tools"
)

func samplePet(id int64, name, species string) *pets.Pet {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &pets.Pet{ID: id, Name: name, Species: species, CreatedAt: now, UpdatedAt: now}
}

func TestExecutorCoversCatalog(t *testing.T) {
	e := NewExecutor(new(MockRepository))
	for _, tool := range Tools() {
		assert.True(t, e.Has(tool.Name), tool.Name)
	}
}

func TestExecuteUnknownTool(t *testing.T) {
	e := NewExecutor(new(MockRepository))
	_, err := e.Execute(context.Background(), "feed_pet", nil)
	assert.ErrorIs(t, err, tools.ErrToolNotFound)
}

func TestExecuteNormalizesResult(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetByID", mock.Anything, int64(3)).Return(samplePet(3, "Max", "Dog"), nil)

	result, err := NewExecutor(repo).Execute(context.Background(), ToolGetPetByID, map[string]interface{}{"pet_id": float64(3)})
	require.NoError(t, err)

	pet, ok := result.(map[string]interface{})
	require.True(t, ok, "result should be plain map data, got %T", result)
	assert.Equal(t, float64(3), pet["id"])
	assert.Equal(t, "Max", pet["name"])
	assert.Nil(t, pet["breed"])
	assert.Equal(t, "2024-05-01T12:00:00Z", pet["created_at"])
	repo.AssertExpectations(t)
}

func TestExecutePassesDomainErrors(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetByID", mock.Anything, int64(99)).Return(nil, pets.NotFound("Pet with ID %d not found", 99))

	_, err := NewExecutor(repo).Execute(context.Background(), ToolGetPetByID, map[string]interface{}{"pet_id": float64(99)})
	require.Error(t, err)
	assert.True(t, pets.IsNotFound(err))
	assert.Equal(t, "Pet with ID 99 not found", err.Error())
}

func TestExecutePassesInfrastructureErrors(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetAll", mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := NewExecutor(repo).Execute(context.Background(), ToolListAllPets, nil)
	require.Error(t, err)
	assert.Equal(t, pets.Kind(0), pets.KindOf(err))
}

func TestSearchPetsBuildsFilter(t *testing.T) {
	minAge := 2
	repo := new(MockRepository)
	repo.On("Search", mock.Anything, pets.Filter{Species: "Dog", AvailableOnly: true, MinAge: &minAge}).
		Return([]pets.Pet{*samplePet(1, "Buddy", "Dog")}, nil)

	result, err := NewExecutor(repo).Execute(context.Background(), ToolSearchPets, map[string]interface{}{
		"species":        "Dog",
		"available_only": true,
		"min_age":        float64(2),
	})
	require.NoError(t, err)

	out := result.(map[string]interface{})
	assert.Equal(t, float64(1), out["total_count"])
	assert.Len(t, out["pets"], 1)
	repo.AssertExpectations(t)
}

func TestListToolsReturnEmptyArrays(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetAvailable", mock.Anything).Return(nil, nil)

	result, err := NewExecutor(repo).Execute(context.Background(), ToolGetAvailablePets, nil)
	require.NoError(t, err)

	out := result.(map[string]interface{})
	assert.Equal(t, []interface{}{}, out["pets"])
	assert.Equal(t, float64(0), out["total_count"])
}

func TestDeletePet(t *testing.T) {
	t.Run("by id", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Delete", mock.Anything, int64(4)).Return(nil)

		result, err := NewExecutor(repo).Execute(context.Background(), ToolDeletePet, map[string]interface{}{"pet_id": float64(4)})
		require.NoError(t, err)
		out := result.(map[string]interface{})
		assert.Equal(t, "Pet with ID 4 has been successfully deleted", out["message"])
		assert.Equal(t, float64(4), out["deleted_pet_id"])
		repo.AssertNotCalled(t, "FindByName", mock.Anything, mock.Anything)
	})

	t.Run("by name", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByName", mock.Anything, "Luna").Return(samplePet(7, "Luna", "Cat"), nil)
		repo.On("Delete", mock.Anything, int64(7)).Return(nil)

		result, err := NewExecutor(repo).Execute(context.Background(), ToolDeletePet, map[string]interface{}{"pet_name": "Luna"})
		require.NoError(t, err)
		assert.Equal(t, float64(7), result.(map[string]interface{})["deleted_pet_id"])
		repo.AssertExpectations(t)
	})

	t.Run("name miss is not found", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByName", mock.Anything, "Ghost").Return(nil, pets.NotFound("No pet found with name containing %q", "Ghost"))

		_, err := NewExecutor(repo).Execute(context.Background(), ToolDeletePet, map[string]interface{}{"pet_name": "Ghost"})
		assert.True(t, pets.IsNotFound(err))
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("neither", func(t *testing.T) {
		_, err := NewExecutor(new(MockRepository)).Execute(context.Background(), ToolDeletePet, nil)
		assert.Equal(t, pets.KindInvalidInput, pets.KindOf(err))
	})
}

func TestCreateMultiplePets(t *testing.T) {
	t.Run("partial success", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("CreateBatch", mock.Anything, mock.MatchedBy(func(data []pets.NewPet) bool {
			return len(data) == 2 && data[0].Name == "Rex" && data[1].Name == "Kiwi"
		})).Return([]pets.Pet{*samplePet(1, "Rex", "Dog"), *samplePet(2, "Kiwi", "Bird")}, nil)

		result, err := NewExecutor(repo).Execute(context.Background(), ToolCreateMultiplePets, map[string]interface{}{
			"pets": []interface{}{
				map[string]interface{}{"name": "Rex", "species": "Dog"},
				map[string]interface{}{"name": "Nemo"},
				map[string]interface{}{"name": "Kiwi", "species": "Bird", "age": float64(1)},
			},
		})
		require.NoError(t, err)

		out := result.(map[string]interface{})
		assert.Equal(t, "Successfully created 2 pets", out["message"])
		assert.Len(t, out["created_pets"], 2)
		assert.Equal(t, []interface{}{"Pet 2: Name and species are required"}, out["errors"])
		repo.AssertExpectations(t)
	})

	t.Run("no errors", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("CreateBatch", mock.Anything, mock.Anything).Return([]pets.Pet{*samplePet(1, "Rex", "Dog")}, nil)

		result, err := NewExecutor(repo).Execute(context.Background(), ToolCreateMultiplePets, map[string]interface{}{
			"pets": []interface{}{map[string]interface{}{"name": "Rex", "species": "Dog"}},
		})
		require.NoError(t, err)
		assert.Equal(t, []interface{}{}, result.(map[string]interface{})["errors"])
	})

	t.Run("every entry invalid", func(t *testing.T) {
		repo := new(MockRepository)

		_, err := NewExecutor(repo).Execute(context.Background(), ToolCreateMultiplePets, map[string]interface{}{
			"pets": []interface{}{
				map[string]interface{}{"name": "Nemo"},
				"not a pet",
			},
		})
		require.Error(t, err)
		assert.Equal(t, pets.KindInvalidInput, pets.KindOf(err))
		assert.Equal(t, "Pet 1: Name and species are required; Pet 2: must be an object", err.Error())
		repo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	})
}

func TestAdoptPetByName(t *testing.T) {
	repo := pets.NewMemoryRepository()
	ctx := context.Background()
	_, err := repo.Create(ctx, pets.NewPet{Name: "Whiskers", Species: "Cat"})
	require.NoError(t, err)

	e := NewExecutor(repo)
	result, err := e.Execute(ctx, ToolAdoptPetByName, map[string]interface{}{"name": "whisk"})
	require.NoError(t, err)

	out := result.(map[string]interface{})
	assert.Equal(t, "Whiskers has been successfully adopted!", out["message"])
	assert.Equal(t, true, out["pet"].(map[string]interface{})["is_adopted"])

	_, err = e.Execute(ctx, ToolAdoptPetByName, map[string]interface{}{"name": "Whiskers"})
	assert.True(t, pets.IsConflict(err))
}

func TestUpdatePetInfo(t *testing.T) {
	repo := pets.NewMemoryRepository()
	ctx := context.Background()
	created, err := repo.Create(ctx, pets.NewPet{Name: "Max", Species: "Dog"})
	require.NoError(t, err)

	e := NewExecutor(repo)
	result, err := e.Execute(ctx, ToolUpdatePetInfo, map[string]interface{}{
		"pet_id": float64(created.ID),
		"breed":  "Beagle",
		"age":    float64(4),
	})
	require.NoError(t, err)

	out := result.(map[string]interface{})
	assert.Equal(t, "Max", out["name"])
	assert.Equal(t, "Beagle", out["breed"])
	assert.Equal(t, float64(4), out["age"])

	_, err = e.Execute(ctx, ToolUpdatePetInfo, map[string]interface{}{"pet_id": float64(created.ID), "age": 3.5})
	assert.Equal(t, pets.KindInvalidInput, pets.KindOf(err))
}

func TestArgumentHelpers(t *testing.T) {
	args := map[string]interface{}{"s": "x", "n": float64(2), "b": true, "bad": []interface{}{}}

	s, err := optionalString(args, "s")
	require.NoError(t, err)
	assert.Equal(t, "x", s)

	_, err = optionalString(args, "n")
	assert.Error(t, err)

	n, err := optionalInt(args, "n")
	require.NoError(t, err)
	assert.Equal(t, 2, *n)

	missing, err := optionalInt(args, "missing")
	require.NoError(t, err)
	assert.Nil(t, missing)

	b, err := optionalBool(args, "b")
	require.NoError(t, err)
	assert.True(t, b)

	_, err = requiredID(map[string]interface{}{"pet_id": float64(0)}, "pet_id")
	assert.Error(t, err)

	_, err = requiredID(map[string]interface{}{"pet_id": 1e300}, "pet_id")
	assert.EqualError(t, err, "pet_id is out of range")

	_, err = requiredID(map[string]interface{}{"pet_id": 2.5}, "pet_id")
	assert.EqualError(t, err, "pet_id must be an integer")

	_, err = requiredString(map[string]interface{}{"name": "  "}, "name")
	assert.Error(t, err)
}
