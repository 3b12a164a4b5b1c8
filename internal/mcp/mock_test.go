package mcp

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/FreePeak/pet-mcp-server/internal/pets"
)

// MockRepository is a mock implementation of pets.Repository
type MockRepository struct {
	mock.Mock
}

var _ pets.Repository = (*MockRepository)(nil)

func (m *MockRepository) pet(args mock.Arguments) (*pets.Pet, error) {
	if p, ok := args.Get(0).(*pets.Pet); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) list(args mock.Arguments) ([]pets.Pet, error) {
	if l, ok := args.Get(0).([]pets.Pet); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

// GetAll mocks the GetAll method
func (m *MockRepository) GetAll(ctx context.Context) ([]pets.Pet, error) {
	return m.list(m.Called(ctx))
}

// GetByID mocks the GetByID method
func (m *MockRepository) GetByID(ctx context.Context, id int64) (*pets.Pet, error) {
	return m.pet(m.Called(ctx, id))
}

// Create mocks the Create method
func (m *MockRepository) Create(ctx context.Context, data pets.NewPet) (*pets.Pet, error) {
	return m.pet(m.Called(ctx, data))
}

// Update mocks the Update method
func (m *MockRepository) Update(ctx context.Context, id int64, data pets.Update) (*pets.Pet, error) {
	return m.pet(m.Called(ctx, id, data))
}

// Delete mocks the Delete method
func (m *MockRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// Adopt mocks the Adopt method
func (m *MockRepository) Adopt(ctx context.Context, id int64) (*pets.Pet, error) {
	return m.pet(m.Called(ctx, id))
}

// FindByName mocks the FindByName method
func (m *MockRepository) FindByName(ctx context.Context, name string) (*pets.Pet, error) {
	return m.pet(m.Called(ctx, name))
}

// Search mocks the Search method
func (m *MockRepository) Search(ctx context.Context, filter pets.Filter) ([]pets.Pet, error) {
	return m.list(m.Called(ctx, filter))
}

// GetAvailable mocks the GetAvailable method
func (m *MockRepository) GetAvailable(ctx context.Context) ([]pets.Pet, error) {
	return m.list(m.Called(ctx))
}

// Summary mocks the Summary method
func (m *MockRepository) Summary(ctx context.Context) (*pets.Summary, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(*pets.Summary)
	return s, args.Error(1)
}

// AdoptionStats mocks the AdoptionStats method
func (m *MockRepository) AdoptionStats(ctx context.Context) (*pets.AdoptionStats, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(*pets.AdoptionStats)
	return s, args.Error(1)
}

// ValidSpecies mocks the ValidSpecies method
func (m *MockRepository) ValidSpecies(ctx context.Context) (*pets.Species, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(*pets.Species)
	return s, args.Error(1)
}

// CreateBatch mocks the CreateBatch method
func (m *MockRepository) CreateBatch(ctx context.Context, data []pets.NewPet) ([]pets.Pet, error) {
	return m.list(m.Called(ctx, data))
}
