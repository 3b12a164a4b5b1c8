package pets

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryRepository keeps pets in process memory. It is the default store and
// the one used by tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	pets   map[int64]*Pet
	nextID int64
	now    func() time.Time
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		pets:   make(map[int64]*Pet),
		nextID: 1,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// clone returns a copy that shares no pointers with the stored pet
func clone(p *Pet) Pet {
	c := *p
	if p.Breed != nil {
		b := *p.Breed
		c.Breed = &b
	}
	if p.Age != nil {
		a := *p.Age
		c.Age = &a
	}
	if p.Description != nil {
		d := *p.Description
		c.Description = &d
	}
	return c
}

// sortedLocked returns copies of the pets matching keep, newest first.
// Callers must hold r.mu.
func (r *MemoryRepository) sortedLocked(keep func(Pet) bool) []Pet {
	result := make([]Pet, 0, len(r.pets))
	for _, p := range r.pets {
		if keep == nil || keep(*p) {
			result = append(result, clone(p))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result
}

// GetAll returns all pets, newest first
func (r *MemoryRepository) GetAll(ctx context.Context) ([]Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedLocked(nil), nil
}

// GetByID returns one pet
func (r *MemoryRepository) GetByID(ctx context.Context, id int64) (*Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.pets[id]
	if !ok {
		return nil, petNotFound(id)
	}
	c := clone(p)
	return &c, nil
}

func (r *MemoryRepository) insertLocked(data NewPet) Pet {
	now := r.now()
	p := &Pet{
		ID:          r.nextID,
		Name:        data.Name,
		Species:     data.Species,
		Breed:       data.Breed,
		Age:         data.Age,
		Description: data.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.nextID++
	stored := clone(p)
	r.pets[p.ID] = &stored
	return clone(p)
}

// Create stores a new pet
func (r *MemoryRepository) Create(ctx context.Context, data NewPet) (*Pet, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.insertLocked(data)
	return &p, nil
}

// Update applies a partial update
func (r *MemoryRepository) Update(ctx context.Context, id int64, data Update) (*Pet, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pets[id]
	if !ok {
		return nil, petNotFound(id)
	}
	if !data.Empty() {
		updated := clone(p)
		data.Apply(&updated)
		updated = clone(&updated)
		updated.UpdatedAt = r.now()
		r.pets[id] = &updated
		p = &updated
	}
	c := clone(p)
	return &c, nil
}

// Delete removes a pet
func (r *MemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.pets[id]; !ok {
		return petNotFound(id)
	}
	delete(r.pets, id)
	return nil
}

// Adopt marks a pet as adopted
func (r *MemoryRepository) Adopt(ctx context.Context, id int64) (*Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pets[id]
	if !ok {
		return nil, petNotFound(id)
	}
	if p.IsAdopted {
		return nil, Conflict("%s is already adopted", p.Name)
	}
	p.IsAdopted = true
	p.UpdatedAt = r.now()
	c := clone(p)
	return &c, nil
}

// FindByName returns the newest pet whose name contains name, ignoring case
func (r *MemoryRepository) FindByName(ctx context.Context, name string) (*Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.TrimSpace(name)
	matches := r.sortedLocked(func(p Pet) bool {
		return containsFold(p.Name, needle)
	})
	if len(matches) == 0 {
		return nil, NotFound("No pet found with name containing %q", needle)
	}
	return &matches[0], nil
}

// Search returns pets matching the filter, newest first
func (r *MemoryRepository) Search(ctx context.Context, filter Filter) ([]Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedLocked(filter.Matches), nil
}

// GetAvailable returns pets not yet adopted, newest first
func (r *MemoryRepository) GetAvailable(ctx context.Context) ([]Pet, error) {
	return r.Search(ctx, Filter{AvailableOnly: true})
}

// Summary groups pets by species
func (r *MemoryRepository) Summary(ctx context.Context) (*Summary, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return Summarize(all), nil
}

// AdoptionStats reports adoption counts and rate
func (r *MemoryRepository) AdoptionStats(ctx context.Context) (*AdoptionStats, error) {
	summary, err := r.Summary(ctx)
	if err != nil {
		return nil, err
	}
	return Stats(summary), nil
}

// ValidSpecies lists stored and common species
func (r *MemoryRepository) ValidSpecies(ctx context.Context) (*Species, error) {
	r.mu.RLock()
	seen := make(map[string]struct{})
	existing := []string{}
	for _, p := range r.pets {
		if _, ok := seen[p.Species]; !ok {
			seen[p.Species] = struct{}{}
			existing = append(existing, p.Species)
		}
	}
	r.mu.RUnlock()

	return MergeSpecies(existing), nil
}

// CreateBatch stores all pets or none
func (r *MemoryRepository) CreateBatch(ctx context.Context, data []NewPet) ([]Pet, error) {
	for i := range data {
		if err := data[i].Validate(); err != nil {
			return nil, InvalidInput("Pet %d: %s", i+1, err.Error())
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	created := make([]Pet, 0, len(data))
	for _, d := range data {
		created = append(created, r.insertLocked(d))
	}
	return created, nil
}
