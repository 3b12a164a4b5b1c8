// Package pets holds the pet adoption domain: the Pet entity, the Repository
// collaborator consumed by the MCP tool executor, and its memory and SQL
// implementations.
package pets

import (
	"context"
	"strings"
	"time"
)

// Field limits shared by create and update
const (
	MaxNameLength        = 100
	MaxSpeciesLength     = 50
	MaxBreedLength       = 100
	MaxDescriptionLength = 1000
	MaxAge               = 50
)

// CommonSpecies are the species offered to clients as valid options
var CommonSpecies = []string{"Dog", "Cat", "Bird", "Rabbit", "Hamster", "Guinea Pig", "Fish", "Reptile"}

// Pet is an animal available for (or already placed through) adoption
type Pet struct {
	ID          int64     `json:"id" jsonschema:"description=Unique pet identifier"`
	Name        string    `json:"name" jsonschema:"description=Pet's name"`
	Species     string    `json:"species" jsonschema:"description=Pet's species such as Dog or Cat"`
	Breed       *string   `json:"breed" jsonschema:"description=Pet's breed"`
	Age         *int      `json:"age" jsonschema:"description=Pet's age in years"`
	Description *string   `json:"description" jsonschema:"description=Description of the pet"`
	IsAdopted   bool      `json:"is_adopted" jsonschema:"description=Whether the pet has been adopted"`
	CreatedAt   time.Time `json:"created_at" jsonschema:"description=When the pet was added to the system"`
	UpdatedAt   time.Time `json:"updated_at" jsonschema:"description=When the pet was last modified"`
}

// NewPet is the data required to create a pet
type NewPet struct {
	Name        string
	Species     string
	Breed       *string
	Age         *int
	Description *string
}

// Validate checks the create payload and trims the name
func (n *NewPet) Validate() error {
	n.Name = strings.TrimSpace(n.Name)
	n.Species = strings.TrimSpace(n.Species)

	if n.Name == "" || n.Species == "" {
		return InvalidInput("Name and species are required")
	}
	return checkFields(&n.Name, &n.Species, n.Breed, n.Age, n.Description)
}

// Update is a partial update; nil fields are left unchanged
type Update struct {
	Name        *string
	Species     *string
	Breed       *string
	Age         *int
	Description *string
}

// Empty reports whether the update changes nothing
func (u Update) Empty() bool {
	return u.Name == nil && u.Species == nil && u.Breed == nil && u.Age == nil && u.Description == nil
}

// Validate checks the update payload
func (u *Update) Validate() error {
	if u.Name != nil {
		trimmed := strings.TrimSpace(*u.Name)
		if trimmed == "" {
			return InvalidInput("Name cannot be empty")
		}
		u.Name = &trimmed
	}
	if u.Species != nil {
		trimmed := strings.TrimSpace(*u.Species)
		if trimmed == "" {
			return InvalidInput("Species cannot be empty")
		}
		u.Species = &trimmed
	}
	return checkFields(u.Name, u.Species, u.Breed, u.Age, u.Description)
}

// Apply copies the set fields onto p
func (u Update) Apply(p *Pet) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Species != nil {
		p.Species = *u.Species
	}
	if u.Breed != nil {
		p.Breed = u.Breed
	}
	if u.Age != nil {
		p.Age = u.Age
	}
	if u.Description != nil {
		p.Description = u.Description
	}
}

func checkFields(name, species, breed *string, age *int, description *string) error {
	if name != nil && len(*name) > MaxNameLength {
		return InvalidInput("Name must be at most %d characters", MaxNameLength)
	}
	if species != nil && len(*species) > MaxSpeciesLength {
		return InvalidInput("Species must be at most %d characters", MaxSpeciesLength)
	}
	if breed != nil && len(*breed) > MaxBreedLength {
		return InvalidInput("Breed must be at most %d characters", MaxBreedLength)
	}
	if age != nil && (*age < 0 || *age > MaxAge) {
		return InvalidInput("Age must be between 0 and %d", MaxAge)
	}
	if description != nil && len(*description) > MaxDescriptionLength {
		return InvalidInput("Description must be at most %d characters", MaxDescriptionLength)
	}
	return nil
}

// Filter narrows a search. Zero values mean "no constraint".
type Filter struct {
	Species       string
	Breed         string
	AvailableOnly bool
	MinAge        *int
	MaxAge        *int
}

// Matches applies the filter to a single pet. Species and breed match
// case-insensitively on substrings.
func (f Filter) Matches(p Pet) bool {
	if f.Species != "" && !containsFold(p.Species, f.Species) {
		return false
	}
	if f.Breed != "" && (p.Breed == nil || !containsFold(*p.Breed, f.Breed)) {
		return false
	}
	if f.AvailableOnly && p.IsAdopted {
		return false
	}
	if f.MinAge != nil && (p.Age == nil || *p.Age < *f.MinAge) {
		return false
	}
	if f.MaxAge != nil && (p.Age == nil || *p.Age > *f.MaxAge) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// SpeciesStats counts pets of one species
type SpeciesStats struct {
	Total     int `json:"total"`
	Adopted   int `json:"adopted"`
	Available int `json:"available"`
}

// Totals counts all pets
type Totals struct {
	TotalPets     int `json:"total_pets"`
	AdoptedPets   int `json:"adopted_pets"`
	AvailablePets int `json:"available_pets"`
}

// Summary groups pet counts by species
type Summary struct {
	SpeciesStats  map[string]SpeciesStats `json:"summary_by_species"`
	OverallTotals Totals                  `json:"overall_totals"`
}

// AdoptionStats reports adoption counts and rate
type AdoptionStats struct {
	Totals
	AdoptionRate     float64                 `json:"adoption_rate"`
	SpeciesBreakdown map[string]SpeciesStats `json:"species_breakdown"`
}

// Species lists known and common species
type Species struct {
	Species            []string `json:"species"`
	ExistingInDatabase []string `json:"existing_in_database"`
	CommonOptions      []string `json:"common_options"`
}

// Repository is the persistence collaborator behind the MCP tools.
// Lookups of a missing pet return a KindNotFound error; adopting an adopted pet
// returns KindConflict.
type Repository interface {
	GetAll(ctx context.Context) ([]Pet, error)
	GetByID(ctx context.Context, id int64) (*Pet, error)
	Create(ctx context.Context, data NewPet) (*Pet, error)
	Update(ctx context.Context, id int64, data Update) (*Pet, error)
	Delete(ctx context.Context, id int64) error
	Adopt(ctx context.Context, id int64) (*Pet, error)
	FindByName(ctx context.Context, name string) (*Pet, error)
	Search(ctx context.Context, filter Filter) ([]Pet, error)
	GetAvailable(ctx context.Context) ([]Pet, error)
	Summary(ctx context.Context) (*Summary, error)
	AdoptionStats(ctx context.Context) (*AdoptionStats, error)
	ValidSpecies(ctx context.Context) (*Species, error)
	CreateBatch(ctx context.Context, data []NewPet) ([]Pet, error)
}
