package mcp

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/FreePeak/pet-mcp-server/internal/logger"
	"github.com/FreePeak/pet-mcp-server/internal/pets"
	"github.com/FreePeak/pet-mcp-server/pkg/tools"
)

// toolFunc runs one tool against the repository
type toolFunc func(ctx context.Context, args map[string]interface{}) (interface{}, error)

// Executor maps tool names onto pet repository operations
type Executor struct {
	repo     pets.Repository
	handlers map[string]toolFunc
}

// NewExecutor creates an executor backed by repo
func NewExecutor(repo pets.Repository) *Executor {
	e := &Executor{repo: repo}
	e.handlers = map[string]toolFunc{
		ToolGetPetsSummary:     e.getPetsSummary,
		ToolSearchPets:         e.searchPets,
		ToolCreatePet:          e.createPet,
		ToolAdoptPetByName:     e.adoptPetByName,
		ToolAdoptPetByID:       e.adoptPetByID,
		ToolUpdatePetInfo:      e.updatePetInfo,
		ToolGetValidSpecies:    e.getValidSpecies,
		ToolGetPetByName:       e.getPetByName,
		ToolGetPetByID:         e.getPetByID,
		ToolGetAvailablePets:   e.getAvailablePets,
		ToolGetAdoptionStats:   e.getAdoptionStats,
		ToolListAllPets:        e.listAllPets,
		ToolDeletePet:          e.deletePet,
		ToolCreateMultiplePets: e.createMultiplePets,
	}
	return e
}

// Has reports whether the executor implements the named tool
func (e *Executor) Has(name string) bool {
	_, ok := e.handlers[name]
	return ok
}

// Execute runs a tool and returns its result as plain JSON data.
// Arguments are expected to have passed schema validation already.
func (e *Executor) Execute(ctx context.Context, name string, args map[string]interface{}) (interface{}, error) {
	fn, ok := e.handlers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", tools.ErrToolNotFound, name)
	}
	if args == nil {
		args = map[string]interface{}{}
	}

	logger.Debug("Executing tool %s", name)
	result, err := fn(ctx, args)
	if err != nil {
		return nil, err
	}
	return normalize(result)
}

func petList(list []pets.Pet) map[string]interface{} {
	if list == nil {
		list = []pets.Pet{}
	}
	return map[string]interface{}{
		"pets":        list,
		"total_count": len(list),
	}
}

func (e *Executor) getPetsSummary(ctx context.Context, _ map[string]interface{}) (interface{}, error) {
	return e.repo.Summary(ctx)
}

func (e *Executor) searchPets(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	var filter pets.Filter
	var err error

	if filter.Species, err = optionalString(args, "species"); err != nil {
		return nil, err
	}
	if filter.Breed, err = optionalString(args, "breed"); err != nil {
		return nil, err
	}
	if filter.AvailableOnly, err = optionalBool(args, "available_only"); err != nil {
		return nil, err
	}
	if filter.MinAge, err = optionalInt(args, "min_age"); err != nil {
		return nil, err
	}
	if filter.MaxAge, err = optionalInt(args, "max_age"); err != nil {
		return nil, err
	}

	found, err := e.repo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	return petList(found), nil
}

func (e *Executor) createPet(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	data, err := newPetFromArgs(args)
	if err != nil {
		return nil, err
	}
	return e.repo.Create(ctx, data)
}

func (e *Executor) adoptPetByName(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	name, err := requiredString(args, "name")
	if err != nil {
		return nil, err
	}
	pet, err := e.repo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	adopted, err := e.repo.Adopt(ctx, pet.ID)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"message": fmt.Sprintf("%s has been successfully adopted!", adopted.Name),
		"pet":     adopted,
	}, nil
}

func (e *Executor) adoptPetByID(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	id, err := requiredID(args, "pet_id")
	if err != nil {
		return nil, err
	}
	return e.repo.Adopt(ctx, id)
}

func (e *Executor) updatePetInfo(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	id, err := requiredID(args, "pet_id")
	if err != nil {
		return nil, err
	}

	var update pets.Update
	if update.Name, err = optionalStringPtr(args, "name"); err != nil {
		return nil, err
	}
	if update.Species, err = optionalStringPtr(args, "species"); err != nil {
		return nil, err
	}
	if update.Breed, err = optionalStringPtr(args, "breed"); err != nil {
		return nil, err
	}
	if update.Age, err = optionalInt(args, "age"); err != nil {
		return nil, err
	}
	if update.Description, err = optionalStringPtr(args, "description"); err != nil {
		return nil, err
	}

	return e.repo.Update(ctx, id, update)
}

func (e *Executor) getValidSpecies(ctx context.Context, _ map[string]interface{}) (interface{}, error) {
	return e.repo.ValidSpecies(ctx)
}

func (e *Executor) getPetByName(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	name, err := requiredString(args, "name")
	if err != nil {
		return nil, err
	}
	return e.repo.FindByName(ctx, name)
}

func (e *Executor) getPetByID(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	id, err := requiredID(args, "pet_id")
	if err != nil {
		return nil, err
	}
	return e.repo.GetByID(ctx, id)
}

func (e *Executor) getAvailablePets(ctx context.Context, _ map[string]interface{}) (interface{}, error) {
	available, err := e.repo.GetAvailable(ctx)
	if err != nil {
		return nil, err
	}
	return petList(available), nil
}

func (e *Executor) getAdoptionStats(ctx context.Context, _ map[string]interface{}) (interface{}, error) {
	return e.repo.AdoptionStats(ctx)
}

func (e *Executor) listAllPets(ctx context.Context, _ map[string]interface{}) (interface{}, error) {
	all, err := e.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return petList(all), nil
}

// deletePet prefers pet_id; pet_name is resolved through FindByName
func (e *Executor) deletePet(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	_, hasID := args["pet_id"]
	_, hasName := args["pet_name"]

	var id int64
	var err error
	switch {
	case hasID:
		if id, err = requiredID(args, "pet_id"); err != nil {
			return nil, err
		}
	case hasName:
		name, err := requiredString(args, "pet_name")
		if err != nil {
			return nil, err
		}
		pet, err := e.repo.FindByName(ctx, name)
		if err != nil {
			return nil, err
		}
		id = pet.ID
	default:
		return nil, pets.InvalidInput("Either pet_id or pet_name must be provided")
	}

	if err := e.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"message":        fmt.Sprintf("Pet with ID %d has been successfully deleted", id),
		"deleted_pet_id": id,
	}, nil
}

// createMultiplePets validates every entry on its own. Valid entries are
// stored in one batch; the call fails only when no entry is valid.
func (e *Executor) createMultiplePets(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	raw, ok := args["pets"].([]interface{})
	if !ok {
		return nil, pets.InvalidInput("pets must be an array")
	}
	if len(raw) == 0 {
		return nil, pets.InvalidInput("At least one pet is required")
	}
	if len(raw) > MaxBatchSize {
		return nil, pets.InvalidInput("Cannot create more than %d pets at once", MaxBatchSize)
	}

	valid := make([]pets.NewPet, 0, len(raw))
	problems := []string{}
	for i, entry := range raw {
		fields, ok := entry.(map[string]interface{})
		if !ok {
			problems = append(problems, fmt.Sprintf("Pet %d: must be an object", i+1))
			continue
		}
		data, err := newPetFromArgs(fields)
		if err == nil {
			err = data.Validate()
		}
		if err != nil {
			problems = append(problems, fmt.Sprintf("Pet %d: %s", i+1, err.Error()))
			continue
		}
		valid = append(valid, data)
	}

	if len(valid) == 0 {
		return nil, pets.InvalidInput("%s", strings.Join(problems, "; "))
	}

	created, err := e.repo.CreateBatch(ctx, valid)
	if err != nil {
		return nil, err
	}
	for _, msg := range problems {
		logger.Warn("create_multiple_pets skipped entry: %s", msg)
	}

	return map[string]interface{}{
		"message":      fmt.Sprintf("Successfully created %d pets", len(created)),
		"created_pets": created,
		"errors":       problems,
	}, nil
}

func newPetFromArgs(args map[string]interface{}) (pets.NewPet, error) {
	var data pets.NewPet
	var err error

	if data.Name, err = optionalString(args, "name"); err != nil {
		return data, err
	}
	if data.Species, err = optionalString(args, "species"); err != nil {
		return data, err
	}
	if data.Breed, err = optionalStringPtr(args, "breed"); err != nil {
		return data, err
	}
	if data.Age, err = optionalInt(args, "age"); err != nil {
		return data, err
	}
	if data.Description, err = optionalStringPtr(args, "description"); err != nil {
		return data, err
	}
	if strings.TrimSpace(data.Name) == "" || strings.TrimSpace(data.Species) == "" {
		return data, pets.InvalidInput("Name and species are required")
	}
	return data, nil
}

// Argument helpers. A present value of the wrong type is InvalidInput.

func optionalStringPtr(args map[string]interface{}, key string) (*string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, pets.InvalidInput("%s must be a string", key)
	}
	return &s, nil
}

func optionalString(args map[string]interface{}, key string) (string, error) {
	s, err := optionalStringPtr(args, key)
	if err != nil || s == nil {
		return "", err
	}
	return *s, nil
}

func requiredString(args map[string]interface{}, key string) (string, error) {
	s, err := optionalString(args, key)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(s) == "" {
		return "", pets.InvalidInput("%s is required", key)
	}
	return s, nil
}

func optionalBool(args map[string]interface{}, key string) (bool, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, pets.InvalidInput("%s must be a boolean", key)
	}
	return b, nil
}

func optionalInt(args map[string]interface{}, key string) (*int, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return nil, nil
	}
	var n int
	switch t := v.(type) {
	case int:
		n = t
	case int64:
		n = int(t)
	case float64:
		if t != math.Trunc(t) {
			return nil, pets.InvalidInput("%s must be an integer", key)
		}
		if t < math.MinInt || t >= math.MaxInt {
			return nil, pets.InvalidInput("%s is out of range", key)
		}
		n = int(t)
	default:
		return nil, pets.InvalidInput("%s must be an integer", key)
	}
	return &n, nil
}

func requiredID(args map[string]interface{}, key string) (int64, error) {
	n, err := optionalInt(args, key)
	if err != nil {
		return 0, err
	}
	if n == nil {
		return 0, pets.InvalidInput("%s is required", key)
	}
	if *n < 1 {
		return 0, pets.InvalidInput("%s must be a positive integer", key)
	}
	return int64(*n), nil
}
