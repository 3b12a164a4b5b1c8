package mcp

import (
	"github.com/FreePeak/pet-mcp-server/internal/pets"
	"github.com/FreePeak/pet-mcp-server/pkg/tools"
)

// Tool names
const (
	ToolGetPetsSummary     = "get_pets_summary"
	ToolSearchPets         = "search_pets"
	ToolCreatePet          = "create_pet"
	ToolAdoptPetByName     = "adopt_pet_by_name"
	ToolAdoptPetByID       = "adopt_pet_by_id"
	ToolUpdatePetInfo      = "update_pet_info"
	ToolGetValidSpecies    = "get_valid_species"
	ToolGetPetByName       = "get_pet_by_name"
	ToolGetPetByID         = "get_pet_by_id"
	ToolGetAvailablePets   = "get_available_pets"
	ToolGetAdoptionStats   = "get_adoption_stats"
	ToolListAllPets        = "list_all_pets"
	ToolDeletePet          = "delete_pet"
	ToolCreateMultiplePets = "create_multiple_pets"
)

// MaxBatchSize caps create_multiple_pets
const MaxBatchSize = 50

// Input limits advertised to clients. They are stricter than what the
// repository accepts.
const (
	maxInputAge         = 30
	maxInputDescription = 500
)

var audience = []string{"user", "assistant"}

func readOnly(priority float64, category string) *tools.Annotations {
	return &tools.Annotations{Audience: audience, Priority: priority, Category: category}
}

func modifying(priority float64) *tools.Annotations {
	return &tools.Annotations{
		Audience:             audience,
		Priority:             priority,
		Category:             "modification",
		RequiresConfirmation: true,
		SensitiveOperation:   true,
	}
}

// petSchema describes a serialized pets.Pet
func petSchema() tools.Schema {
	return tools.Reflect(&pets.Pet{}, "id", "name", "species", "is_adopted", "created_at")
}

func petListSchema(description string) *tools.Schema {
	return &tools.Schema{
		Type: "object",
		Properties: map[string]*tools.Property{
			"pets":        tools.Array(description, petSchema().AsProperty("A pet")),
			"total_count": tools.Integer("Number of pets returned"),
		},
		Required: []string{"pets", "total_count"},
	}
}

func speciesStatsProperty() *tools.Property {
	return &tools.Property{
		Type:        "object",
		Description: "Statistics keyed by species",
		AdditionalProperties: tools.Object("Counts for one species", map[string]*tools.Property{
			"total":     tools.Integer("All pets of the species"),
			"adopted":   tools.Integer("Adopted pets of the species"),
			"available": tools.Integer("Pets of the species still available"),
		}),
	}
}

func outputOf(s tools.Schema) *tools.Schema { return &s }

// Tools returns the tool catalog
func Tools() []tools.Tool {
	pet := petSchema()

	return []tools.Tool{
		{
			Name:        ToolGetPetsSummary,
			Title:       "Get Pets Summary",
			Description: "Get comprehensive pet statistics by species and adoption status",
			InputSchema: tools.ObjectSchema(nil),
			OutputSchema: &tools.Schema{
				Type: "object",
				Properties: map[string]*tools.Property{
					"summary_by_species": speciesStatsProperty(),
					"overall_totals": tools.Object("Overall adoption statistics", map[string]*tools.Property{
						"total_pets":     tools.Integer("All pets"),
						"adopted_pets":   tools.Integer("Adopted pets"),
						"available_pets": tools.Integer("Pets still available"),
					}),
				},
				Required: []string{"summary_by_species", "overall_totals"},
			},
			Annotations: readOnly(0.9, "analytics"),
		},
		{
			Name:        ToolSearchPets,
			Title:       "Search Pets",
			Description: "Search pets with optional filters for species, breed, availability, and age",
			InputSchema: tools.ObjectSchema(map[string]*tools.Property{
				"species":        tools.String("Filter by species").WithExamples("Dog", "Cat", "Bird"),
				"breed":          tools.String("Filter by breed"),
				"available_only": tools.Boolean("Only available pets").WithDefault(false),
				"min_age":        tools.Integer("Minimum age").WithMinimum(0),
				"max_age":        tools.Integer("Maximum age").WithMinimum(0),
			}),
			OutputSchema: petListSchema("Pets matching the filters"),
			Annotations:  readOnly(0.8, "search"),
		},
		{
			Name:        ToolCreatePet,
			Title:       "Create Pet",
			Description: "Add a new pet to the adoption system",
			InputSchema: tools.ObjectSchema(map[string]*tools.Property{
				"name":        tools.String("Pet name").WithLength(1, pets.MaxNameLength),
				"species":     tools.String("Pet species").WithEnum(pets.CommonSpecies...),
				"breed":       tools.String("Pet breed (optional)").WithLength(-1, pets.MaxBreedLength),
				"age":         tools.Integer("Pet age (optional)").WithMinimum(0).WithMaximum(maxInputAge),
				"description": tools.String("Pet description (optional)").WithLength(-1, maxInputDescription),
			}, "name", "species"),
			OutputSchema: outputOf(pet),
			Annotations:  modifying(0.7),
		},
		{
			Name:        ToolAdoptPetByName,
			Title:       "Adopt Pet by Name",
			Description: "Mark a pet as adopted by searching for its name",
			InputSchema: tools.ObjectSchema(map[string]*tools.Property{
				"name": tools.String("Pet name to search for").WithLength(1, -1),
			}, "name"),
			OutputSchema: &tools.Schema{
				Type: "object",
				Properties: map[string]*tools.Property{
					"message": tools.String("Success message"),
					"pet":     pet.AsProperty("The adopted pet"),
				},
				Required: []string{"message", "pet"},
			},
			Annotations: modifying(0.8),
		},
		{
			Name:        ToolAdoptPetByID,
			Title:       "Adopt Pet by ID",
			Description: "Mark a pet as adopted using its unique ID",
			InputSchema: tools.ObjectSchema(map[string]*tools.Property{
				"pet_id": tools.Integer("Unique identifier of the pet to adopt").WithMinimum(1),
			}, "pet_id"),
			OutputSchema: outputOf(pet),
			Annotations:  modifying(0.8),
		},
		{
			Name:        ToolUpdatePetInfo,
			Title:       "Update Pet Information",
			Description: "Update pet details like name, species, breed, age, or description",
			InputSchema: tools.ObjectSchema(map[string]*tools.Property{
				"pet_id":      tools.Integer("Pet ID to update").WithMinimum(1),
				"name":        tools.String("New pet name").WithLength(1, pets.MaxNameLength),
				"species":     tools.String("New pet species").WithEnum(pets.CommonSpecies...),
				"breed":       tools.String("New pet breed").WithLength(-1, pets.MaxBreedLength),
				"age":         tools.Integer("New pet age").WithMinimum(0).WithMaximum(maxInputAge),
				"description": tools.String("New pet description").WithLength(-1, maxInputDescription),
			}, "pet_id"),
			OutputSchema: outputOf(tools.Reflect(&pets.Pet{}, "id", "name", "species", "is_adopted", "updated_at")),
			Annotations:  modifying(0.7),
		},
		{
			Name:        ToolGetValidSpecies,
			Title:       "Get Valid Pet Species",
			Description: "Get list of valid pet species including existing and common options",
			InputSchema: tools.ObjectSchema(nil),
			OutputSchema: &tools.Schema{
				Type: "object",
				Properties: map[string]*tools.Property{
					"species":              tools.Array("All valid pet species", tools.String("")),
					"existing_in_database": tools.Array("Species currently in database", tools.String("")),
					"common_options":       tools.Array("Common pet species options", tools.String("")),
				},
				Required: []string{"species", "existing_in_database", "common_options"},
			},
			Annotations: readOnly(0.6, "reference"),
		},
		{
			Name:        ToolGetPetByName,
			Title:       "Get Pet by Name",
			Description: "Find a pet by searching for its name",
			InputSchema: tools.ObjectSchema(map[string]*tools.Property{
				"name": tools.String("Pet name to search for").WithLength(1, -1),
			}, "name"),
			OutputSchema: outputOf(pet),
			Annotations:  readOnly(0.8, "search"),
		},
		{
			Name:        ToolGetPetByID,
			Title:       "Get Pet by ID",
			Description: "Get a specific pet by its ID",
			InputSchema: tools.ObjectSchema(map[string]*tools.Property{
				"pet_id": tools.Integer("Pet ID to retrieve").WithMinimum(1),
			}, "pet_id"),
			OutputSchema: outputOf(pet),
			Annotations:  readOnly(0.8, "search"),
		},
		{
			Name:         ToolGetAvailablePets,
			Title:        "Get Available Pets",
			Description:  "Get all pets that are currently available for adoption",
			InputSchema:  tools.ObjectSchema(nil),
			OutputSchema: petListSchema("Pets available for adoption"),
			Annotations:  readOnly(0.9, "search"),
		},
		{
			Name:        ToolGetAdoptionStats,
			Title:       "Get Adoption Statistics",
			Description: "Get overall adoption statistics including rates and counts",
			InputSchema: tools.ObjectSchema(nil),
			OutputSchema: &tools.Schema{
				Type: "object",
				Properties: map[string]*tools.Property{
					"total_pets":        tools.Integer("All pets"),
					"adopted_pets":      tools.Integer("Adopted pets"),
					"available_pets":    tools.Integer("Pets still available"),
					"adoption_rate":     tools.Number("Adopted percentage rounded to two decimals"),
					"species_breakdown": speciesStatsProperty(),
				},
				Required: []string{"total_pets", "adopted_pets", "available_pets", "adoption_rate"},
			},
			Annotations: readOnly(0.8, "analytics"),
		},
		{
			Name:         ToolListAllPets,
			Title:        "List All Pets",
			Description:  "Get a complete list of all pets in the system",
			InputSchema:  tools.ObjectSchema(nil),
			OutputSchema: petListSchema("All pets, newest first"),
			Annotations:  readOnly(0.7, "search"),
		},
		{
			Name:        ToolDeletePet,
			Title:       "Delete Pet",
			Description: "Remove a pet from the system by ID or name",
			InputSchema: deletePetSchema(),
			OutputSchema: &tools.Schema{
				Type: "object",
				Properties: map[string]*tools.Property{
					"message":        tools.String("Success message"),
					"deleted_pet_id": tools.Integer("ID of the deleted pet"),
				},
				Required: []string{"message", "deleted_pet_id"},
			},
			Annotations: &tools.Annotations{
				Audience:             audience,
				Priority:             0.6,
				Category:             "modification",
				RequiresConfirmation: true,
				SensitiveOperation:   true,
				DestructiveOperation: true,
			},
		},
		{
			Name:        ToolCreateMultiplePets,
			Title:       "Create Multiple Pets",
			Description: "Add multiple pets to the adoption system in a single operation",
			InputSchema: tools.ObjectSchema(map[string]*tools.Property{
				"pets": tools.Array("Array of pet objects to create", &tools.Property{
					Type: "object",
					Properties: map[string]*tools.Property{
						"name":        tools.String("Pet's name"),
						"species":     tools.String("Pet's species such as Dog or Cat"),
						"breed":       tools.String("Pet's breed (optional)"),
						"age":         tools.Integer("Pet's age in years (optional)"),
						"description": tools.String("Description of the pet (optional)"),
					},
					Required:             []string{"name", "species"},
					AdditionalProperties: false,
				}).WithItems(1, MaxBatchSize),
			}, "pets"),
			OutputSchema: &tools.Schema{
				Type: "object",
				Properties: map[string]*tools.Property{
					"message":      tools.String("Success message"),
					"created_pets": tools.Array("Pets that were created", pet.AsProperty("A pet")),
					"errors":       tools.Array("Messages for entries that were skipped", tools.String("")),
				},
				Required: []string{"message", "created_pets"},
			},
			Annotations: modifying(0.7),
		},
	}
}

func deletePetSchema() tools.Schema {
	s := tools.ObjectSchema(map[string]*tools.Property{
		"pet_id":   tools.Integer("Pet ID to delete").WithMinimum(1),
		"pet_name": tools.String("Pet name to delete (alternative to pet_id)").WithLength(1, -1),
	})
	s.AnyOf = []tools.RequiredGroup{
		{Required: []string{"pet_id"}},
		{Required: []string{"pet_name"}},
	}
	return s
}

// mutations lists the catalogs each mutating tool may change
var mutations = map[string]Notifications{
	ToolCreatePet:          {ToolsListChanged: true},
	ToolUpdatePetInfo:      {ToolsListChanged: true},
	ToolDeletePet:          {ToolsListChanged: true},
	ToolAdoptPetByName:     {ToolsListChanged: true},
	ToolAdoptPetByID:       {ToolsListChanged: true},
	ToolCreateMultiplePets: {ToolsListChanged: true},
}

// notificationsFor returns the list-changed flags for a tool, or nil when the
// tool changes nothing
func notificationsFor(name string) *Notifications {
	n, ok := mutations[name]
	if !ok || !n.Any() {
		return nil
	}
	return &n
}

// NewToolRegistry builds the registry used by tools/list and validation
func NewToolRegistry() *tools.Registry {
	return tools.NewRegistry(Tools()...)
}
