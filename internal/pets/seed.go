package pets

import (
	"context"
	"fmt"
	"strings"

	"github.com/FreePeak/pet-mcp-server/internal/logger"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

// SamplePets are added by Seed when SEED_SAMPLE_PETS is enabled
var SamplePets = []NewPet{
	{
		Name:        "Buddy",
		Species:     "Dog",
		Breed:       strPtr("Golden Retriever"),
		Age:         intPtr(3),
		Description: strPtr("Friendly and energetic dog who loves to play fetch. Great with kids and other pets."),
	},
	{
		Name:        "Whiskers",
		Species:     "Cat",
		Breed:       strPtr("Persian"),
		Age:         intPtr(2),
		Description: strPtr("Calm and gentle cat who enjoys lounging in sunny spots. Perfect for a quiet home."),
	},
	{
		Name:        "Tweety",
		Species:     "Bird",
		Breed:       strPtr("Canary"),
		Age:         intPtr(1),
		Description: strPtr("Beautiful singing bird with bright yellow feathers. Brings joy with its melodious songs."),
	},
	{
		Name:        "Max",
		Species:     "Dog",
		Breed:       strPtr("Labrador"),
		Age:         intPtr(4),
		Description: strPtr("Loyal and intelligent dog. Great for families and loves outdoor activities."),
	},
	{
		Name:        "Luna",
		Species:     "Cat",
		Breed:       strPtr("Siamese"),
		Age:         intPtr(2),
		Description: strPtr("Elegant and social cat with striking blue eyes. Very affectionate and vocal."),
	},
}

// Seed adds the sample pets whose names are not already present and returns
// how many were added
func Seed(ctx context.Context, repo Repository) (int, error) {
	existing, err := repo.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list pets before seeding: %w", err)
	}
	names := make(map[string]struct{}, len(existing))
	for _, p := range existing {
		names[strings.ToLower(p.Name)] = struct{}{}
	}

	added := 0
	for _, sample := range SamplePets {
		if _, ok := names[strings.ToLower(sample.Name)]; ok {
			logger.Debug("Sample pet %s already exists, skipping", sample.Name)
			continue
		}
		if _, err := repo.Create(ctx, sample); err != nil {
			return added, fmt.Errorf("failed to seed %s: %w", sample.Name, err)
		}
		added++
	}
	logger.Info("Seeded %d sample pets", added)
	return added, nil
}
