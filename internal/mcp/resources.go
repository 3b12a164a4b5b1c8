package mcp

import (
	"fmt"
)

const (
	uriAdoptionForm    = "file://adoption-form.pdf"
	uriPetCareGuide    = "file://pet-care-guide.md"
	uriAdoptionProcess = "file://adoption-process.md"
	uriSpeciesInfo     = "file://species-info.json"
)

var resourceBodies = map[string]string{
	uriAdoptionForm: `# Pet Adoption Application Form

This is a sample adoption form that would contain:
- Applicant personal information
- Housing situation details
- Pet care experience
- References and veterinarian information
- Agreement to adoption terms`,

	uriPetCareGuide: `# Pet Care Guidelines

## General Care Requirements
- Daily feeding schedule
- Regular exercise and mental stimulation
- Routine veterinary care
- Grooming and hygiene maintenance

## Species-Specific Care
Different species have unique care requirements. Consult with veterinarians for specific guidance.`,

	uriAdoptionProcess: `# Pet Adoption Process

## Step 1: Browse Available Pets
Use our search features to find pets that match your preferences.

## Step 2: Submit Application
Complete the adoption application form.

## Step 3: Meet and Greet
Schedule a meeting with your potential new companion.

## Step 4: Home Visit
Our team will conduct a home visit to ensure suitability.

## Step 5: Adoption Finalization
Complete paperwork and welcome your new family member!`,

	uriSpeciesInfo: `{
  "species_info": {
    "Dog": {"lifespan": "12-15 years", "exercise": "high", "social": "very social"},
    "Cat": {"lifespan": "13-17 years", "exercise": "moderate", "social": "independent"},
    "Bird": {"lifespan": "5-80 years", "exercise": "moderate", "social": "varies"},
    "Rabbit": {"lifespan": "8-12 years", "exercise": "high", "social": "social"}
  }
}`,
}

// ResourceCatalog is the static set of readable resources
type ResourceCatalog struct {
	resources []Resource
	bodies    map[string]string
}

// NewResourceCatalog builds the catalog. It panics when a resource has no
// body, an empty name or a duplicate URI.
func NewResourceCatalog() *ResourceCatalog {
	c := &ResourceCatalog{
		resources: []Resource{
			{
				URI:         uriAdoptionForm,
				Name:        "Pet Adoption Application Form",
				Description: "Standard form for pet adoption applications",
				MimeType:    "application/pdf",
			},
			{
				URI:         uriPetCareGuide,
				Name:        "Pet Care Guidelines",
				Description: "Comprehensive guide for pet care and responsibilities",
				MimeType:    "text/markdown",
			},
			{
				URI:         uriAdoptionProcess,
				Name:        "Adoption Process Documentation",
				Description: "Step-by-step guide to the pet adoption process",
				MimeType:    "text/markdown",
			},
			{
				URI:         uriSpeciesInfo,
				Name:        "Pet Species Information",
				Description: "Detailed information about different pet species and their care requirements",
				MimeType:    "application/json",
			},
		},
		bodies: resourceBodies,
	}

	seen := make(map[string]struct{}, len(c.resources))
	for _, r := range c.resources {
		if r.Name == "" || r.Description == "" {
			panic(fmt.Sprintf("mcp: resource %q needs a name and description", r.URI))
		}
		if _, ok := c.bodies[r.URI]; !ok {
			panic(fmt.Sprintf("mcp: resource %q has no content", r.URI))
		}
		if _, dup := seen[r.URI]; dup {
			panic(fmt.Sprintf("mcp: duplicate resource %q", r.URI))
		}
		seen[r.URI] = struct{}{}
	}
	return c
}

// List returns the resources in catalog order
func (c *ResourceCatalog) List() []Resource {
	out := make([]Resource, len(c.resources))
	copy(out, c.resources)
	return out
}

// Get returns a resource and its body
func (c *ResourceCatalog) Get(uri string) (Resource, string, bool) {
	for _, r := range c.resources {
		if r.URI == uri {
			return r, c.bodies[uri], true
		}
	}
	return Resource{}, "", false
}

// Names returns resource names for /mcp/info
func (c *ResourceCatalog) Names() []string {
	names := make([]string, len(c.resources))
	for i, r := range c.resources {
		names[i] = r.Name
	}
	return names
}
