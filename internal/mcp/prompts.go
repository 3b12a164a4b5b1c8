package mcp

import (
	"fmt"
	"strings"

	"github.com/FreePeak/pet-mcp-server/pkg/tools"
)

// ErrPromptNotFound is returned for an unknown prompt name
var ErrPromptNotFound = fmt.Errorf("prompt not found")

// MissingArgumentError is returned when a required prompt argument is absent
type MissingArgumentError struct {
	Prompt   string
	Argument string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("Missing required argument %q for prompt %s", e.Argument, e.Prompt)
}

type renderFunc func(args promptArgs) []PromptMessage

type promptArgs map[string]string

func (a promptArgs) get(name, fallback string) string {
	if v, ok := a[name]; ok && v != "" {
		return v
	}
	return fallback
}

type promptEntry struct {
	prompt Prompt
	render renderFunc
}

// PromptRenderer is the static prompt catalog and its templates
type PromptRenderer struct {
	entries []promptEntry
	index   map[string]int
}

func textMessage(role, text string) PromptMessage {
	return PromptMessage{Role: role, Content: TextContent(text, nil)}
}

// NewPromptRenderer builds the prompt catalog. It panics on an invalid name or
// an empty description.
func NewPromptRenderer() *PromptRenderer {
	entries := []promptEntry{
		{
			prompt: Prompt{
				Name:        "adoption_assistant",
				Description: "AI assistant for pet adoption counseling and guidance",
				Arguments: []PromptArgument{
					{Name: "pet_type", Description: "Type of pet interested in"},
					{Name: "experience_level", Description: "Pet owner experience level"},
				},
			},
			render: func(args promptArgs) []PromptMessage {
				petType := args.get("pet_type", "any pet")
				experience := args.get("experience_level", "beginner")
				return []PromptMessage{
					textMessage("system", fmt.Sprintf(
						"You are a knowledgeable and compassionate pet adoption counselor. Help the user find the perfect %s companion based on their %s experience level. Provide personalized advice about pet care, responsibilities, and what to expect during the adoption process.",
						petType, experience)),
					textMessage("user", fmt.Sprintf(
						"I'm interested in adopting %s and I consider myself a %s pet owner. Can you help guide me through the adoption process and what I should consider?",
						petType, experience)),
				}
			},
		},
		{
			prompt: Prompt{
				Name:        "pet_care_advisor",
				Description: "Provide specific care advice for adopted pets",
				Arguments: []PromptArgument{
					{Name: "species", Description: "Pet species", Required: true},
					{Name: "age", Description: "Pet age"},
					{Name: "special_needs", Description: "Any special care requirements"},
				},
			},
			render: func(args promptArgs) []PromptMessage {
				subject := args["species"]
				if age := args.get("age", ""); age != "" {
					subject += fmt.Sprintf(" that is %s years old", age)
				}
				if needs := args.get("special_needs", ""); needs != "" {
					subject += " with special needs: " + needs
				}
				return []PromptMessage{
					textMessage("system", fmt.Sprintf(
						"You are an expert veterinarian and pet care specialist. Provide detailed, practical advice for caring for a %s. Include information about feeding, exercise, health care, grooming, and any species-specific needs.",
						subject)),
					textMessage("user", fmt.Sprintf(
						"I just adopted a %s. What specific care advice do you have for me to ensure my new pet is healthy and happy?",
						subject)),
				}
			},
		},
		{
			prompt: Prompt{
				Name:        "species_recommender",
				Description: "Recommend suitable pet species based on lifestyle and preferences",
				Arguments: []PromptArgument{
					{Name: "living_situation", Description: "Housing situation"},
					{Name: "time_available", Description: "Time available for pet care"},
					{Name: "experience", Description: "Previous pet experience"},
				},
			},
			render: func(args promptArgs) []PromptMessage {
				return []PromptMessage{
					textMessage("system",
						"You are a pet adoption specialist who helps match people with the most suitable pet species based on their lifestyle, living situation, and experience. Consider factors like space requirements, time commitment, maintenance needs, and compatibility."),
					textMessage("user", fmt.Sprintf(
						"I live in a %s and have %s time available for pet care. I have %s experience with pets. What species would you recommend for me and why?",
						args.get("living_situation", "not specified"),
						args.get("time_available", "moderate"),
						args.get("experience", "some"))),
				}
			},
		},
	}

	r := &PromptRenderer{entries: entries, index: make(map[string]int, len(entries))}
	for i, e := range entries {
		if !tools.ValidName(e.prompt.Name) {
			panic(fmt.Sprintf("mcp: invalid prompt name %q", e.prompt.Name))
		}
		if e.prompt.Description == "" {
			panic(fmt.Sprintf("mcp: prompt %q has no description", e.prompt.Name))
		}
		r.index[e.prompt.Name] = i
	}
	return r
}

// List returns the prompt definitions
func (r *PromptRenderer) List() []Prompt {
	out := make([]Prompt, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.prompt
	}
	return out
}

// Names returns prompt names for /mcp/info
func (r *PromptRenderer) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.prompt.Name
	}
	return names
}

// Render fills the named prompt. Non-string argument values are formatted
// with fmt.
func (r *PromptRenderer) Render(name string, arguments map[string]interface{}) (*GetPromptResult, error) {
	i, ok := r.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPromptNotFound, name)
	}
	entry := r.entries[i]

	args := make(promptArgs, len(arguments))
	for k, v := range arguments {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			args[k] = strings.TrimSpace(s)
		} else {
			args[k] = fmt.Sprint(v)
		}
	}

	for _, a := range entry.prompt.Arguments {
		if a.Required && args[a.Name] == "" {
			return nil, &MissingArgumentError{Prompt: name, Argument: a.Name}
		}
	}

	return &GetPromptResult{
		Description: entry.prompt.Description,
		Messages:    entry.render(args),
	}, nil
}
