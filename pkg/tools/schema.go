package tools

import (
	"github.com/invopop/jsonschema"
)

// Property describes one field of a tool schema. Only the constraints the
// validator understands are modelled.
type Property struct {
	Type        string        `json:"type,omitempty"`
	Description string        `json:"description,omitempty"`
	Format      string        `json:"format,omitempty"`
	Enum        []interface{} `json:"enum,omitempty"`
	Default     interface{}   `json:"default,omitempty"`
	Examples    []interface{} `json:"examples,omitempty"`

	MinLength *int     `json:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
	Minimum   *float64 `json:"minimum,omitempty"`
	Maximum   *float64 `json:"maximum,omitempty"`
	MinItems  *int     `json:"minItems,omitempty"`
	MaxItems  *int     `json:"maxItems,omitempty"`

	Items                *Property            `json:"items,omitempty"`
	Properties           map[string]*Property `json:"properties,omitempty"`
	Required             []string             `json:"required,omitempty"`
	AdditionalProperties interface{}          `json:"additionalProperties,omitempty"`
}

// RequiredGroup is one alternative of an anyOf constraint
type RequiredGroup struct {
	Required []string `json:"required"`
}

// Schema is the object schema of a tool's input or output
type Schema struct {
	Type                 string               `json:"type"`
	Description          string               `json:"description,omitempty"`
	Properties           map[string]*Property `json:"properties"`
	Required             []string             `json:"required"`
	AdditionalProperties *bool                `json:"additionalProperties,omitempty"`
	AnyOf                []RequiredGroup      `json:"anyOf,omitempty"`
}

// ObjectSchema builds a closed input schema: unknown fields are rejected
func ObjectSchema(properties map[string]*Property, required ...string) Schema {
	if properties == nil {
		properties = map[string]*Property{}
	}
	if required == nil {
		required = []string{}
	}
	closed := false
	return Schema{
		Type:                 "object",
		Properties:           properties,
		Required:             required,
		AdditionalProperties: &closed,
	}
}

// AllowsAdditional reports whether fields outside Properties are accepted
func (s Schema) AllowsAdditional() bool {
	return s.AdditionalProperties == nil || *s.AdditionalProperties
}

// AsProperty embeds the schema as a nested property
func (s Schema) AsProperty(description string) *Property {
	p := &Property{
		Type:        s.Type,
		Description: description,
		Properties:  s.Properties,
		Required:    s.Required,
	}
	if s.AdditionalProperties != nil {
		p.AdditionalProperties = *s.AdditionalProperties
	}
	return p
}

// String, Integer, Number, Boolean, Array and Object are property shorthands

func String(description string) *Property { return &Property{Type: "string", Description: description} }

func Integer(description string) *Property {
	return &Property{Type: "integer", Description: description}
}

func Number(description string) *Property { return &Property{Type: "number", Description: description} }

func Boolean(description string) *Property {
	return &Property{Type: "boolean", Description: description}
}

func Array(description string, items *Property) *Property {
	return &Property{Type: "array", Description: description, Items: items}
}

func Object(description string, properties map[string]*Property) *Property {
	return &Property{Type: "object", Description: description, Properties: properties}
}

// WithLength sets minLength and maxLength; a negative bound is left unset
func (p *Property) WithLength(lo, hi int) *Property {
	if lo >= 0 {
		p.MinLength = &lo
	}
	if hi >= 0 {
		p.MaxLength = &hi
	}
	return p
}

// WithMinimum sets the inclusive lower bound
func (p *Property) WithMinimum(lo float64) *Property {
	p.Minimum = &lo
	return p
}

// WithMaximum sets the inclusive upper bound
func (p *Property) WithMaximum(hi float64) *Property {
	p.Maximum = &hi
	return p
}

// WithItems sets minItems and maxItems; a negative bound is left unset
func (p *Property) WithItems(lo, hi int) *Property {
	if lo >= 0 {
		p.MinItems = &lo
	}
	if hi >= 0 {
		p.MaxItems = &hi
	}
	return p
}

// WithEnum restricts the value to the given strings
func (p *Property) WithEnum(values ...string) *Property {
	p.Enum = make([]interface{}, len(values))
	for i, v := range values {
		p.Enum[i] = v
	}
	return p
}

// WithDefault documents the value used when the field is absent
func (p *Property) WithDefault(v interface{}) *Property {
	p.Default = v
	return p
}

// WithExamples documents example values
func (p *Property) WithExamples(values ...interface{}) *Property {
	p.Examples = values
	return p
}

// Reflect builds an output schema from the exported fields of v's type using
// its json and jsonschema struct tags. required replaces the reflected
// required list, which otherwise marks every field without omitempty.
func Reflect(v interface{}, required ...string) Schema {
	r := &jsonschema.Reflector{
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: true,
	}
	s := r.Reflect(v)
	if s == nil || s.Type != "object" {
		return Schema{Type: "object", Properties: map[string]*Property{}, Required: []string{}}
	}

	props := make(map[string]*Property)
	if s.Properties != nil {
		for el := s.Properties.Oldest(); el != nil; el = el.Next() {
			props[el.Key] = fromJSONSchema(el.Value)
		}
	}

	if required == nil {
		required = append([]string{}, s.Required...)
	}
	return Schema{Type: "object", Properties: props, Required: required}
}

func fromJSONSchema(s *jsonschema.Schema) *Property {
	if s == nil {
		return &Property{}
	}
	p := &Property{
		Type:        s.Type,
		Description: s.Description,
		Format:      s.Format,
	}
	if len(s.Enum) > 0 {
		p.Enum = s.Enum
	}
	if s.Type == "array" && s.Items != nil {
		p.Items = fromJSONSchema(s.Items)
	}
	if s.Type == "object" && s.Properties != nil {
		p.Properties = make(map[string]*Property, s.Properties.Len())
		for el := s.Properties.Oldest(); el != nil; el = el.Next() {
			p.Properties[el.Key] = fromJSONSchema(el.Value)
		}
		if len(s.Required) > 0 {
			p.Required = append([]string{}, s.Required...)
		}
	}
	return p
}
