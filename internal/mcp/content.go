package mcp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Content block types
const (
	ContentText         = "text"
	ContentImage        = "image"
	ContentAudio        = "audio"
	ContentResourceLink = "resource_link"
	ContentResource     = "resource"
)

// Annotations carry display hints for a content block
type Annotations struct {
	Audience     []string `json:"audience,omitempty"`
	Priority     float64  `json:"priority,omitempty"`
	LastModified string   `json:"lastModified,omitempty"`
	Category     string   `json:"category,omitempty"`
}

// Content is a tagged union of the five block types. Only the fields of the
// block's Type are serialized.
type Content struct {
	Type        string
	Text        string
	Data        string
	MimeType    string
	URI         string
	Name        string
	Description string
	Annotations *Annotations
}

// MarshalJSON emits the fields that belong to the block type
func (c Content) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{"type": c.Type}
	switch c.Type {
	case ContentText:
		out["text"] = c.Text
	case ContentImage, ContentAudio:
		out["data"] = c.Data
		out["mimeType"] = c.MimeType
	case ContentResourceLink:
		out["uri"] = c.URI
		out["name"] = c.Name
		if c.Description != "" {
			out["description"] = c.Description
		}
		if c.MimeType != "" {
			out["mimeType"] = c.MimeType
		}
	case ContentResource:
		out["uri"] = c.URI
		out["name"] = c.Name
		out["mimeType"] = c.MimeType
		out["text"] = c.Text
	default:
		return nil, fmt.Errorf("unknown content type %q", c.Type)
	}
	if c.Annotations != nil {
		out["annotations"] = c.Annotations
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads any of the five block types
func (c *Content) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type        string       `json:"type"`
		Text        string       `json:"text"`
		Data        string       `json:"data"`
		MimeType    string       `json:"mimeType"`
		URI         string       `json:"uri"`
		Name        string       `json:"name"`
		Description string       `json:"description"`
		Annotations *Annotations `json:"annotations"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = Content(raw)
	return nil
}

// TextContent creates a text block
func TextContent(text string, annotations *Annotations) Content {
	return Content{Type: ContentText, Text: text, Annotations: annotations}
}

// ImageContent creates an image block from base64 data
func ImageContent(data, mimeType string, annotations *Annotations) Content {
	return Content{Type: ContentImage, Data: data, MimeType: mimeType, Annotations: annotations}
}

// AudioContent creates an audio block from base64 data
func AudioContent(data, mimeType string, annotations *Annotations) Content {
	return Content{Type: ContentAudio, Data: data, MimeType: mimeType, Annotations: annotations}
}

// ResourceLinkContent points at a resource without embedding it
func ResourceLinkContent(r Resource, annotations *Annotations) Content {
	return Content{
		Type:        ContentResourceLink,
		URI:         r.URI,
		Name:        r.Name,
		Description: r.Description,
		MimeType:    r.MimeType,
		Annotations: annotations,
	}
}

// ResourceContent embeds a resource's text
func ResourceContent(r Resource, text string, annotations *Annotations) Content {
	return Content{
		Type:        ContentResource,
		URI:         r.URI,
		Name:        r.Name,
		MimeType:    r.MimeType,
		Text:        text,
		Annotations: annotations,
	}
}

// Formatter turns tool results and errors into content blocks
type Formatter struct {
	now func() time.Time
}

// NewFormatter creates a formatter stamping blocks with the current time
func NewFormatter() *Formatter {
	return &Formatter{now: time.Now}
}

func (f *Formatter) annotations(priority float64, category string) *Annotations {
	return &Annotations{
		Audience:     []string{"user", "assistant"},
		Priority:     priority,
		LastModified: f.now().UTC().Format(time.RFC3339),
		Category:     category,
	}
}

// Success renders a result as one text block. Strings pass through; anything
// else becomes indented JSON.
func (f *Formatter) Success(result interface{}) ([]Content, error) {
	text, ok := result.(string)
	if !ok {
		var err error
		text, err = indentJSON(result)
		if err != nil {
			return nil, err
		}
	}
	return []Content{TextContent(text, f.annotations(0.8, ""))}, nil
}

// Error renders a failure message as one low-priority text block
func (f *Formatter) Error(message string) []Content {
	return []Content{TextContent("Error: "+message, f.annotations(0.1, "error"))}
}

// Resource renders a resource body as an embedded resource block
func (f *Formatter) Resource(r Resource, text string) []Content {
	return []Content{ResourceContent(r, text, f.annotations(0.8, ""))}
}

func indentJSON(v interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("failed to format result: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// normalize converts a result into plain JSON data: maps, slices, strings,
// float64, bool and nil
func normalize(v interface{}) (interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize result: %w", err)
	}
	var out interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to normalize result: %w", err)
	}
	return out, nil
}

// isStructured reports whether v should also be attached as structuredContent
func isStructured(v interface{}) bool {
	switch v.(type) {
	case map[string]interface{}, []interface{}:
		return true
	default:
		return false
	}
}
