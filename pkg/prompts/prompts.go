// Package prompts holds the prompt templates used by the agents.
package prompts

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var defaultCatalogue []byte

// Catalogue is the parsed prompt file.
type Catalogue struct {
	Research      Template
	WeatherSystem string
}

// IsZero reports whether c was never loaded.
func (c Catalogue) IsZero() bool { return c.Research.tmpl == nil }

// catalogueFile mirrors prompts.yaml.
type catalogueFile struct {
	Research      string `yaml:"research"`
	WeatherSystem string `yaml:"weather_system"`
}

// Template renders a prompt that takes a task.
type Template struct {
	tmpl *template.Template
}

// Format renders the template for task.
func (t Template) Format(task string) (string, error) {
	if t.tmpl == nil {
		return "", errors.New("prompt template is not loaded")
	}
	var b strings.Builder
	if err := t.tmpl.Execute(&b, struct{ Task string }{Task: task}); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", t.tmpl.Name(), err)
	}
	return b.String(), nil
}

// Default returns the embedded catalogue.
func Default() Catalogue {
	c, err := Load(defaultCatalogue)
	if err != nil {
		panic(fmt.Sprintf("prompts: embedded catalogue: %v", err))
	}
	return c
}

// Load parses a YAML prompt catalogue.
func Load(data []byte) (Catalogue, error) {
	var f catalogueFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Catalogue{}, fmt.Errorf("parse prompts: %w", err)
	}
	if strings.TrimSpace(f.Research) == "" {
		return Catalogue{}, errors.New("prompts: research prompt is missing")
	}
	if strings.TrimSpace(f.WeatherSystem) == "" {
		return Catalogue{}, errors.New("prompts: weather_system prompt is missing")
	}
	tmpl, err := template.New("research").Option("missingkey=error").Parse(f.Research)
	if err != nil {
		return Catalogue{}, fmt.Errorf("parse research prompt: %w", err)
	}
	return Catalogue{
		Research:      Template{tmpl: tmpl},
		WeatherSystem: strings.TrimSpace(f.WeatherSystem),
	}, nil
}
