package gemini

import (
	"fmt"

	"swarm-agents/internal/config"
)

// Model is one entry of the model picker.
type Model struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

var defaultModels = []Model{
	{Name: "gemini-pro", Label: "Gemini Pro (Text)"},
	{Name: "gemini-pro-vision", Label: "Gemini Pro Vision (Multimodal)"},
	{Name: "gemini-1.5-pro-latest", Label: "Gemini 1.5 Pro"},
	{Name: "gemini-1.5-flash-latest", Label: "Gemini 1.5 Flash"},
	{Name: "gemma-3-4b-it", Label: "Gemma 3 4B IT"},
	{Name: "gemma-3-1b-it", Label: "Gemma 3 1B IT"},
}

// Catalog is the fixed list of selectable models. The first is the default.
type Catalog struct {
	models []Model
}

// NewCatalog uses the configured models, or the built-in list when none are configured.
func NewCatalog(configured []config.ModelConfig) *Catalog {
	if len(configured) == 0 {
		models := make([]Model, len(defaultModels))
		copy(models, defaultModels)
		return &Catalog{models: models}
	}
	models := make([]Model, 0, len(configured))
	for _, m := range configured {
		if m.Name == "" {
			continue
		}
		label := m.Label
		if label == "" {
			label = m.Name
		}
		models = append(models, Model{Name: m.Name, Label: label})
	}
	if len(models) == 0 {
		return NewCatalog(nil)
	}
	return &Catalog{models: models}
}

func (c *Catalog) Models() []Model {
	out := make([]Model, len(c.models))
	copy(out, c.models)
	return out
}

func (c *Catalog) Default() string {
	return c.models[0].Name
}

func (c *Catalog) Has(name string) bool {
	for _, m := range c.models {
		if m.Name == name {
			return true
		}
	}
	return false
}

// Resolve maps an empty selection to the default and rejects unknown names.
func (c *Catalog) Resolve(name string) (string, error) {
	if name == "" {
		return c.Default(), nil
	}
	if !c.Has(name) {
		return name, fmt.Errorf("%w: %s", ErrUnknownModel, name)
	}
	return name, nil
}
