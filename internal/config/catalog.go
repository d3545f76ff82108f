package config

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"recipe-shopper/internal/ingredient"
)

// Catalog is the unit set and the ordered category keyword rules.
type Catalog struct {
	Units       []string       `yaml:"units"`
	DefaultUnit string         `yaml:"default_unit"`
	Categories  []CategoryRule `yaml:"categories"`
	Fallback    string         `yaml:"fallback"`
}

// CategoryRule lists the keywords selecting one category. Rules are
// evaluated in file order.
type CategoryRule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// DefaultCatalog returns the built-in units and category rules.
func DefaultCatalog() *Catalog {
	c := &Catalog{DefaultUnit: string(ingredient.Piece), Fallback: string(ingredient.Other)}
	for _, u := range ingredient.DefaultUnits() {
		c.Units = append(c.Units, string(u))
	}
	for _, r := range ingredient.DefaultRules() {
		c.Categories = append(c.Categories, CategoryRule{Name: string(r.Category), Keywords: r.Keywords})
	}
	return c
}

// LoadCatalog reads a catalog from a YAML file. An empty path or a missing
// file yields the defaults; sections left out of the file keep their defaults.
func LoadCatalog(path string) (*Catalog, error) {
	cat := DefaultCatalog()
	if path == "" {
		return cat, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cat, nil
		}
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var file Catalog
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(file.Units) > 0 {
		cat.Units = file.Units
	}
	if file.DefaultUnit != "" {
		cat.DefaultUnit = file.DefaultUnit
	}
	if len(file.Categories) > 0 {
		cat.Categories = file.Categories
	}
	if file.Fallback != "" {
		cat.Fallback = file.Fallback
	}

	if err := cat.validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

func (c *Catalog) validate() error {
	for _, r := range c.Categories {
		if !slices.Contains(ingredient.Categories, ingredient.Category(r.Name)) {
			return fmt.Errorf("unknown category %q in catalog", r.Name)
		}
	}
	if !slices.Contains(ingredient.Categories, ingredient.Category(c.Fallback)) {
		return fmt.Errorf("unknown fallback category %q in catalog", c.Fallback)
	}
	for _, u := range c.Units {
		if u == "" {
			return fmt.Errorf("empty unit in catalog")
		}
	}
	if !slices.Contains(c.Units, c.DefaultUnit) {
		return fmt.Errorf("default unit %q is not one of the catalog units", c.DefaultUnit)
	}
	return nil
}

// UnitSet returns the configured units.
func (c *Catalog) UnitSet() ingredient.UnitSet {
	set := make(ingredient.UnitSet, 0, len(c.Units))
	for _, u := range c.Units {
		set = append(set, ingredient.Unit(u))
	}
	return set
}

// Categorizer builds a categorizer from the configured rules.
func (c *Catalog) Categorizer() *ingredient.Categorizer {
	rules := make([]ingredient.Rule, 0, len(c.Categories))
	for _, r := range c.Categories {
		rules = append(rules, ingredient.Rule{Category: ingredient.Category(r.Name), Keywords: r.Keywords})
	}
	return ingredient.NewCategorizer(rules, ingredient.Category(c.Fallback))
}
