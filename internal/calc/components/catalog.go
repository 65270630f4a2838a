// Package components is the catalog of default mooring component
// specifications offered by the calculator form.
package components

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"

	catenary "Mooring/internal/calc/catenary"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

type Category struct {
	Type        catenary.ComponentType `yaml:"type" json:"type"`
	Key         string                 `yaml:"key" json:"key"`
	Description string                 `yaml:"description" json:"description"`
	Sizes       []string               `yaml:"sizes" json:"sizes"`
	OptionKind  string                 `yaml:"optionKind" json:"optionKind"`
	Options     []string               `yaml:"options" json:"options"`
}

// Spec holds the default values for one type and size.
type Spec struct {
	Key           string                 `yaml:"key" json:"key"`
	Type          catenary.ComponentType `yaml:"type" json:"type"`
	SizeMM        float64                `yaml:"size" json:"size"`
	Weight        float64                `yaml:"weight" json:"weight"`
	Stiffness     float64                `yaml:"stiffness" json:"stiffness"`
	MBL           float64                `yaml:"mbl" json:"mbl"`
	Option        string                 `yaml:"option" json:"option"`
	DefaultLength float64                `yaml:"defaultLength" json:"defaultLength"`
}

// Size is the catalog label of the spec, e.g. "76mm".
func (s Spec) Size() string { return fmt.Sprintf("%gmm", s.SizeMM) }

// Input fills a line input from the spec. Tension and depth come from the caller.
func (s Spec) Input(fairleadTension, waterDepth float64) catenary.LineInput {
	return catenary.LineInput{
		FairleadTension:    fairleadTension,
		WaterDepth:         waterDepth,
		ComponentType:      s.Type,
		ComponentSize:      s.Size(),
		ComponentLength:    s.DefaultLength,
		ComponentWeight:    s.Weight,
		ComponentStiffness: s.Stiffness,
		ComponentMBL:       s.MBL,
	}
}

type Catalog struct {
	Categories []Category `yaml:"categories"`
	Defaults   []Spec     `yaml:"defaults"`

	byKey map[string]Spec
}

// Parse decodes and checks a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	c.byKey = make(map[string]Spec, len(c.Defaults))
	for _, cat := range c.Categories {
		if !cat.Type.Valid() {
			return nil, fmt.Errorf("catalog category %q: unknown component type", cat.Type)
		}
	}
	for _, s := range c.Defaults {
		if !s.Type.Valid() {
			return nil, fmt.Errorf("catalog entry %s: unknown component type %q", s.Key, s.Type)
		}
		if !(s.Weight > 0 && s.Stiffness > 0 && s.MBL > 0 && s.DefaultLength > 0) {
			return nil, fmt.Errorf("catalog entry %s: values must be positive", s.Key)
		}
		if _, dup := c.byKey[strings.ToLower(s.Key)]; dup {
			return nil, fmt.Errorf("catalog entry %s: duplicate key", s.Key)
		}
		c.byKey[strings.ToLower(s.Key)] = s
	}
	return &c, nil
}

var builtin = mustParse(catalogYAML)

func mustParse(b []byte) *Catalog {
	c, err := Parse(b)
	if err != nil {
		panic(err)
	}
	return c
}

// Default returns the embedded catalog.
func Default() *Catalog { return builtin }

// Category looks a category up by component type or by its short key
// ("Wire", "Polyester"), ignoring case.
func (c *Catalog) Category(name string) (Category, bool) {
	for _, cat := range c.Categories {
		if strings.EqualFold(string(cat.Type), name) || strings.EqualFold(cat.Key, name) {
			return cat, true
		}
	}
	return Category{}, false
}

// Lookup returns the defaults for a type and size such as ("Chain", "76mm").
// It returns false when the catalog has no defaults for that combination.
func (c *Catalog) Lookup(typ, size string) (Spec, bool) {
	cat, ok := c.Category(typ)
	if !ok {
		return Spec{}, false
	}
	return c.LookupKey(cat.Key + "-" + size)
}

// LookupKey accepts the combined key form, e.g. "Chain-76mm".
func (c *Catalog) LookupKey(key string) (Spec, bool) {
	s, ok := c.byKey[strings.ToLower(strings.TrimSpace(key))]
	return s, ok
}

// Sizes lists the sizes offered for a type, including those without defaults.
func (c *Catalog) Sizes(typ string) []string {
	cat, ok := c.Category(typ)
	if !ok {
		return nil
	}
	return cat.Sizes
}

// Options lists grades, constructions or materials for a type.
func (c *Catalog) Options(typ string) []string {
	cat, ok := c.Category(typ)
	if !ok {
		return nil
	}
	return cat.Options
}
