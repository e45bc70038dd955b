// Package catalog holds the static API definitions the runner executes,
// grouped by category. The set of categories is fixed once loaded.
package catalog

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Definition describes a single API call target.
type Definition struct {
	Name   string          `yaml:"name"`
	Method string          `yaml:"method"`
	URL    string          `yaml:"url"`
	Body   json.RawMessage `yaml:"-"`
}

// Category is an ordered, named group of definitions.
type Category struct {
	Name        string       `yaml:"name"`
	Definitions []Definition `yaml:"endpoints"`
}

// Catalog is an immutable, ordered set of categories.
type Catalog struct {
	categories []Category
	byName     map[string]int
}

type yamlDefinition struct {
	Name   string         `yaml:"name"`
	Method string         `yaml:"method"`
	URL    string         `yaml:"url"`
	Body   map[string]any `yaml:"body"`
}

type yamlCategory struct {
	Name      string           `yaml:"name"`
	Endpoints []yamlDefinition `yaml:"endpoints"`
}

type yamlFile struct {
	Categories []yamlCategory `yaml:"categories"`
}

// New builds a catalog from ordered categories.
func New(categories []Category) (*Catalog, error) {
	byName := make(map[string]int, len(categories))
	for i, cat := range categories {
		name := strings.TrimSpace(cat.Name)
		if name == "" {
			return nil, fmt.Errorf("category at index %d has no name", i)
		}
		if _, exists := byName[name]; exists {
			return nil, fmt.Errorf("duplicate category %q", name)
		}
		if len(cat.Definitions) == 0 {
			return nil, fmt.Errorf("category %q has no endpoints", name)
		}
		for j, def := range cat.Definitions {
			if strings.TrimSpace(def.Name) == "" {
				return nil, fmt.Errorf("category %q: endpoint at index %d has no name", name, j)
			}
			if strings.TrimSpace(def.URL) == "" {
				return nil, fmt.Errorf("category %q: endpoint %q has no url", name, def.Name)
			}
		}
		byName[name] = i
	}
	return &Catalog{categories: categories, byName: byName}, nil
}

// Load reads a catalog from a YAML file. Endpoint bodies are declared as
// YAML mappings and stored as JSON.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var file yamlFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(file.Categories) == 0 {
		return nil, fmt.Errorf("catalog %s declares no categories", path)
	}

	categories := make([]Category, 0, len(file.Categories))
	for _, yc := range file.Categories {
		defs := make([]Definition, 0, len(yc.Endpoints))
		for _, yd := range yc.Endpoints {
			def := Definition{
				Name:   yd.Name,
				Method: normalizeMethod(yd.Method),
				URL:    strings.TrimSpace(yd.URL),
			}
			if len(yd.Body) > 0 {
				body, err := json.Marshal(yd.Body)
				if err != nil {
					return nil, fmt.Errorf("category %q: endpoint %q: encode body: %w", yc.Name, yd.Name, err)
				}
				def.Body = body
			}
			defs = append(defs, def)
		}
		categories = append(categories, Category{Name: yc.Name, Definitions: defs})
	}
	return New(categories)
}

// Names returns category names in declaration order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.categories))
	for i, cat := range c.categories {
		names[i] = cat.Name
	}
	return names
}

// Definitions returns the ordered definitions for a category.
func (c *Catalog) Definitions(category string) ([]Definition, bool) {
	idx, ok := c.byName[category]
	if !ok {
		return nil, false
	}
	return c.categories[idx].Definitions, true
}

// Lookup finds a definition by category and endpoint name. The exporter
// uses this to recover Method and URL, which result records do not store.
func (c *Catalog) Lookup(category, name string) (Definition, bool) {
	defs, ok := c.Definitions(category)
	if !ok {
		return Definition{}, false
	}
	for _, def := range defs {
		if def.Name == name {
			return def, true
		}
	}
	return Definition{}, false
}

// Size returns the total number of definitions across all categories.
func (c *Catalog) Size() int {
	total := 0
	for _, cat := range c.categories {
		total += len(cat.Definitions)
	}
	return total
}

// WithBaseURL returns a copy of the catalog with relative endpoint URLs
// resolved against base. Absolute URLs are left untouched.
func (c *Catalog) WithBaseURL(base string) *Catalog {
	base = strings.TrimRight(base, "/")
	if base == "" {
		return c
	}
	categories := make([]Category, len(c.categories))
	for i, cat := range c.categories {
		defs := make([]Definition, len(cat.Definitions))
		copy(defs, cat.Definitions)
		for j, def := range defs {
			if strings.HasPrefix(def.URL, "/") {
				defs[j].URL = base + def.URL
			}
		}
		categories[i] = Category{Name: cat.Name, Definitions: defs}
	}
	resolved, err := New(categories)
	if err != nil {
		return c
	}
	return resolved
}

func normalizeMethod(method string) string {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		return http.MethodGet
	}
	return method
}

// Default returns the built-in demo catalog used when no catalog file is
// configured. The targets are public placeholder endpoints.
func Default() *Catalog {
	c, err := New([]Category{
		{
			Name: "SIM",
			Definitions: []Definition{
				{Name: "SIM Info Success", Method: http.MethodGet, URL: "https://jsonplaceholder.typicode.com/posts/1"},
				{Name: "SIM Info Fail", Method: http.MethodGet, URL: "https://jsonplaceholder.typicode.com/404"},
			},
		},
		{
			Name: "OTP",
			Definitions: []Definition{
				{Name: "Send OTP", Method: http.MethodPost, URL: "https://jsonplaceholder.typicode.com/posts",
					Body: json.RawMessage(`{"phone":"1234567890","message":"Your OTP is 1234"}`)},
			},
		},
		{
			Name: "Send",
			Definitions: []Definition{
				{Name: "Send Message", Method: http.MethodPost, URL: "https://jsonplaceholder.typicode.com/posts",
					Body: json.RawMessage(`{"user":"areej","text":"hello"}`)},
			},
		},
		{
			Name: "Valid",
			Definitions: []Definition{
				{Name: "Validate Email", Method: http.MethodGet, URL: "https://jsonplaceholder.typicode.com/comments/1"},
			},
		},
	})
	if err != nil {
		panic(err)
	}
	return c
}
