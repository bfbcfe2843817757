package model

import (
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// ObjectType identifies an entry in the object catalog (e.g. "Dirt", "Door").
type ObjectType string

// Air is the erase tool. It is a palette selection, never a catalog entry.
const Air ObjectType = "Air"

// Frequently referenced catalog entries.
const (
	Dirt      ObjectType = "Dirt"
	Stone     ObjectType = "Stone"
	WoodPlank ObjectType = "WoodPlank"
	Door      ObjectType = "Door"
	Apple     ObjectType = "Apple"
	Bird      ObjectType = "Bird"
	Fish      ObjectType = "Fish"
	Insect    ObjectType = "Insect"
)

// ErrUnknownType is returned when an object type is not in the catalog.
var ErrUnknownType = errors.New("unknown object type")

// Size is an unrotated, axis-aligned width and height in canvas units.
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// IsZero reports whether the size has no area. A zero size is the
// sentinel for "type missing from the dimension table".
func (s Size) IsZero() bool {
	return s.Width <= 0 || s.Height <= 0
}

// ObjectSpec is one resolved catalog entry.
type ObjectSpec struct {
	Type     ObjectType
	Category string
	Size     Size
	Color    color.NRGBA
	Exempt   bool
}

// Category groups catalog types for the palette.
type Category struct {
	Name  string
	Types []ObjectType
}

// Catalog is the immutable, process-wide object table. It is resolved once
// from YAML at startup; lookups after that are plain map reads.
type Catalog struct {
	specs      map[ObjectType]ObjectSpec
	order      []ObjectType
	categories []Category
	exempt     map[ObjectType]bool
	starting   map[ObjectType]int
}

type catalogFile struct {
	Exempt            []string         `yaml:"exempt"`
	StartingInventory map[string]int   `yaml:"starting_inventory"`
	Categories        []categoryRecord `yaml:"categories"`
}

type categoryRecord struct {
	Name   string        `yaml:"name"`
	Types  []typeRecord  `yaml:"types"`
	Colors []colorRecord `yaml:"colors"`
	Shapes []shapeRecord `yaml:"shapes"`
}

type typeRecord struct {
	Type   string  `yaml:"type"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Color  string  `yaml:"color"`
}

type colorRecord struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

type shapeRecord struct {
	Suffix string  `yaml:"suffix"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

var (
	defaultCatalog     *Catalog
	defaultCatalogOnce sync.Once
)

// DefaultCatalog returns the built-in catalog. It panics if the embedded
// document is malformed, which can only happen with a broken build.
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		c, err := ParseCatalog(defaultCatalogYAML)
		if err != nil {
			panic(fmt.Sprintf("embedded catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// LoadCatalogFile reads and resolves a catalog YAML document from disk.
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog resolves a catalog YAML document into a typed table.
// Colour categories expand into one type per colour and shape
// (e.g. "Red" x "Slab" -> "RedSlab").
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c := &Catalog{
		specs:    make(map[ObjectType]ObjectSpec),
		exempt:   make(map[ObjectType]bool, len(file.Exempt)),
		starting: make(map[ObjectType]int, len(file.StartingInventory)),
	}
	for _, name := range file.Exempt {
		c.exempt[ObjectType(name)] = true
	}

	for _, cat := range file.Categories {
		group := Category{Name: cat.Name}
		for _, tr := range cat.Types {
			col, err := parseHexColor(tr.Color)
			if err != nil {
				return nil, fmt.Errorf("type %q: %w", tr.Type, err)
			}
			if err := c.add(ObjectType(tr.Type), cat.Name, Size{tr.Width, tr.Height}, col); err != nil {
				return nil, err
			}
			group.Types = append(group.Types, ObjectType(tr.Type))
		}
		for _, cr := range cat.Colors {
			col, err := parseHexColor(cr.Color)
			if err != nil {
				return nil, fmt.Errorf("colour %q: %w", cr.Name, err)
			}
			for _, sh := range cat.Shapes {
				t := ObjectType(cr.Name + sh.Suffix)
				if err := c.add(t, cat.Name, Size{sh.Width, sh.Height}, col); err != nil {
					return nil, err
				}
				group.Types = append(group.Types, t)
			}
		}
		c.categories = append(c.categories, group)
	}

	for name, n := range file.StartingInventory {
		t := ObjectType(name)
		if _, ok := c.specs[t]; !ok {
			return nil, fmt.Errorf("starting inventory: %w: %s", ErrUnknownType, name)
		}
		if n < 0 {
			return nil, fmt.Errorf("starting inventory: negative count for %s", name)
		}
		c.starting[t] = n
	}
	for t := range c.exempt {
		if _, ok := c.specs[t]; !ok {
			return nil, fmt.Errorf("exempt list: %w: %s", ErrUnknownType, t)
		}
	}
	for t, spec := range c.specs {
		spec.Exempt = c.exempt[t]
		c.specs[t] = spec
	}
	return c, nil
}

func (c *Catalog) add(t ObjectType, category string, size Size, col color.NRGBA) error {
	if t == "" {
		return fmt.Errorf("category %q: empty type name", category)
	}
	if t == Air {
		return fmt.Errorf("%q is reserved for the erase tool", Air)
	}
	if size.IsZero() {
		return fmt.Errorf("type %q: width and height must be > 0", t)
	}
	if _, dup := c.specs[t]; dup {
		return fmt.Errorf("type %q defined twice", t)
	}
	c.specs[t] = ObjectSpec{Type: t, Category: category, Size: size, Color: col}
	c.order = append(c.order, t)
	return nil
}

// Lookup returns the catalog entry for a type.
func (c *Catalog) Lookup(t ObjectType) (ObjectSpec, bool) {
	spec, ok := c.specs[t]
	return spec, ok
}

// Size returns the unrotated size of a type, or the zero Size when the
// type is missing from the table.
func (c *Catalog) Size(t ObjectType) Size {
	return c.specs[t].Size
}

// Has reports whether the type is a catalog entry.
func (c *Catalog) Has(t ObjectType) bool {
	_, ok := c.specs[t]
	return ok
}

// IsExempt reports whether the type is excluded from collision checks.
func (c *Catalog) IsExempt(t ObjectType) bool {
	return c.exempt[t]
}

// Order returns all catalog types in palette order.
func (c *Catalog) Order() []ObjectType {
	out := make([]ObjectType, len(c.order))
	copy(out, c.order)
	return out
}

// Categories returns the palette groups in order.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	for i, cat := range c.categories {
		out[i] = Category{Name: cat.Name, Types: append([]ObjectType(nil), cat.Types...)}
	}
	return out
}

// StartingInventory returns the stock a brand new profile receives. Every
// catalog type is listed so the palette shows it, most at zero.
func (c *Catalog) StartingInventory() Inventory {
	counts := make(map[ObjectType]int, len(c.order))
	for _, t := range c.order {
		counts[t] = c.starting[t]
	}
	return NewInventory(counts)
}

func parseHexColor(s string) (color.NRGBA, error) {
	if s == "" {
		return color.NRGBA{R: 128, G: 128, B: 128, A: 255}, nil
	}
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}
