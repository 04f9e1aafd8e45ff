package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed products.yaml
var defaultProducts []byte

type productRecord struct {
	ID       int    `yaml:"id"`
	Name     string `yaml:"name"`
	Price    int64  `yaml:"price"`
	Image    string `yaml:"image"`
	Category string `yaml:"category"`
}

// Catalog is the immutable product list built once at process start.
type Catalog struct {
	products []Product
	byID     map[ProductID]Product
}

func New(products []Product) (*Catalog, error) {
	if len(products) == 0 {
		return nil, ErrEmptyCatalog
	}
	byID := make(map[ProductID]Product, len(products))
	for _, p := range products {
		if _, exists := byID[p.ID()]; exists {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateProductID, p.ID())
		}
		byID[p.ID()] = p
	}
	list := make([]Product, len(products))
	copy(list, products)
	return &Catalog{products: list, byID: byID}, nil
}

// Load reads the catalog from path, or the embedded default list when path is empty.
func Load(path string) (*Catalog, error) {
	data := defaultProducts
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		data = b
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var records []productRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	products := make([]Product, 0, len(records))
	for _, r := range records {
		p, err := NewProduct(ProductID(r.ID), r.Name, r.Price, r.Image, r.Category)
		if err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", r.ID, err)
		}
		products = append(products, p)
	}
	return New(products)
}

func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *Catalog) Find(id ProductID) (Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}
