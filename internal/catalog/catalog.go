// Package catalog holds the static collateral-asset catalog. It is built
// once at startup and never mutated afterwards.
package catalog

import (
	"fmt"
	"strings"

	"telegram-docs-bank/internal/domain"
	"telegram-docs-bank/internal/domain/model"
)

type Catalog struct {
	byKey map[string]model.AssetDescriptor
	order []string
}

// New builds a catalog from the given descriptors, preserving their order.
// Descriptors without a SourceURL get baseURL + "/" + Filename. Duplicate or
// invalid keys are rejected.
func New(assets []model.AssetDescriptor, baseURL string) (*Catalog, error) {
	c := &Catalog{byKey: make(map[string]model.AssetDescriptor, len(assets))}
	for i := range assets {
		a := assets[i]
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("asset %q: %w", a.Key, err)
		}
		if _, dup := c.byKey[a.Key]; dup {
			return nil, fmt.Errorf("asset %q: duplicate key: %w", a.Key, domain.ErrInvalidArgument)
		}
		if a.SourceURL == "" && baseURL != "" {
			a.SourceURL = strings.TrimRight(baseURL, "/") + "/" + a.Filename
		}
		c.byKey[a.Key] = a
		c.order = append(c.order, a.Key)
	}
	return c, nil
}

// Lookup resolves an asset by its key. Returns domain.ErrNotFound on a miss.
func (c *Catalog) Lookup(key string) (model.AssetDescriptor, error) {
	a, ok := c.byKey[key]
	if !ok {
		return model.AssetDescriptor{}, domain.ErrNotFound
	}
	return a, nil
}

// List returns all assets in insertion order.
func (c *Catalog) List() []model.AssetDescriptor {
	out := make([]model.AssetDescriptor, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.byKey[k])
	}
	return out
}

// Search does a case-insensitive substring match over key and title.
func (c *Catalog) Search(query string) []model.AssetDescriptor {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []model.AssetDescriptor
	for _, k := range c.order {
		a := c.byKey[k]
		if strings.Contains(strings.ToLower(a.Key), q) || strings.Contains(strings.ToLower(a.Title), q) {
			out = append(out, a)
		}
	}
	return out
}

func (c *Catalog) Len() int { return len(c.order) }

// Default returns the built-in asset set, kept in sync with the mini-app.
func Default() []model.AssetDescriptor {
	return []model.AssetDescriptor{
		{Key: "business-center", Icon: "🏢", Title: "Business center", Description: "Office buildings and business centers", Documents: 15, Processing: "7-10 days", Filename: "business-center.pdf"},
		{Key: "shopping-center", Icon: "🛍️", Title: "Shopping center", Description: "Shopping centers and retail complexes", Documents: 18, Processing: "10-14 days", Filename: "shopping-center.pdf"},
		{Key: "warehouse", Icon: "📦", Title: "Warehouse", Description: "Warehouse facilities and complexes", Documents: 12, Processing: "5-7 days", Filename: "warehouse.pdf"},
		{Key: "hotel", Icon: "🏨", Title: "Hotel", Description: "Hotel complexes", Documents: 20, Processing: "14-21 days", Filename: "hotel.pdf"},
		{Key: "business", Icon: "💼", Title: "Business", Description: "Business shares and equity stakes", Documents: 25, Processing: "21-30 days", Filename: "business.pdf"},
		{Key: "property-complex", Icon: "🏗️", Title: "Property complex", Description: "Integrated property complexes", Documents: 22, Processing: "14-21 days", Filename: "property-complex.pdf"},
		{Key: "machinery-equipment", Icon: "⚙️", Title: "Machinery and equipment", Description: "Industrial machinery and equipment", Documents: 16, Processing: "7-14 days", Filename: "machinery-equipment.pdf"},
		{Key: "residential-rights", Icon: "🏠", Title: "Residential property rights", Description: "Rights to residential real estate", Documents: 14, Processing: "10-14 days", Filename: "residential-rights.pdf"},
	}
}
