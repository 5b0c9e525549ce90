package entity

import "strings"

type Asset struct {
	ID      string
	Preview string
	Source  string
}

type Collection struct {
	ID       string
	Name     string
	Slug     string
	ParentID string
}

// ProductTile is the listing projection of a product.
type ProductTile struct {
	ID            string
	Slug          string
	Name          string
	FeaturedAsset *Asset
	PriceWithTax  int64
	Currency      string
}

type Product struct {
	ID            string
	Slug          string
	Name          string
	Description   string
	FeaturedAsset *Asset
	Assets        []Asset
	Variants      []ProductVariant
}

type ProductVariant struct {
	ID           string
	Name         string
	SKU          string
	PriceWithTax int64
	Currency     string
}

// Size is a variant label with the product name removed.
type Size struct {
	VariantID string
	Label     string
}

// Sizes derives the size selector from variant names, e.g. "Tee XL" → "XL".
func (p Product) Sizes() []Size {
	out := make([]Size, 0, len(p.Variants))
	for _, v := range p.Variants {
		out = append(out, Size{
			VariantID: v.ID,
			Label:     strings.TrimSpace(strings.Replace(v.Name, p.Name, "", 1)),
		})
	}
	return out
}
