// Package product defines the catalog types the cart and order domains
// consume. The catalog itself is read-only from this module's perspective.
package product

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/foodlavka/shop-api/internal/domain/money"
)

// ErrNotExist indicates a requested product is not present in the catalog.
var ErrNotExist = errors.New("product not exist")

// Category is a catalog category reference embedded in product snapshots.
type Category struct {
	ID   string `bson:"_id" json:"id"`
	Name string `bson:"name" json:"name"`
	Slug string `bson:"slug" json:"slug"`
}

// Snapshot is the product state captured when the product enters a cart.
// It is a copy, not a live reference: later catalog changes do not affect
// line items that already embed a snapshot.
type Snapshot struct {
	ID          string       `bson:"_id" json:"id"`
	Name        string       `bson:"name" json:"name"`
	Description string       `bson:"description,omitempty" json:"description,omitempty"`
	ImgSrc      []string     `bson:"imgsrc,omitempty" json:"imgsrc,omitempty"`
	Price       money.Money  `bson:"price" json:"price"`
	SalePrice   *money.Money `bson:"sale_price,omitempty" json:"sale_price,omitempty"`
	Weight      string       `bson:"weight,omitempty" json:"weight,omitempty"`
	Categories  []Category   `bson:"categories,omitempty" json:"categories,omitempty"`
}

// OnSale reports whether the product carries an active sale price.
func (s *Snapshot) OnSale() bool {
	return s.SalePrice != nil && *s.SalePrice > 0
}

// EffectiveUnitPrice returns the sale price when the product is on sale,
// otherwise the base price.
func (s *Snapshot) EffectiveUnitPrice() money.Money {
	if s.OnSale() {
		return *s.SalePrice
	}
	return s.Price
}

// Repository provides catalog lookups. Implementations return ErrNotExist
// when an id does not match any product.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Snapshot, error)
	// GetByIDs returns the snapshots for the given ids. Unknown ids are
	// skipped, not an error; gift resolution relies on that.
	GetByIDs(ctx context.Context, ids []string) ([]Snapshot, error)
}
