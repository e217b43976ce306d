package product

import (
	"context"

	"productsmgmt/internal/domain"
)

// Repository persists products. FindByID and FindByCode return
// domain.ErrNotFound when nothing matches; Save returns
// domain.ErrAlreadyExists on a code collision.
type Repository interface {
	Save(ctx context.Context, p domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	FindByCode(ctx context.Context, code string) (*domain.Product, error)
	FindAll(ctx context.Context, req domain.PageRequest) (domain.Page[domain.Product], error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// sortColumns maps API sort fields to columns.
var sortColumns = map[string]string{
	"id":             "id",
	"code":           "code",
	"name":           "name",
	"priceInBase":    "price_in_eur",
	"priceConverted": "price_in_usd",
	"available":      "is_available",
}

// SortColumn resolves an API sort field, reporting whether it is allowed.
func SortColumn(field string) (string, bool) {
	col, ok := sortColumns[field]
	return col, ok
}
