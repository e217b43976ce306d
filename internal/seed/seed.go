package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"productsmgmt/internal/domain"
	"productsmgmt/internal/logging"
	productsvc "productsmgmt/internal/service/product"
)

// ProductCreator is the catalog operation seed data goes through, so seeded
// rows carry a converted price like any other product.
type ProductCreator interface {
	Create(ctx context.Context, in productsvc.CreateInput) (*domain.Product, error)
}

// DemoProducts is the fixed demo catalog.
var DemoProducts = []productsvc.CreateInput{
	{Code: "DEMOTSHIRT", Name: "Demo T-Shirt", PriceInBase: decimal.RequireFromString("19.99"), Available: true},
	{Code: "DEMOMUG001", Name: "Demo Mug", PriceInBase: decimal.RequireFromString("12.99"), Available: true},
	{Code: "DEMOLAPTOP", Name: "Demo Laptop", PriceInBase: decimal.RequireFromString("1299.00"), Available: false},
}

// Apply creates the demo products. Codes that already exist are left alone,
// so running it twice is harmless. It returns how many were created.
func Apply(ctx context.Context, creator ProductCreator, logger *logrus.Logger) (int, error) {
	logger = logging.OrDiscard(logger)
	created := 0
	for _, in := range DemoProducts {
		p, err := creator.Create(ctx, in)
		if errors.Is(err, domain.ErrDuplicateCode) {
			logger.WithField("code", in.Code).Info("seed: product already present")
			continue
		}
		if err != nil {
			return created, fmt.Errorf("seed product %s: %w", in.Code, err)
		}
		created++
		logger.WithFields(logrus.Fields{"code": p.Code, "id": p.ID}).Info("seed: product created")
	}
	return created, nil
}
