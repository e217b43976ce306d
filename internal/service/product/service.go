package product

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"productsmgmt/internal/domain"
	"productsmgmt/internal/logging"
	"productsmgmt/internal/metrics"
	"productsmgmt/internal/pricing"
	productrepo "productsmgmt/internal/repository/product"
	"productsmgmt/internal/validation"
)

// TargetCurrency is the currency every converted price is expressed in.
const TargetCurrency = domain.USD

// RateSource supplies exchange rates relative to the base currency.
type RateSource interface {
	Rate(ctx context.Context, currency domain.Currency) (decimal.Decimal, error)
}

// CreateInput is the command for adding a product.
type CreateInput struct {
	Code        string          `json:"code" label:"Code" validate:"len=10"`
	Name        string          `json:"name" label:"Name" validate:"notblank"`
	PriceInBase decimal.Decimal `json:"priceInBase" label:"Price in base" validate:"gte=0"`
	Available   bool            `json:"available"`
}

type Service struct {
	repo      productrepo.Repository
	rates     RateSource
	validator *validation.Validator
	logger    *logrus.Logger
	metrics   *metrics.Metrics
}

func New(repo productrepo.Repository, rates RateSource, logger *logrus.Logger, m *metrics.Metrics) *Service {
	return &Service{
		repo:      repo,
		rates:     rates,
		validator: validation.New(),
		logger:    logging.OrDiscard(logger),
		metrics:   m,
	}
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	s.logger.Debugf("product service: get id=%d", id)
	p, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.Errorf(domain.ErrNotFound, "product with given id %d not found", id)
	}
	return p, err
}

func (s *Service) GetByCode(ctx context.Context, code string) (*domain.Product, error) {
	s.logger.Debugf("product service: get code=%s", code)
	p, err := s.repo.FindByCode(ctx, code)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.Errorf(domain.ErrNotFound, "product with the given code '%s' not found", code)
	}
	return p, err
}

func (s *Service) List(ctx context.Context, req domain.PageRequest) (domain.Page[domain.Product], error) {
	return s.repo.FindAll(ctx, req)
}

// Create stores a new product with its converted price. Nothing is saved
// when the code is taken or no exchange rate can be obtained.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Product, error) {
	if err := s.validator.Struct(in); err != nil {
		s.metrics.CreateFailed("invalid")
		return nil, err
	}
	log := s.logger.WithField("code", in.Code)
	log.Info("product service: creating product")

	exists, err := s.repo.ExistsByCode(ctx, in.Code)
	if err != nil {
		s.metrics.CreateFailed("storage")
		return nil, err
	}
	if exists {
		log.Warn("product service: duplicate code")
		s.metrics.CreateFailed("duplicate")
		return nil, duplicateCode(in.Code)
	}

	p := domain.Product{
		Code:      in.Code,
		Name:      in.Name,
		PriceBase: pricing.Normalize(in.PriceInBase),
		Available: in.Available,
	}

	rate, err := s.rates.Rate(ctx, TargetCurrency)
	if err != nil {
		log.WithError(err).Error("product service: exchange rate unavailable")
		s.metrics.CreateFailed("rate_unavailable")
		if errors.Is(err, domain.ErrRateUnavailable) {
			return nil, err
		}
		return nil, domain.Errorf(domain.ErrRateUnavailable, "failed to fetch exchange rate for currency: %s", TargetCurrency)
	}
	converted := pricing.Convert(p.PriceBase, rate)
	p.PriceConverted = &converted

	saved, err := s.repo.Save(ctx, p)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			log.Warn("product service: duplicate code on insert")
			s.metrics.CreateFailed("duplicate")
			return nil, duplicateCode(in.Code)
		}
		s.metrics.CreateFailed("storage")
		return nil, err
	}

	s.metrics.ProductCreated()
	log.WithField("id", saved.ID).Info("product service: product created")
	return saved, nil
}

func duplicateCode(code string) error {
	return domain.Errorf(domain.ErrDuplicateCode, "product with the code %s already exists", code)
}
