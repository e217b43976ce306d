package product

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"productsmgmt/internal/domain"
	"productsmgmt/internal/metrics"
)

// memoryRepo is a lightweight in-memory product repository for tests.
type memoryRepo struct {
	mu        sync.Mutex
	byID      map[int64]domain.Product
	nextID    int64
	saveCalls int
	// raceOnSave makes Save report a unique violation, as if another
	// request inserted the same code after ExistsByCode.
	raceOnSave bool
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byID: make(map[int64]domain.Product)}
}

func (r *memoryRepo) Save(_ context.Context, p domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveCalls++
	if r.raceOnSave {
		return nil, domain.ErrAlreadyExists
	}
	for _, existing := range r.byID {
		if existing.Code == p.Code {
			return nil, domain.ErrAlreadyExists
		}
	}
	r.nextID++
	p.ID = r.nextID
	p.CreatedAt = time.Now()
	r.byID[p.ID] = p
	clone := p
	return &clone, nil
}

func (r *memoryRepo) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (r *memoryRepo) FindByCode(_ context.Context, code string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.byID {
		if p.Code == code {
			clone := p
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryRepo) FindAll(_ context.Context, req domain.PageRequest) (domain.Page[domain.Product], error) {
	if err := req.Validate(); err != nil {
		return domain.Page[domain.Product]{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]domain.Product, 0, len(r.byID))
	for _, p := range r.byID {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	start := req.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + req.Size
	if end > len(all) {
		end = len(all)
	}
	return domain.NewPage(all[start:end], int64(len(all)), req.Size), nil
}

func (r *memoryRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	_, err := r.FindByCode(ctx, code)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

type stubRates struct {
	rate  decimal.Decimal
	err   error
	calls int
}

func (s *stubRates) Rate(_ context.Context, _ domain.Currency) (decimal.Decimal, error) {
	s.calls++
	return s.rate, s.err
}

func laptop() CreateInput {
	return CreateInput{
		Code:        "PROD123456",
		Name:        "Laptop",
		PriceInBase: decimal.RequireFromString("100.01"),
		Available:   true,
	}
}

func TestCreateConvertsPrice(t *testing.T) {
	repo := newMemoryRepo()
	svc := New(repo, &stubRates{rate: decimal.RequireFromString("1.1")}, nil, metrics.New())

	p, err := svc.Create(context.Background(), laptop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID == 0 {
		t.Fatalf("expected id to be assigned")
	}
	if p.PriceConverted == nil || p.PriceConverted.StringFixed(2) != "110.01" {
		t.Fatalf("expected converted price 110.01, got %v", p.PriceConverted)
	}
	if p.PriceBase.StringFixed(2) != "100.01" {
		t.Fatalf("expected base price 100.01, got %s", p.PriceBase)
	}
}

func TestCreateNormalizesBasePrice(t *testing.T) {
	svc := New(newMemoryRepo(), &stubRates{rate: decimal.RequireFromString("1")}, nil, nil)
	in := laptop()
	in.PriceInBase = decimal.RequireFromString("10.005")

	p, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.PriceBase.StringFixed(2) != "10.01" || p.PriceConverted.StringFixed(2) != "10.01" {
		t.Fatalf("unexpected prices %s / %s", p.PriceBase, p.PriceConverted)
	}
}

func TestCreateDuplicateCodeDoesNotSave(t *testing.T) {
	repo := newMemoryRepo()
	rates := &stubRates{rate: decimal.RequireFromString("1.1")}
	svc := New(repo, rates, nil, nil)

	if _, err := svc.Create(context.Background(), laptop()); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.Create(context.Background(), laptop())
	if !errors.Is(err, domain.ErrDuplicateCode) {
		t.Fatalf("expected ErrDuplicateCode, got %v", err)
	}
	if err.Error() != "product with the code PROD123456 already exists" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if repo.saveCalls != 1 {
		t.Fatalf("expected a single save, got %d", repo.saveCalls)
	}
	if rates.calls != 1 {
		t.Fatalf("expected no rate lookup for the duplicate, got %d calls", rates.calls)
	}
}

func TestCreateLateUniqueViolationIsDuplicate(t *testing.T) {
	repo := newMemoryRepo()
	repo.raceOnSave = true
	svc := New(repo, &stubRates{rate: decimal.RequireFromString("1.1")}, nil, nil)

	_, err := svc.Create(context.Background(), laptop())
	if !errors.Is(err, domain.ErrDuplicateCode) {
		t.Fatalf("expected ErrDuplicateCode, got %v", err)
	}
}

func TestCreateRateUnavailableDoesNotSave(t *testing.T) {
	repo := newMemoryRepo()
	svc := New(repo, &stubRates{err: domain.Errorf(domain.ErrRateUnavailable, "failed to fetch exchange rate for currency: USD")}, nil, nil)

	_, err := svc.Create(context.Background(), laptop())
	if !errors.Is(err, domain.ErrRateUnavailable) {
		t.Fatalf("expected ErrRateUnavailable, got %v", err)
	}
	if repo.saveCalls != 0 {
		t.Fatalf("expected no save, got %d", repo.saveCalls)
	}
}

func TestCreateWrapsUnknownRateErrors(t *testing.T) {
	svc := New(newMemoryRepo(), &stubRates{err: errors.New("dial tcp: refused")}, nil, nil)

	_, err := svc.Create(context.Background(), laptop())
	if !errors.Is(err, domain.ErrRateUnavailable) {
		t.Fatalf("expected ErrRateUnavailable, got %v", err)
	}
}

func TestCreateValidatesInput(t *testing.T) {
	repo := newMemoryRepo()
	svc := New(repo, &stubRates{rate: decimal.RequireFromString("1.1")}, nil, nil)

	_, err := svc.Create(context.Background(), CreateInput{Code: "SHORT", Name: " ", PriceInBase: decimal.RequireFromString("-1")})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %v", verr.Messages)
	}
	if repo.saveCalls != 0 {
		t.Fatalf("expected no save, got %d", repo.saveCalls)
	}
}

func TestGetByIDAndCode(t *testing.T) {
	svc := New(newMemoryRepo(), &stubRates{rate: decimal.RequireFromString("1.1")}, nil, nil)
	created, err := svc.Create(context.Background(), laptop())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.GetByID(context.Background(), created.ID)
	if err != nil || got.Code != "PROD123456" {
		t.Fatalf("GetByID: %+v %v", got, err)
	}
	got, err = svc.GetByCode(context.Background(), "PROD123456")
	if err != nil || got.ID != created.ID {
		t.Fatalf("GetByCode: %+v %v", got, err)
	}
}

func TestGetMissing(t *testing.T) {
	svc := New(newMemoryRepo(), &stubRates{}, nil, nil)

	_, err := svc.GetByID(context.Background(), 42)
	if !errors.Is(err, domain.ErrNotFound) || err.Error() != "product with given id 42 not found" {
		t.Fatalf("unexpected error %v", err)
	}
	_, err = svc.GetByCode(context.Background(), "NOPE000000")
	if !errors.Is(err, domain.ErrNotFound) || err.Error() != "product with the given code 'NOPE000000' not found" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestListSingleProduct(t *testing.T) {
	svc := New(newMemoryRepo(), &stubRates{rate: decimal.RequireFromString("1.1")}, nil, nil)
	if _, err := svc.Create(context.Background(), laptop()); err != nil {
		t.Fatalf("create: %v", err)
	}

	page, err := svc.List(context.Background(), domain.PageRequest{Page: 0, Size: 10, SortBy: "id", SortDir: "ASC"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.TotalElements != 1 || page.TotalPages != 1 || len(page.Items) != 1 {
		t.Fatalf("unexpected page %+v", page)
	}
}

func TestCreateKeepsCodeVerbatim(t *testing.T) {
	repo := newMemoryRepo()
	svc := New(repo, &stubRates{rate: decimal.RequireFromString("1.1")}, nil, nil)

	in := laptop()
	in.Code = " PROD12345"
	p, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Code != " PROD12345" {
		t.Fatalf("expected code stored as given, got %q", p.Code)
	}

	in.Code = " PROD123456"
	_, err = svc.Create(context.Background(), in)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error for 11 characters, got %v", err)
	}
}
