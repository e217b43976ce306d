package product

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"productsmgmt/internal/domain"
	"productsmgmt/internal/migrate"
)

func TestPostgres_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)
	usd := decimal.RequireFromString("110.01")
	saved, err := repo.Save(ctx, domain.Product{
		Code:           "PROD123456",
		Name:           "Laptop",
		PriceBase:      decimal.RequireFromString("100.01"),
		PriceConverted: &usd,
		Available:      true,
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.ID == 0 {
		t.Fatalf("expected id to be assigned")
	}

	byID, err := repo.FindByID(ctx, saved.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if byID.Code != "PROD123456" || !byID.PriceBase.Equal(decimal.RequireFromString("100.01")) {
		t.Fatalf("unexpected product %+v", byID)
	}
	if byID.PriceConverted == nil || !byID.PriceConverted.Equal(usd) {
		t.Fatalf("unexpected converted price %v", byID.PriceConverted)
	}

	byCode, err := repo.FindByCode(ctx, "PROD123456")
	if err != nil {
		t.Fatalf("FindByCode: %v", err)
	}
	if byCode.ID != saved.ID {
		t.Fatalf("expected id %d, got %d", saved.ID, byCode.ID)
	}

	exists, err := repo.ExistsByCode(ctx, "PROD123456")
	if err != nil || !exists {
		t.Fatalf("expected code to exist, got %v %v", exists, err)
	}
}

func TestPostgres_NotFound(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	resetTables(ctx, t, pool)
	repo := NewPostgres(pool, nil)

	if _, err := repo.FindByID(ctx, 999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.FindByCode(ctx, "MISSING000"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if exists, err := repo.ExistsByCode(ctx, "MISSING000"); err != nil || exists {
		t.Fatalf("expected no code, got %v %v", exists, err)
	}
}

func TestPostgres_SaveDuplicateCode(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	resetTables(ctx, t, pool)
	repo := NewPostgres(pool, nil)

	p := domain.Product{Code: "DUPL000001", Name: "A", PriceBase: decimal.RequireFromString("1")}
	if _, err := repo.Save(ctx, p); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if _, err := repo.Save(ctx, p); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestPostgres_FindAllPagesAndSorts(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	resetTables(ctx, t, pool)
	repo := NewPostgres(pool, nil)

	for _, in := range []struct{ code, name, price string }{
		{"CODE000001", "Charlie", "30.00"},
		{"CODE000002", "Alpha", "10.00"},
		{"CODE000003", "Bravo", "20.00"},
	} {
		if _, err := repo.Save(ctx, domain.Product{Code: in.code, Name: in.name, PriceBase: decimal.RequireFromString(in.price)}); err != nil {
			t.Fatalf("save %s: %v", in.code, err)
		}
	}

	page, err := repo.FindAll(ctx, domain.PageRequest{Page: 0, Size: 2, SortBy: "name", SortDir: "asc"})
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if page.TotalElements != 3 || page.TotalPages != 2 {
		t.Fatalf("unexpected totals %d/%d", page.TotalElements, page.TotalPages)
	}
	if len(page.Items) != 2 || page.Items[0].Name != "Alpha" || page.Items[1].Name != "Bravo" {
		t.Fatalf("unexpected first page %+v", page.Items)
	}

	page, err = repo.FindAll(ctx, domain.PageRequest{Page: 1, Size: 2, SortBy: "priceInBase", SortDir: "DESC"})
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].Code != "CODE000002" {
		t.Fatalf("unexpected second page %+v", page.Items)
	}

	if _, err := repo.FindAll(ctx, domain.PageRequest{Page: 0, Size: 2, SortBy: "price_in_eur; DROP TABLE products", SortDir: "ASC"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown sort field, got %v", err)
	}
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE products RESTART IDENTITY`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}
