package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"productsmgmt/internal/domain"
	"productsmgmt/internal/logging"
)

const selectColumns = `id, code, name, price_in_eur::text, price_in_usd::text, is_available, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *logrus.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *logrus.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrDiscard(logger)}
}

func (r *postgresRepo) Save(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (code, name, price_in_eur, price_in_usd, is_available)
VALUES ($1, $2, $3::text::numeric, $4::text::numeric, $5)
RETURNING id, created_at
`
	var converted *string
	if p.PriceConverted != nil {
		s := p.PriceConverted.StringFixed(2)
		converted = &s
	}

	res := p
	err := r.pool.QueryRow(ctx, q, p.Code, p.Name, p.PriceBase.StringFixed(2), converted, p.Available).
		Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			r.logger.Warnf("product repo: save code=%s unique violation", p.Code)
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Errorf("product repo: save code=%s error=%v", p.Code, err)
		return nil, err
	}
	r.logger.Debugf("product repo: saved code=%s id=%d", res.Code, res.ID)
	return &res, nil
}

func (r *postgresRepo) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	q := `SELECT ` + selectColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debugf("product repo: get id=%d not found", id)
			return nil, domain.ErrNotFound
		}
		r.logger.Errorf("product repo: get id=%d error=%v", id, err)
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) FindByCode(ctx context.Context, code string) (*domain.Product, error) {
	q := `SELECT ` + selectColumns + ` FROM products WHERE code = $1`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debugf("product repo: get code=%s not found", code)
			return nil, domain.ErrNotFound
		}
		r.logger.Errorf("product repo: get code=%s error=%v", code, err)
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) FindAll(ctx context.Context, req domain.PageRequest) (domain.Page[domain.Product], error) {
	if err := req.Validate(); err != nil {
		return domain.Page[domain.Product]{}, err
	}
	col, ok := SortColumn(req.SortBy)
	if !ok {
		return domain.Page[domain.Product]{}, &domain.ValidationError{
			Messages: []string{fmt.Sprintf("invalid sort field '%s'", req.SortBy)},
		}
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		r.logger.Errorf("product repo: count error=%v", err)
		return domain.Page[domain.Product]{}, err
	}

	// col and SortDir are whitelisted above; never interpolate raw input here.
	q := fmt.Sprintf(`SELECT %s FROM products ORDER BY %s %s, id %s LIMIT $1 OFFSET $2`, selectColumns, col, req.SortDir, req.SortDir)
	rows, err := r.pool.Query(ctx, q, req.Size, req.Offset())
	if err != nil {
		r.logger.Errorf("product repo: list page=%d size=%d error=%v", req.Page, req.Size, err)
		return domain.Page[domain.Product]{}, err
	}
	defer rows.Close()

	items := make([]domain.Product, 0, req.Size)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return domain.Page[domain.Product]{}, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Errorf("product repo: list rows error=%v", err)
		return domain.Page[domain.Product]{}, err
	}
	r.logger.Debugf("product repo: list page=%d size=%d sort=%s %s count=%d total=%d", req.Page, req.Size, col, req.SortDir, len(items), total)
	return domain.NewPage(items, total, req.Size), nil
}

func (r *postgresRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE code = $1)`, code).Scan(&exists); err != nil {
		r.logger.Errorf("product repo: exists code=%s error=%v", code, err)
		return false, err
	}
	return exists, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p         domain.Product
		base      string
		converted *string
	)
	if err := row.Scan(&p.ID, &p.Code, &p.Name, &base, &converted, &p.Available, &p.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if p.PriceBase, err = decimal.NewFromString(base); err != nil {
		return nil, fmt.Errorf("product repo: price_in_eur %q: %w", base, err)
	}
	if converted != nil {
		d, err := decimal.NewFromString(*converted)
		if err != nil {
			return nil, fmt.Errorf("product repo: price_in_usd %q: %w", *converted, err)
		}
		p.PriceConverted = &d
	}
	return &p, nil
}
