package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/fluxa-api/internal/domain"
	"github.com/jhoicas/fluxa-api/internal/domain/entity"
	"github.com/jhoicas/fluxa-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo persistencia de ventas y sus líneas (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta la cabecera y luego cada línea. Debe llamarse dentro de una transacción.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO sales (total_amount) VALUES ($1) RETURNING id, created_at`, s.TotalAmount,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	for i := range s.Items {
		it := &s.Items[i]
		it.SaleID = s.ID
		err := r.q.QueryRow(ctx, `
			INSERT INTO sale_items (sale_id, product_id, quantity_sold, price_per_unit, cost_per_unit)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			it.SaleID, it.ProductID, it.QuantitySold, it.PricePerUnit, it.CostPerUnit,
		).Scan(&it.ID)
		if err != nil {
			if isForeignKeyViolation(err) {
				return &domain.NotFoundError{Resource: "producto", ID: it.ProductID}
			}
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una venta con sus líneas.
func (r *SaleRepo) GetByID(ctx context.Context, id int64) (*entity.Sale, error) {
	var s entity.Sale
	err := r.q.QueryRow(ctx, `SELECT id, total_amount, created_at FROM sales WHERE id = $1`, id).
		Scan(&s.ID, &s.TotalAmount, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	list := []*entity.Sale{&s}
	if err := r.attachItems(ctx, list); err != nil {
		return nil, err
	}
	return &s, nil
}

// List todas las ventas, de la más reciente a la más antigua.
func (r *SaleRepo) List(ctx context.Context) ([]*entity.Sale, error) {
	return r.list(ctx, `SELECT id, total_amount, created_at FROM sales ORDER BY created_at DESC, id DESC`)
}

// ListByPeriod ventas con created_at en [from, to), en orden cronológico.
func (r *SaleRepo) ListByPeriod(ctx context.Context, from, to time.Time) ([]*entity.Sale, error) {
	return r.list(ctx, `
		SELECT id, total_amount, created_at FROM sales
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at, id`, from, to)
}

func (r *SaleRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Sale, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	var sales []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.TotalAmount, &s.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, &s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	if err := r.attachItems(ctx, sales); err != nil {
		return nil, err
	}
	return sales, nil
}

// attachItems carga en una sola consulta las líneas de todas las ventas, con el título del producto.
func (r *SaleRepo) attachItems(ctx context.Context, sales []*entity.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	ids := make([]int64, len(sales))
	byID := make(map[int64]*entity.Sale, len(sales))
	for i, s := range sales {
		ids[i] = s.ID
		byID[s.ID] = s
	}
	rows, err := r.q.Query(ctx, `
		SELECT si.id, si.sale_id, si.product_id, p.title, si.quantity_sold, si.price_per_unit, si.cost_per_unit
		FROM sale_items si
		JOIN products p ON p.id = si.product_id
		WHERE si.sale_id = ANY($1)
		ORDER BY si.sale_id, si.id`, ids)
	if err != nil {
		return fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.ProductTitle,
			&it.QuantitySold, &it.PricePerUnit, &it.CostPerUnit); err != nil {
			return fmt.Errorf("scan sale item: %w", err)
		}
		s := byID[it.SaleID]
		s.Items = append(s.Items, it)
	}
	return rows.Err()
}
