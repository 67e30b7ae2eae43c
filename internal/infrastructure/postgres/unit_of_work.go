package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/fluxa-api/internal/domain"
	"github.com/jhoicas/fluxa-api/internal/domain/repository"
)

var _ repository.UnitOfWork = (*UnitOfWork)(nil)

// UnitOfWork ejecuta callbacks dentro de una transacción PostgreSQL (READ COMMITTED).
// La serialización de stock la dan los SELECT ... FOR UPDATE sobre products.
type UnitOfWork struct {
	pool *pgxpool.Pool
}

// NewUnitOfWork construye la unidad de trabajo con el pool.
func NewUnitOfWork(pool *pgxpool.Pool) *UnitOfWork {
	return &UnitOfWork{pool: pool}
}

// Do inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Si ctx se cancela antes del commit, pgx aborta la transacción.
func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepositories) error) error {
	tx, err := u.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return domain.NewPersistenceError("iniciar transacción", err)
	}
	// Tras un Commit exitoso el Rollback es un no-op.
	defer func() { _ = tx.Rollback(context.Background()) }()

	if err := fn(ctx, &txRepositories{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.NewPersistenceError("confirmar transacción", err)
	}
	return nil
}

type txRepositories struct {
	q Querier
}

func (r *txRepositories) Products() repository.ProductRepository { return NewProductRepository(r.q) }
func (r *txRepositories) Suppliers() repository.SupplierRepository {
	return NewSupplierRepository(r.q)
}
func (r *txRepositories) StockMovements() repository.StockMovementRepository {
	return NewStockMovementRepository(r.q)
}
func (r *txRepositories) Sales() repository.SaleRepository { return NewSaleRepository(r.q) }
