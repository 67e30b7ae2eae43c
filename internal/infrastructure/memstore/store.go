// Package memstore implementa los puertos de persistencia en memoria.
//
// Una unidad de trabajo toma el candado global, trabaja sobre una copia del
// dataset y la publica solo si termina sin error. Las transacciones quedan
// serializadas entre sí, equivalente a bloquear todas las filas que tocan.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/fluxa-api/internal/domain"
	"github.com/jhoicas/fluxa-api/internal/domain/entity"
	"github.com/jhoicas/fluxa-api/internal/domain/repository"
)

var _ repository.UnitOfWork = (*Store)(nil)

type sequences struct {
	product, supplier, movement, sale, saleItem, user int64
}

type dataset struct {
	products  map[int64]entity.Product
	suppliers map[int64]entity.Supplier
	movements []entity.StockMovement
	sales     map[int64]entity.Sale
	users     map[int64]entity.User
	seq       sequences
}

func newDataset() *dataset {
	return &dataset{
		products:  map[int64]entity.Product{},
		suppliers: map[int64]entity.Supplier{},
		sales:     map[int64]entity.Sale{},
		users:     map[int64]entity.User{},
	}
}

func (d *dataset) clone() *dataset {
	c := &dataset{
		products:  make(map[int64]entity.Product, len(d.products)),
		suppliers: make(map[int64]entity.Supplier, len(d.suppliers)),
		movements: make([]entity.StockMovement, len(d.movements)),
		sales:     make(map[int64]entity.Sale, len(d.sales)),
		users:     make(map[int64]entity.User, len(d.users)),
		seq:       d.seq,
	}
	for k, v := range d.products {
		c.products[k] = v
	}
	for k, v := range d.suppliers {
		c.suppliers[k] = v
	}
	copy(c.movements, d.movements)
	// Las ventas son inmutables: compartir el slice de líneas es seguro.
	for k, v := range d.sales {
		c.sales[k] = v
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	return c
}

// Store almacenamiento en memoria seguro para uso concurrente.
type Store struct {
	mu   sync.Mutex
	data *dataset
	now  func() time.Time
}

// New crea un store vacío.
func New() *Store {
	return &Store{data: newDataset(), now: time.Now}
}

// Do ejecuta fn sobre una copia del dataset y la publica si fn no falla y el contexto sigue vigente.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepositories) error) error {
	if err := ctx.Err(); err != nil {
		return domain.NewPersistenceError("iniciar transacción", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.data.clone()
	if err := fn(ctx, &txRepos{st: s, tx: work}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return domain.NewPersistenceError("confirmar transacción", err)
	}
	s.data = work
	return nil
}

// Products repositorio fuera de transacción.
func (s *Store) Products() repository.ProductRepository { return &productRepo{st: s} }

// Suppliers repositorio fuera de transacción.
func (s *Store) Suppliers() repository.SupplierRepository { return &supplierRepo{st: s} }

// StockMovements repositorio fuera de transacción.
func (s *Store) StockMovements() repository.StockMovementRepository {
	return &movementRepo{st: s}
}

// Sales repositorio fuera de transacción.
func (s *Store) Sales() repository.SaleRepository { return &saleRepo{st: s} }

// Users repositorio de usuarios.
func (s *Store) Users() repository.UserRepository { return &userRepo{st: s} }

// access ejecuta fn sobre el dataset de la transacción o, fuera de ella, sobre el publicado con el candado tomado.
func (s *Store) access(tx *dataset, fn func(d *dataset) error) error {
	if tx != nil {
		return fn(tx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

type txRepos struct {
	st *Store
	tx *dataset
}

func (r *txRepos) Products() repository.ProductRepository { return &productRepo{st: r.st, tx: r.tx} }
func (r *txRepos) Suppliers() repository.SupplierRepository {
	return &supplierRepo{st: r.st, tx: r.tx}
}
func (r *txRepos) StockMovements() repository.StockMovementRepository {
	return &movementRepo{st: r.st, tx: r.tx}
}
func (r *txRepos) Sales() repository.SaleRepository { return &saleRepo{st: r.st, tx: r.tx} }

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func sortedIDs[V any](m map[int64]V) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
