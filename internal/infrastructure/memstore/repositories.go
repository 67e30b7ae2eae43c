package memstore

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/fluxa-api/internal/domain"
	"github.com/jhoicas/fluxa-api/internal/domain/entity"
	"github.com/jhoicas/fluxa-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository       = (*productRepo)(nil)
	_ repository.SupplierRepository      = (*supplierRepo)(nil)
	_ repository.StockMovementRepository = (*movementRepo)(nil)
	_ repository.SaleRepository          = (*saleRepo)(nil)
	_ repository.UserRepository          = (*userRepo)(nil)
)

// ── Products ──────────────────────────────────────────────────────────────────

type productRepo struct {
	st *Store
	tx *dataset
}

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	return r.st.access(r.tx, func(d *dataset) error {
		if _, ok := d.suppliers[p.SupplierID]; !ok {
			return &domain.NotFoundError{Resource: "proveedor", ID: p.SupplierID}
		}
		d.seq.product++
		p.ID = d.seq.product
		p.Quantity = 0
		now := r.st.now()
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		p.UpdatedAt = p.CreatedAt
		d.products[p.ID] = *p
		return nil
	})
}

func (r *productRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	var out *entity.Product
	err := r.st.access(r.tx, func(d *dataset) error {
		if p, ok := d.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *productRepo) GetByIDsForUpdate(_ context.Context, ids []int64) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.st.access(r.tx, func(d *dataset) error {
		sorted := append([]int64(nil), ids...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		var last int64
		for i, id := range sorted {
			if i > 0 && id == last {
				continue
			}
			last = id
			if p, ok := d.products[id]; ok {
				out = append(out, &p)
			}
		}
		return nil
	})
	return out, err
}

func (r *productRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.st.access(r.tx, func(d *dataset) error {
		for _, id := range sortedIDs(d.products) {
			p := d.products[id]
			if f.Status != nil && p.Status != *f.Status {
				continue
			}
			out = append(out, &p)
		}
		return nil
	})
	return page(out, f.Limit, f.Offset), err
}

func (r *productRepo) Update(_ context.Context, p *entity.Product) error {
	return r.st.access(r.tx, func(d *dataset) error {
		cur, ok := d.products[p.ID]
		if !ok {
			return &domain.NotFoundError{Resource: "producto", ID: p.ID}
		}
		if _, ok := d.suppliers[p.SupplierID]; !ok {
			return &domain.NotFoundError{Resource: "proveedor", ID: p.SupplierID}
		}
		p.Quantity = cur.Quantity
		p.CreatedAt = cur.CreatedAt
		d.products[p.ID] = *p
		return nil
	})
}

func (r *productRepo) UpdateQuantity(_ context.Context, id int64, quantity int) (bool, error) {
	found := false
	err := r.st.access(r.tx, func(d *dataset) error {
		p, ok := d.products[id]
		if !ok {
			return nil
		}
		p.Quantity = quantity
		p.UpdatedAt = r.st.now()
		d.products[id] = p
		found = true
		return nil
	})
	return found, err
}

func (r *productRepo) Delete(_ context.Context, id int64) error {
	return r.st.access(r.tx, func(d *dataset) error {
		if _, ok := d.products[id]; !ok {
			return &domain.NotFoundError{Resource: "producto", ID: id}
		}
		for _, s := range d.sales {
			for _, it := range s.Items {
				if it.ProductID == id {
					return domain.ErrConflict
				}
			}
		}
		delete(d.products, id)
		kept := d.movements[:0:0]
		for _, m := range d.movements {
			if m.ProductID != id {
				kept = append(kept, m)
			}
		}
		d.movements = kept
		return nil
	})
}

// ── Suppliers ─────────────────────────────────────────────────────────────────

type supplierRepo struct {
	st *Store
	tx *dataset
}

func (r *supplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	return r.st.access(r.tx, func(d *dataset) error {
		for _, other := range d.suppliers {
			if other.TaxID == s.TaxID {
				return domain.ErrDuplicate
			}
		}
		d.seq.supplier++
		s.ID = d.seq.supplier
		if s.CreatedAt.IsZero() {
			s.CreatedAt = r.st.now()
		}
		d.suppliers[s.ID] = *s
		return nil
	})
}

func (r *supplierRepo) GetByID(_ context.Context, id int64) (*entity.Supplier, error) {
	var out *entity.Supplier
	err := r.st.access(r.tx, func(d *dataset) error {
		if s, ok := d.suppliers[id]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *supplierRepo) List(_ context.Context, limit, offset int) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	err := r.st.access(r.tx, func(d *dataset) error {
		for _, id := range sortedIDs(d.suppliers) {
			s := d.suppliers[id]
			out = append(out, &s)
		}
		return nil
	})
	return page(out, limit, offset), err
}

func (r *supplierRepo) Update(_ context.Context, s *entity.Supplier) error {
	return r.st.access(r.tx, func(d *dataset) error {
		cur, ok := d.suppliers[s.ID]
		if !ok {
			return &domain.NotFoundError{Resource: "proveedor", ID: s.ID}
		}
		for id, other := range d.suppliers {
			if id != s.ID && other.TaxID == s.TaxID {
				return domain.ErrDuplicate
			}
		}
		s.CreatedAt = cur.CreatedAt
		d.suppliers[s.ID] = *s
		return nil
	})
}

func (r *supplierRepo) Delete(_ context.Context, id int64) error {
	return r.st.access(r.tx, func(d *dataset) error {
		if _, ok := d.suppliers[id]; !ok {
			return &domain.NotFoundError{Resource: "proveedor", ID: id}
		}
		for _, p := range d.products {
			if p.SupplierID == id {
				return domain.ErrConflict
			}
		}
		delete(d.suppliers, id)
		return nil
	})
}

// ── Stock movements ───────────────────────────────────────────────────────────

type movementRepo struct {
	st *Store
	tx *dataset
}

func (r *movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	return r.st.access(r.tx, func(d *dataset) error {
		if _, ok := d.products[m.ProductID]; !ok {
			return &domain.NotFoundError{Resource: "producto", ID: m.ProductID}
		}
		d.seq.movement++
		m.ID = d.seq.movement
		if m.CreatedAt.IsZero() {
			m.CreatedAt = r.st.now()
		}
		d.movements = append(d.movements, *m)
		return nil
	})
}

func (r *movementRepo) SumByProduct(_ context.Context, productID int64) (int, error) {
	total := 0
	err := r.st.access(r.tx, func(d *dataset) error {
		for _, m := range d.movements {
			if m.ProductID == productID {
				total += m.Quantity
			}
		}
		return nil
	})
	return total, err
}

func (r *movementRepo) ListByProduct(_ context.Context, productID int64, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.st.access(r.tx, func(d *dataset) error {
		for i := len(d.movements) - 1; i >= 0; i-- {
			m := d.movements[i]
			if m.ProductID == productID {
				out = append(out, &m)
			}
		}
		return nil
	})
	return page(out, limit, offset), err
}

// ── Sales ─────────────────────────────────────────────────────────────────────

type saleRepo struct {
	st *Store
	tx *dataset
}

func (r *saleRepo) Create(_ context.Context, s *entity.Sale) error {
	return r.st.access(r.tx, func(d *dataset) error {
		for _, it := range s.Items {
			if _, ok := d.products[it.ProductID]; !ok {
				return &domain.NotFoundError{Resource: "producto", ID: it.ProductID}
			}
		}
		d.seq.sale++
		s.ID = d.seq.sale
		if s.CreatedAt.IsZero() {
			s.CreatedAt = r.st.now()
		}
		items := make([]entity.SaleItem, len(s.Items))
		for i := range s.Items {
			d.seq.saleItem++
			s.Items[i].ID = d.seq.saleItem
			s.Items[i].SaleID = s.ID
			items[i] = s.Items[i]
			items[i].ProductTitle = ""
		}
		stored := *s
		stored.Items = items
		d.sales[s.ID] = stored
		return nil
	})
}

func (r *saleRepo) GetByID(_ context.Context, id int64) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.st.access(r.tx, func(d *dataset) error {
		if s, ok := d.sales[id]; ok {
			out = withTitles(d, s)
		}
		return nil
	})
	return out, err
}

func (r *saleRepo) List(_ context.Context) ([]*entity.Sale, error) {
	var out []*entity.Sale
	err := r.st.access(r.tx, func(d *dataset) error {
		ids := sortedIDs(d.sales)
		for i := len(ids) - 1; i >= 0; i-- {
			out = append(out, withTitles(d, d.sales[ids[i]]))
		}
		return nil
	})
	return out, err
}

func (r *saleRepo) ListByPeriod(_ context.Context, from, to time.Time) ([]*entity.Sale, error) {
	var out []*entity.Sale
	err := r.st.access(r.tx, func(d *dataset) error {
		for _, id := range sortedIDs(d.sales) {
			s := d.sales[id]
			if !s.CreatedAt.Before(from) && s.CreatedAt.Before(to) {
				out = append(out, withTitles(d, s))
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, err
}

func withTitles(d *dataset, s entity.Sale) *entity.Sale {
	items := make([]entity.SaleItem, len(s.Items))
	for i, it := range s.Items {
		it.ProductTitle = d.products[it.ProductID].Title
		items[i] = it
	}
	s.Items = items
	return &s
}

// ── Users ─────────────────────────────────────────────────────────────────────

type userRepo struct {
	st *Store
}

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	return r.st.access(nil, func(d *dataset) error {
		for _, other := range d.users {
			if strings.EqualFold(other.Email, u.Email) {
				return domain.ErrEmailAlreadyExists
			}
		}
		d.seq.user++
		u.ID = d.seq.user
		d.users[u.ID] = *u
		return nil
	})
}

func (r *userRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	var out *entity.User
	err := r.st.access(nil, func(d *dataset) error {
		if u, ok := d.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.st.access(nil, func(d *dataset) error {
		for _, u := range d.users {
			if strings.EqualFold(u.Email, email) {
				u := u
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}
