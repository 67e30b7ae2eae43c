package inventory

// StockAllocator lleva el stock restante por producto mientras se validan las líneas de una venta.
// Dos líneas del mismo producto consumen del mismo saldo.
type StockAllocator struct {
	remaining map[int64]int
}

// NewStockAllocator parte de las cantidades leídas dentro de la transacción.
func NewStockAllocator(initial map[int64]int) *StockAllocator {
	remaining := make(map[int64]int, len(initial))
	for id, qty := range initial {
		remaining[id] = qty
	}
	return &StockAllocator{remaining: remaining}
}

// Remaining stock aún no asignado del producto.
func (a *StockAllocator) Remaining(productID int64) int {
	return a.remaining[productID]
}

// Allocate descuenta qty del saldo si alcanza. Devuelve el saldo que había antes de intentar y si se asignó.
func (a *StockAllocator) Allocate(productID int64, qty int) (available int, ok bool) {
	available = a.remaining[productID]
	if qty > available {
		return available, false
	}
	a.remaining[productID] = available - qty
	return available, true
}
