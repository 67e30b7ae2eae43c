package entity

import (
	"fmt"
	"time"
)

// MovementType tipo de movimiento de stock.
type MovementType string

const (
	MovementTypeSale              MovementType = "sale"
	MovementTypePurchase          MovementType = "purchase"
	MovementTypeInitialAdjustment MovementType = "initial_adjustment"
	MovementTypeManualAdjustment  MovementType = "manual_adjustment"
)

// Valid indica si el tipo pertenece al conjunto cerrado.
func (t MovementType) Valid() bool {
	switch t {
	case MovementTypeSale, MovementTypePurchase, MovementTypeInitialAdjustment, MovementTypeManualAdjustment:
		return true
	}
	return false
}

// ManualEntryAllowed tipos que se pueden registrar directamente desde la API.
// sale e initial_adjustment los emiten la venta y el alta de producto.
func (t MovementType) ManualEntryAllowed() bool {
	return t == MovementTypePurchase || t == MovementTypeManualAdjustment
}

// ParseMovementType convierte el valor recibido en el borde al enum.
func ParseMovementType(s string) (MovementType, error) {
	t := MovementType(s)
	if !t.Valid() {
		return "", fmt.Errorf("tipo de movimiento desconocido: %q", s)
	}
	return t, nil
}

// StockMovement evento inmutable que afecta el stock de un producto.
// Quantity positivo = entrada, negativo = salida.
type StockMovement struct {
	ID        int64
	ProductID int64
	Quantity  int
	Type      MovementType
	CreatedAt time.Time
}
