package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrProductUnavailable = errors.New("producto no disponible para la venta")
	ErrPersistence        = errors.New("error de persistencia")
)

// ValidationError solicitud mal formada; siempre corregible por quien llama.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NewValidationError construye un ValidationError.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError referencia a un recurso inexistente, identificado por su id.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d no encontrado", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ProductUnavailableError el estado del producto impide venderlo.
type ProductUnavailableError struct {
	ProductID int64
	Title     string
	Status    string
}

func (e *ProductUnavailableError) Error() string {
	return fmt.Sprintf("el producto %q no está disponible para la venta (estado: %s)", e.Title, e.Status)
}

func (e *ProductUnavailableError) Is(target error) bool { return target == ErrProductUnavailable }

// InsufficientStockError la cantidad pedida supera la disponible.
type InsufficientStockError struct {
	ProductID int64
	Title     string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %q: disponible %d, solicitado %d", e.Title, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// PersistenceError falla del almacenamiento o de la transacción.
// Al cliente se le informa de forma genérica; el detalle queda en el log.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// NewPersistenceError construye un PersistenceError.
func NewPersistenceError(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// WrapPersistence deja intactos los errores de dominio conocidos y envuelve el resto como PersistenceError.
func WrapPersistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsDomainError(err) {
		return err
	}
	return NewPersistenceError(op, err)
}

// IsDomainError indica si err pertenece a la taxonomía de errores de dominio.
func IsDomainError(err error) bool {
	for _, target := range []error{
		ErrInvalidInput, ErrNotFound, ErrProductUnavailable, ErrInsufficientStock,
		ErrPersistence, ErrConflict, ErrDuplicate, ErrUnauthorized,
		ErrEmailAlreadyExists, ErrUserNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
