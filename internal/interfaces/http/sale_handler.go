package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fluxa-api/internal/application/dto"
	"github.com/jhoicas/fluxa-api/internal/application/sales"
)

// SaleHandler registro y consulta de ventas (protegido).
type SaleHandler struct {
	create *sales.CreateSaleUseCase
	list   *sales.ListSalesUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(create *sales.CreateSaleUseCase, list *sales.ListSalesUseCase) *SaleHandler {
	return &SaleHandler{create: create, list: list}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Valida el carrito completo, descuenta stock y congela precios en una sola transacción.
// @Description  Cualquier fallo deja intactos stock, ventas y movimientos.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                 false  "Clave para reintentos seguros"
// @Param        body             body    dto.CreateSaleRequest  true   "items: [{productId, quantity}]"
// @Success      201  {object}  dto.SaleResponse
// @Failure      400  {object}  dto.ErrorResponse  "VALIDATION, PRODUCT_NOT_FOUND, PRODUCT_UNAVAILABLE o INSUFFICIENT_STOCK"
// @Failure      409  {object}  dto.ErrorResponse  "IDEMPOTENCY_IN_PROGRESS"
// @Failure      422  {object}  dto.ErrorResponse  "IDEMPOTENCY_KEY_MISMATCH"
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := decodeBody(c, &in); err != nil {
		return invalidBody(c, err)
	}
	out, err := h.create.CreateSale(c.UserContext(), in)
	if err != nil {
		return respondSaleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar ventas
// @Description  Más recientes primero, con sus líneas y el título de cada producto.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SaleListResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	out, err := h.list.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener venta por ID
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c, "id")
	}
	out, err := h.list.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
