package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Ashraful7679/Engine-2-Mufller/internal/application/dto"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/application/usecase"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain/entity"
)

// LedgerHandler maneja ventas, movimientos de caja e inventario.
type LedgerHandler struct {
	uc *usecase.LedgerUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(uc *usecase.LedgerUseCase) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

// ListTransactions devuelve las ventas visibles para el usuario en sesión.
// GET /api/transactions?limit=&offset=
func (h *LedgerHandler) ListTransactions(c *fiber.Ctx) error {
	viewer, ok, err := viewerOrAbort(c)
	if !ok {
		return err
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "limit/offset inválidos"})
	}
	if err := validate.Struct(page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
	}

	items, label := h.uc.Transactions(viewer)
	out := dto.ListResponse[entity.Transaction]{Scope: label, Total: len(items)}
	from, to := page.Window(len(items))
	out.Items = items[from:to]
	if page.Limit > 0 || page.Offset > 0 {
		out.Page = &dto.PageResponse{Limit: page.Limit, Offset: page.Offset}
	}
	return c.JSON(out)
}

// CreateTransaction godoc
// @Summary      Registrar una venta
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransactionRequest  true  "totales y descuentos"
// @Success      201   {object}  entity.Transaction
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/transactions [post]
func (h *LedgerHandler) CreateTransaction(c *fiber.Ctx) error {
	viewer, ok, err := viewerOrAbort(c)
	if !ok {
		return err
	}
	var in dto.CreateTransactionRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	tx, err := h.uc.RecordSale(c.UserContext(), viewer, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tx)
}

// ListCashFlows GET /api/cash-flows (solo admin).
func (h *LedgerHandler) ListCashFlows(c *fiber.Ctx) error {
	viewer, ok, err := viewerOrAbort(c)
	if !ok {
		return err
	}
	items, err := h.uc.CashFlows(viewer)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ListResponse[entity.CashFlow]{Items: items, Total: len(items)})
}

// CreateCashFlow POST /api/cash-flows (solo admin).
func (h *LedgerHandler) CreateCashFlow(c *fiber.Ctx) error {
	viewer, ok, err := viewerOrAbort(c)
	if !ok {
		return err
	}
	var in dto.CreateCashFlowRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	cf, err := h.uc.RecordCashFlow(c.UserContext(), viewer, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cf)
}

// ListProducts GET /api/products
func (h *LedgerHandler) ListProducts(c *fiber.Ctx) error {
	items := h.uc.Products()
	return c.JSON(dto.ListResponse[entity.Product]{Items: items, Total: len(items)})
}

// AdjustStock PATCH /api/products/:id/stock
func (h *LedgerHandler) AdjustStock(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	p, err := h.uc.AdjustStock(c.UserContext(), c.Params("id"), *in.Stock)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(p)
}
