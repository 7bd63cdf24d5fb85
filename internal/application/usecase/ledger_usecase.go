package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Ashraful7679/Engine-2-Mufller/internal/application/analytics"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/application/datasync"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/application/dto"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain/entity"
)

// LedgerUseCase registra ventas, movimientos de caja y ajustes de stock.
// Todas las escrituras son optimistas (ver datasync.Collection).
type LedgerUseCase struct {
	transactions *datasync.Collection[entity.Transaction]
	cashFlows    *datasync.Collection[entity.CashFlow]
	products     *datasync.Collection[entity.Product]
	now          func() time.Time
}

// NewLedgerUseCase construye el caso de uso sobre las colecciones del motor. now nil usa time.Now.
func NewLedgerUseCase(engine *datasync.Engine, now func() time.Time) *LedgerUseCase {
	if now == nil {
		now = time.Now
	}
	return &LedgerUseCase{
		transactions: engine.Transactions,
		cashFlows:    engine.CashFlows,
		products:     engine.Products,
		now:          now,
	}
}

// RecordSale registra una venta a nombre de viewer.
func (uc *LedgerUseCase) RecordSale(ctx context.Context, viewer entity.User, in dto.CreateTransactionRequest) (*entity.Transaction, error) {
	if viewer.ID == "" {
		return nil, domain.ErrUnauthorized
	}
	if in.ProductTotal.IsNegative() || in.ServiceTotal.IsNegative() ||
		negative(in.ProductDiscount) || negative(in.ServiceDiscount) {
		return nil, fmt.Errorf("%w: montos negativos", domain.ErrInvalidInput)
	}

	tx := entity.Transaction{
		ID:              uuid.New().String(),
		Timestamp:       uc.now().UnixMilli(),
		ProductTotal:    in.ProductTotal,
		ProductDiscount: in.ProductDiscount,
		ServiceTotal:    in.ServiceTotal,
		ServiceDiscount: in.ServiceDiscount,
		TotalProfit:     in.TotalProfit,
		CreatedBy:       viewer.ID,
	}
	if in.TotalAmount != nil {
		tx.TotalAmount = *in.TotalAmount
	} else {
		tx.TotalAmount = tx.NetProducts().Add(tx.NetServices())
	}
	if tx.TotalAmount.IsNegative() {
		return nil, fmt.Errorf("%w: total negativo", domain.ErrInvalidInput)
	}

	if err := uc.transactions.Append(ctx, tx); err != nil {
		return nil, fmt.Errorf("registrar venta: %w", err)
	}
	return &tx, nil
}

// RecordCashFlow registra un gasto, retiro o depósito. Solo admin.
func (uc *LedgerUseCase) RecordCashFlow(ctx context.Context, viewer entity.User, in dto.CreateCashFlowRequest) (*entity.CashFlow, error) {
	if !viewer.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if in.Type == "" || !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: tipo y monto positivo requeridos", domain.ErrInvalidInput)
	}

	cf := entity.CashFlow{
		ID:          uuid.New().String(),
		Type:        entity.CashFlowType(in.Type),
		Amount:      in.Amount,
		Description: in.Description,
		Timestamp:   uc.now().UnixMilli(),
		CreatedBy:   viewer.ID,
	}
	if err := uc.cashFlows.Append(ctx, cf); err != nil {
		return nil, fmt.Errorf("registrar movimiento de caja: %w", err)
	}
	return &cf, nil
}

// AdjustStock fija el stock de un producto. Stock negativo devuelve ErrInvalidInput.
func (uc *LedgerUseCase) AdjustStock(ctx context.Context, productID string, stock int) (*entity.Product, error) {
	if stock < 0 {
		return nil, fmt.Errorf("%w: stock negativo", domain.ErrInvalidInput)
	}
	if err := uc.products.Mutate(ctx, productID, entity.Patch{"stock": stock}); err != nil {
		return nil, err
	}
	p, _ := uc.products.Find(productID)
	return &p, nil
}

// Transactions devuelve las ventas visibles para viewer y la etiqueta del período.
func (uc *LedgerUseCase) Transactions(viewer entity.User) ([]entity.Transaction, string) {
	scope := analytics.ScopeFor(viewer, uc.transactions.Snapshot(), uc.now())
	return scope.Transactions, scope.Label
}

// CashFlows devuelve todos los movimientos de caja. Solo admin.
func (uc *LedgerUseCase) CashFlows(viewer entity.User) ([]entity.CashFlow, error) {
	if !viewer.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return uc.cashFlows.Snapshot(), nil
}

// Products devuelve el inventario actual.
func (uc *LedgerUseCase) Products() []entity.Product {
	return uc.products.Snapshot()
}

func negative(d *decimal.Decimal) bool {
	return d != nil && d.IsNegative()
}
