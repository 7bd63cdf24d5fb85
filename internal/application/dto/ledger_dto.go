package dto

import "github.com/shopspring/decimal"

// CreateTransactionRequest entrada para registrar una venta.
// TotalAmount es opcional: si falta se calcula como repuestos netos + mano de obra neta.
type CreateTransactionRequest struct {
	ProductTotal    decimal.Decimal  `json:"productTotal"`
	ProductDiscount *decimal.Decimal `json:"productDiscount"`
	ServiceTotal    decimal.Decimal  `json:"serviceTotal"`
	ServiceDiscount *decimal.Decimal `json:"serviceDiscount"`
	TotalAmount     *decimal.Decimal `json:"totalAmount"`
	TotalProfit     decimal.Decimal  `json:"totalProfit"`
}

// CreateCashFlowRequest entrada para registrar un gasto o retiro.
type CreateCashFlowRequest struct {
	Type        string          `json:"type" validate:"required,oneof=expense withdrawal deposit"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" validate:"max=500"`
}

// AdjustStockRequest fija el stock de un producto.
type AdjustStockRequest struct {
	Stock *int `json:"stock" validate:"required,min=0"`
}

// ListResponse envoltorio de listados con la etiqueta del período visible.
type ListResponse[T any] struct {
	Items []T           `json:"items"`
	Scope string        `json:"scope,omitempty"`
	Total int           `json:"total"` // total antes de paginar
	Page  *PageResponse `json:"page,omitempty"`
}
