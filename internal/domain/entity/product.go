package entity

import "github.com/shopspring/decimal"

// LowStockThreshold un producto con stock estrictamente menor genera alerta.
const LowStockThreshold = 5

// Product repuesto o artículo vendible del taller.
// Stock lo modifican procesos externos; aquí solo se ajusta vía actualización optimista.
type Product struct {
	ID    string           `json:"id"`
	Name  string           `json:"name"`
	SKU   string           `json:"sku"`
	Stock int              `json:"stock"`
	Price *decimal.Decimal `json:"price,omitempty"`
	Cost  *decimal.Decimal `json:"cost,omitempty"`
}

// EntityID implementa Entity.
func (p Product) EntityID() string { return p.ID }

// IsLowStock indica si el producto está por debajo del umbral de alerta.
func (p Product) IsLowStock() bool { return p.Stock < LowStockThreshold }
