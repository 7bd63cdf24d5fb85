package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction venta registrada en caja (repuestos + mano de obra).
// Inmutable una vez creada; solo se agregan nuevas.
type Transaction struct {
	ID              string           `json:"id"`
	Timestamp       int64            `json:"timestamp"` // epoch en milisegundos
	TotalAmount     decimal.Decimal  `json:"totalAmount"`
	ProductTotal    decimal.Decimal  `json:"productTotal"`
	ProductDiscount *decimal.Decimal `json:"productDiscount,omitempty"`
	ServiceTotal    decimal.Decimal  `json:"serviceTotal"`
	ServiceDiscount *decimal.Decimal `json:"serviceDiscount,omitempty"`
	TotalProfit     decimal.Decimal  `json:"totalProfit"`
	CreatedBy       string           `json:"createdBy"` // User.ID
}

// EntityID implementa Entity.
func (t Transaction) EntityID() string { return t.ID }

// Time devuelve el instante de la venta en la zona horaria indicada.
func (t Transaction) Time(loc *time.Location) time.Time {
	return time.UnixMilli(t.Timestamp).In(loc)
}

// NetProducts total de repuestos menos descuento (descuento ausente = 0).
func (t Transaction) NetProducts() decimal.Decimal {
	return t.ProductTotal.Sub(orZero(t.ProductDiscount))
}

// NetServices total de mano de obra menos descuento (descuento ausente = 0).
func (t Transaction) NetServices() decimal.Decimal {
	return t.ServiceTotal.Sub(orZero(t.ServiceDiscount))
}

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
