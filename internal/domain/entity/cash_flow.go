package entity

import "github.com/shopspring/decimal"

// CashFlowType tipo de movimiento de caja que no es una venta.
type CashFlowType string

// Tipos conocidos. Otros valores se conservan pero no restan del efectivo en caja.
const (
	CashFlowExpense    CashFlowType = "expense"    // gasto operativo del taller
	CashFlowWithdrawal CashFlowType = "withdrawal" // retiro del dueño
	CashFlowDeposit    CashFlowType = "deposit"
)

// CashFlow salida o entrada de efectivo registrada manualmente. Solo se agregan.
type CashFlow struct {
	ID          string          `json:"id"`
	Type        CashFlowType    `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	Timestamp   int64           `json:"timestamp,omitempty"`
	CreatedBy   string          `json:"createdBy,omitempty"`
}

// EntityID implementa Entity.
func (c CashFlow) EntityID() string { return c.ID }
