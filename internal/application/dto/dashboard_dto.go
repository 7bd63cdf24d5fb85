package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
// Las cifras de caja y ganancia solo se informan a admin; para el resto van en cero.
type DashboardSummaryDTO struct {
	TimeLabel string `json:"time_label"` // "All Time" (admin) o "Today"
	IsAdmin   bool   `json:"is_admin"`
	DataMode  string `json:"data_mode"` // "remote" o "local"

	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	ProductRevenue decimal.Decimal `json:"product_revenue"`
	ServiceRevenue decimal.Decimal `json:"service_revenue"`
	SalesCount     int             `json:"sales_count"`

	// Solo admin
	TotalProfit      decimal.Decimal `json:"total_profit"`
	CashOnHand       decimal.Decimal `json:"cash_on_hand"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	TotalWithdrawals decimal.Decimal `json:"total_withdrawals"`

	LowStock []LowStockItemDTO `json:"low_stock"`
	Series   []SeriesPointDTO  `json:"series"`
}

// LowStockItemDTO producto con stock por debajo del umbral.
type LowStockItemDTO struct {
	ProductID string `json:"product_id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
}

// SeriesPointDTO punto de la serie de 7 días (más antiguo primero).
type SeriesPointDTO struct {
	Date   time.Time       `json:"date"`
	Label  string          `json:"label"`
	Sales  decimal.Decimal `json:"sales"`
	Profit decimal.Decimal `json:"profit"`
}

// InsightsResponse respuesta de POST /api/dashboard/insights (HTML ya saneado).
type InsightsResponse struct {
	HTML        string    `json:"html"`
	GeneratedAt time.Time `json:"generated_at"`
}
