package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Ashraful7679/Engine-2-Mufller/internal/application/datasync"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/application/dto"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain/entity"
)

// SnapshotSource fuente de la copia consistente de colecciones (datasync.Engine).
type SnapshotSource interface {
	Snapshot() datasync.Snapshot
	Mode() string
}

// DashboardUseCase arma el resumen del panel para el usuario en sesión.
//
// Fuente de datos: una única Snapshot por llamada, así todas las cifras salen
// del mismo estado aunque haya recargas o ediciones en curso.
type DashboardUseCase struct {
	source SnapshotSource
	now    func() time.Time
}

// NewDashboardUseCase construye el caso de uso. now nil usa time.Now.
func NewDashboardUseCase(source SnapshotSource, now func() time.Time) *DashboardUseCase {
	if now == nil {
		now = time.Now
	}
	return &DashboardUseCase{source: source, now: now}
}

// GetSummary construye el DashboardSummaryDTO para viewer.
func (uc *DashboardUseCase) GetSummary(viewer entity.User) *dto.DashboardSummaryDTO {
	now := uc.now()
	snap := uc.source.Snapshot()

	sum := Summarize(viewer, snap.Transactions, snap.Products, snap.CashFlows, now)
	series := TrailingSeries(viewer, snap.Transactions, now)

	out := &dto.DashboardSummaryDTO{
		TimeLabel:        sum.Scope.Label,
		IsAdmin:          sum.Scope.Admin,
		DataMode:         uc.source.Mode(),
		TotalRevenue:     sum.TotalRevenue.Round(2),
		ProductRevenue:   sum.ProductRevenue.Round(2),
		ServiceRevenue:   sum.ServiceRevenue.Round(2),
		SalesCount:       len(sum.Scope.Transactions),
		TotalProfit:      decimal.Zero,
		CashOnHand:       decimal.Zero,
		TotalExpenses:    decimal.Zero,
		TotalWithdrawals: decimal.Zero,
		LowStock:         make([]dto.LowStockItemDTO, 0, len(sum.LowStock)),
		Series:           make([]dto.SeriesPointDTO, 0, len(series)),
	}
	if sum.Scope.Admin {
		out.TotalProfit = sum.TotalProfit.Round(2)
		out.CashOnHand = sum.CashOnHand.Round(2)
		out.TotalExpenses = sum.TotalExpenses.Round(2)
		out.TotalWithdrawals = sum.TotalWithdrawals.Round(2)
	}

	for _, p := range sum.LowStock {
		out.LowStock = append(out.LowStock, dto.LowStockItemDTO{
			ProductID: p.ID, SKU: p.SKU, Name: p.Name, Stock: p.Stock,
		})
	}
	for _, pt := range series {
		out.Series = append(out.Series, dto.SeriesPointDTO{
			Date: pt.Date, Label: pt.Label, Sales: pt.Sales.Round(2), Profit: pt.Profit.Round(2),
		})
	}
	return out
}
