package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain/entity"
)

// Summary cifras del panel para un usuario en un instante dado.
type Summary struct {
	Scope Scope

	TotalRevenue   decimal.Decimal
	ProductRevenue decimal.Decimal
	ServiceRevenue decimal.Decimal

	// Caja: siempre sobre todas las ventas y movimientos, sin importar el rol.
	TotalExpenses    decimal.Decimal
	TotalWithdrawals decimal.Decimal
	CashOnHand       decimal.Decimal

	// Solo admin; cero para el resto.
	TotalProfit decimal.Decimal

	LowStock []entity.Product
}

// Summarize calcula todas las cifras del panel. Entradas vacías dan ceros.
func Summarize(
	viewer entity.User,
	txs []entity.Transaction,
	products []entity.Product,
	cashFlows []entity.CashFlow,
	now time.Time,
) Summary {
	scope := ScopeFor(viewer, txs, now)
	s := Summary{
		Scope:          scope,
		TotalRevenue:   decimal.Zero,
		ProductRevenue: decimal.Zero,
		ServiceRevenue: decimal.Zero,
		TotalProfit:    decimal.Zero,
	}

	for _, tx := range scope.Transactions {
		s.TotalRevenue = s.TotalRevenue.Add(tx.TotalAmount)
		s.ProductRevenue = s.ProductRevenue.Add(tx.NetProducts())
		s.ServiceRevenue = s.ServiceRevenue.Add(tx.NetServices())
		if scope.Admin {
			s.TotalProfit = s.TotalProfit.Add(tx.TotalProfit)
		}
	}

	s.TotalExpenses, s.TotalWithdrawals = cashOutflows(cashFlows)
	s.CashOnHand = sumAmounts(txs).Sub(s.TotalExpenses.Add(s.TotalWithdrawals))
	s.LowStock = LowStock(products)
	return s
}

// LowStock productos con stock por debajo del umbral, en el orden de entrada.
func LowStock(products []entity.Product) []entity.Product {
	out := make([]entity.Product, 0)
	for _, p := range products {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	return out
}

func cashOutflows(flows []entity.CashFlow) (expenses, withdrawals decimal.Decimal) {
	expenses, withdrawals = decimal.Zero, decimal.Zero
	for _, cf := range flows {
		switch cf.Type {
		case entity.CashFlowExpense:
			expenses = expenses.Add(cf.Amount)
		case entity.CashFlowWithdrawal:
			withdrawals = withdrawals.Add(cf.Amount)
		}
	}
	return expenses, withdrawals
}

func sumAmounts(txs []entity.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		total = total.Add(tx.TotalAmount)
	}
	return total
}
