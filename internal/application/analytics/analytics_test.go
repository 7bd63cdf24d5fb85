package analytics_test

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ashraful7679/Engine-2-Mufller/internal/application/analytics"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/application/datasync"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain/entity"
)

var (
	dhaka   = time.FixedZone("BST", 6*60*60)
	admin   = entity.User{ID: "u1", Name: "Admin", Role: entity.RoleAdmin}
	manager = entity.User{ID: "u2", Name: "Manager", Role: entity.RoleManager}
	// miércoles 12/03/2025 15:00 hora local
	now = time.Date(2025, time.March, 12, 15, 0, 0, 0, dhaka)
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]any{"want %s got %s", want, got.String()}, msgAndArgs...)...)
}

func sale(id, by string, at time.Time, amount, profit string) entity.Transaction {
	return entity.Transaction{
		ID:           id,
		Timestamp:    at.UnixMilli(),
		TotalAmount:  dec(amount),
		ProductTotal: dec(amount),
		TotalProfit:  dec(profit),
		CreatedBy:    by,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// ScopeFor
// ──────────────────────────────────────────────────────────────────────────────

func TestScopeFor_AdminVeTodo(t *testing.T) {
	txs := []entity.Transaction{
		sale("t1", "u2", now.AddDate(0, -3, 0), "10", "1"),
		sale("t2", "u3", now, "20", "2"),
	}

	scope := analytics.ScopeFor(admin, txs, now)

	assert.Equal(t, analytics.LabelAllTime, scope.Label)
	assert.True(t, scope.Admin)
	assert.Equal(t, txs, scope.Transactions)
}

func TestScopeFor_NoAdminSoloPropiasDeHoy(t *testing.T) {
	midnight := time.Date(2025, time.March, 12, 0, 0, 0, 0, dhaka)
	txs := []entity.Transaction{
		sale("propia-hoy", "u2", now.Add(-time.Hour), "10", "1"),
		sale("propia-medianoche", "u2", midnight, "10", "1"),
		sale("propia-ayer", "u2", midnight.Add(-time.Millisecond), "10", "1"),
		sale("ajena-hoy", "u3", now, "10", "1"),
	}

	scope := analytics.ScopeFor(manager, txs, now)

	assert.Equal(t, analytics.LabelToday, scope.Label)
	assert.False(t, scope.Admin)
	ids := make([]string, 0, len(scope.Transactions))
	for _, tx := range scope.Transactions {
		ids = append(ids, tx.ID)
	}
	assert.Equal(t, []string{"propia-hoy", "propia-medianoche"}, ids)
}

func TestScopeFor_RolDesconocidoEsNoAdmin(t *testing.T) {
	viewer := entity.User{ID: "u9", Role: "owner"}
	scope := analytics.ScopeFor(viewer, []entity.Transaction{sale("t1", "u1", now, "5", "1")}, now)
	assert.Empty(t, scope.Transactions)
	assert.Equal(t, analytics.LabelToday, scope.Label)
}

// ──────────────────────────────────────────────────────────────────────────────
// Summarize
// ──────────────────────────────────────────────────────────────────────────────

func TestSummarize_EscenarioAdmin(t *testing.T) {
	txs := []entity.Transaction{
		sale("t1", "u1", now, "100", "20"),
		sale("t2", "u1", now.AddDate(0, 0, -8), "50", "5"),
	}

	s := analytics.Summarize(admin, txs, nil, nil, now)

	assertDec(t, "150", s.TotalRevenue)
	assertDec(t, "25", s.TotalProfit)
	assert.Equal(t, analytics.LabelAllTime, s.Scope.Label)
}

func TestSummarize_IngresosNetosDeDescuentos(t *testing.T) {
	tx := entity.Transaction{
		ID:              "t1",
		Timestamp:       now.UnixMilli(),
		TotalAmount:     dec("170"),
		ProductTotal:    dec("120"),
		ProductDiscount: decPtr("20"),
		ServiceTotal:    dec("80"),
		CreatedBy:       "u1",
	}
	tx2 := entity.Transaction{
		ID:              "t2",
		Timestamp:       now.UnixMilli(),
		TotalAmount:     dec("45.5"),
		ServiceTotal:    dec("50"),
		ServiceDiscount: decPtr("4.5"),
		CreatedBy:       "u1",
	}

	s := analytics.Summarize(admin, []entity.Transaction{tx, tx2}, nil, nil, now)

	assertDec(t, "215.5", s.TotalRevenue)
	assertDec(t, "100", s.ProductRevenue)
	assertDec(t, "125.5", s.ServiceRevenue)
}

func TestSummarize_CajaIgnoraElRol(t *testing.T) {
	txs := []entity.Transaction{
		sale("t1", "u1", now.AddDate(0, 0, -30), "1000", "300"),
		sale("t2", "u2", now, "200", "50"),
	}
	flows := []entity.CashFlow{
		{ID: "c1", Type: entity.CashFlowExpense, Amount: dec("150")},
		{ID: "c2", Type: entity.CashFlowWithdrawal, Amount: dec("300")},
		{ID: "c3", Type: entity.CashFlowDeposit, Amount: dec("999")},
		{ID: "c4", Type: entity.CashFlowExpense, Amount: dec("50")},
	}

	for _, viewer := range []entity.User{admin, manager} {
		s := analytics.Summarize(viewer, txs, nil, flows, now)
		assertDec(t, "200", s.TotalExpenses, viewer.ID)
		assertDec(t, "300", s.TotalWithdrawals, viewer.ID)
		assertDec(t, "700", s.CashOnHand, viewer.ID)
	}
}

func TestSummarize_NoAdminSinGanancia(t *testing.T) {
	txs := []entity.Transaction{sale("t1", "u2", now, "200", "50")}

	s := analytics.Summarize(manager, txs, nil, nil, now)

	assertDec(t, "200", s.TotalRevenue)
	assertDec(t, "0", s.TotalProfit)
}

func TestSummarize_EntradasVacias(t *testing.T) {
	s := analytics.Summarize(manager, nil, nil, nil, now)

	assertDec(t, "0", s.TotalRevenue)
	assertDec(t, "0", s.ProductRevenue)
	assertDec(t, "0", s.ServiceRevenue)
	assertDec(t, "0", s.CashOnHand)
	assertDec(t, "0", s.TotalProfit)
	assert.NotNil(t, s.LowStock)
	assert.Empty(t, s.LowStock)
}

func TestLowStock_EstrictamenteMenorACinco(t *testing.T) {
	products := []entity.Product{
		{ID: "a", Stock: 3},
		{ID: "b", Stock: 5},
		{ID: "c", Stock: 4},
	}

	low := analytics.LowStock(products)

	require.Len(t, low, 2)
	assert.Equal(t, "a", low[0].ID)
	assert.Equal(t, "c", low[1].ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// TrailingSeries
// ──────────────────────────────────────────────────────────────────────────────

func TestTrailingSeries_EscenarioAdmin(t *testing.T) {
	txs := []entity.Transaction{
		sale("t1", "u1", now, "100", "20"),
		sale("t2", "u1", now.AddDate(0, 0, -8), "50", "5"),
	}

	series := analytics.TrailingSeries(admin, txs, now)

	require.Len(t, series, analytics.SeriesDays)
	today := series[len(series)-1]
	assertDec(t, "100", today.Sales)
	assertDec(t, "20", today.Profit)

	total := decimal.Zero
	for _, p := range series {
		total = total.Add(p.Sales)
	}
	assertDec(t, "100", total, "la venta de hace 8 días no entra en la serie")
}

func TestTrailingSeries_OrdenYEtiquetas(t *testing.T) {
	series := analytics.TrailingSeries(admin, nil, now)

	require.Len(t, series, 7)
	labels := make([]string, 0, 7)
	for i, p := range series {
		labels = append(labels, p.Label)
		assertDec(t, "0", p.Sales)
		assertDec(t, "0", p.Profit)
		if i > 0 {
			assert.True(t, p.Date.After(series[i-1].Date), "más antiguo primero")
		}
	}
	assert.Equal(t, []string{"Thu", "Fri", "Sat", "Sun", "Mon", "Tue", "Wed"}, labels)
	assert.Equal(t, time.Date(2025, time.March, 6, 0, 0, 0, 0, dhaka), series[0].Date)
}

func TestTrailingSeries_LimitesDelPrimerDia(t *testing.T) {
	first := time.Date(2025, time.March, 6, 0, 0, 0, 0, dhaka)
	txs := []entity.Transaction{
		sale("dentro", "u1", first, "10", "1"),
		sale("fuera", "u1", first.Add(-time.Millisecond), "99", "9"),
	}

	series := analytics.TrailingSeries(admin, txs, now)

	assertDec(t, "10", series[0].Sales)
}

func TestTrailingSeries_NoAdminUsaTodasLasVentasSinGanancia(t *testing.T) {
	txs := []entity.Transaction{
		sale("t1", "u3", now.AddDate(0, 0, -2), "40", "10"),
		sale("t2", "u2", now, "60", "15"),
	}

	series := analytics.TrailingSeries(manager, txs, now)

	assertDec(t, "40", series[4].Sales)
	assertDec(t, "60", series[6].Sales)
	for _, p := range series {
		assertDec(t, "0", p.Profit)
	}
}

func TestTrailingSeries_CambioDeHorario(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	// El horario de verano empieza el domingo 9/03/2025.
	nowNY := time.Date(2025, time.March, 12, 12, 0, 0, 0, ny)
	lateSaturday := time.Date(2025, time.March, 8, 23, 30, 0, 0, ny)

	series := analytics.TrailingSeries(admin, []entity.Transaction{sale("t1", "u1", lateSaturday, "25", "5")}, nowNY)

	require.Len(t, series, 7)
	for i, p := range series {
		assert.Zero(t, p.Date.Hour(), "punto %d en medianoche local", i)
	}
	assert.Equal(t, "Sat", series[2].Label)
	assertDec(t, "25", series[2].Sales)
}

// ──────────────────────────────────────────────────────────────────────────────
// DashboardUseCase
// ──────────────────────────────────────────────────────────────────────────────

type fixedSource struct {
	snap datasync.Snapshot
	mode string
}

func (f fixedSource) Snapshot() datasync.Snapshot { return f.snap }
func (f fixedSource) Mode() string                { return f.mode }

func dashboardSource() fixedSource {
	return fixedSource{
		mode: "local",
		snap: datasync.Snapshot{
			Transactions: []entity.Transaction{
				sale("t1", "u1", now.AddDate(0, 0, -1), "300", "90"),
				sale("t2", "u2", now.Add(-2*time.Hour), "120.456", "30"),
			},
			Products: []entity.Product{
				{ID: "p1", Name: "Filtro", SKU: "F-1", Stock: 2},
				{ID: "p2", Name: "Bujía", SKU: "B-1", Stock: 40},
			},
			CashFlows: []entity.CashFlow{
				{ID: "c1", Type: entity.CashFlowExpense, Amount: dec("20")},
			},
		},
	}
}

func TestDashboard_Admin(t *testing.T) {
	uc := analytics.NewDashboardUseCase(dashboardSource(), func() time.Time { return now })

	out := uc.GetSummary(admin)

	assert.True(t, out.IsAdmin)
	assert.Equal(t, analytics.LabelAllTime, out.TimeLabel)
	assert.Equal(t, "local", out.DataMode)
	assert.Equal(t, 2, out.SalesCount)
	assertDec(t, "420.46", out.TotalRevenue)
	assertDec(t, "120", out.TotalProfit)
	assertDec(t, "400.46", out.CashOnHand)
	assertDec(t, "20", out.TotalExpenses)
	require.Len(t, out.LowStock, 1)
	assert.Equal(t, "F-1", out.LowStock[0].SKU)
	require.Len(t, out.Series, 7)
	assertDec(t, "300", out.Series[5].Sales)
	assertDec(t, "90", out.Series[5].Profit)
}

func TestDashboard_NoAdminOcultaCajaYGanancia(t *testing.T) {
	uc := analytics.NewDashboardUseCase(dashboardSource(), func() time.Time { return now })

	out := uc.GetSummary(manager)

	assert.False(t, out.IsAdmin)
	assert.Equal(t, analytics.LabelToday, out.TimeLabel)
	assert.Equal(t, 1, out.SalesCount)
	assertDec(t, "120.46", out.TotalRevenue)
	assertDec(t, "0", out.TotalProfit)
	assertDec(t, "0", out.CashOnHand)
	assertDec(t, "0", out.TotalExpenses)
	assertDec(t, "0", out.TotalWithdrawals)
	assertDec(t, "300", out.Series[5].Sales, "la serie usa todas las ventas")
	assertDec(t, "0", out.Series[5].Profit)
}
