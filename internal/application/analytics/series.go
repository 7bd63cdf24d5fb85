package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain/entity"
)

// SeriesDays cantidad de días de la serie del panel (hoy incluido).
const SeriesDays = 7

// SeriesPoint ventas y ganancia de un día local.
type SeriesPoint struct {
	Date   time.Time // medianoche local
	Label  string    // día de la semana abreviado en inglés: "Mon"
	Sales  decimal.Decimal
	Profit decimal.Decimal
}

type dayKey struct {
	year  int
	month time.Month
	day   int
}

func keyOf(t time.Time) dayKey {
	y, m, d := t.Date()
	return dayKey{y, m, d}
}

// TrailingSeries devuelve exactamente SeriesDays puntos, el más antiguo primero.
// El punto k corresponde a la medianoche local de now menos k días (aritmética de
// calendario, no múltiplos de 24h). Usa todas las ventas, no el conjunto visible;
// la ganancia solo se informa a admin.
func TrailingSeries(viewer entity.User, txs []entity.Transaction, now time.Time) []SeriesPoint {
	loc := now.Location()
	points := make([]SeriesPoint, SeriesDays)
	index := make(map[dayKey]int, SeriesDays)
	for i := 0; i < SeriesDays; i++ {
		offset := SeriesDays - 1 - i
		day := time.Date(now.Year(), now.Month(), now.Day()-offset, 0, 0, 0, 0, loc)
		points[i] = SeriesPoint{
			Date:   day,
			Label:  day.Weekday().String()[:3],
			Sales:  decimal.Zero,
			Profit: decimal.Zero,
		}
		index[keyOf(day)] = i
	}

	for _, tx := range txs {
		i, ok := index[keyOf(tx.Time(loc))]
		if !ok {
			continue
		}
		points[i].Sales = points[i].Sales.Add(tx.TotalAmount)
		if viewer.IsAdmin() {
			points[i].Profit = points[i].Profit.Add(tx.TotalProfit)
		}
	}
	return points
}
