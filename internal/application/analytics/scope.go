// Package analytics calcula los agregados del panel del taller (ingresos, caja,
// ganancia, stock bajo y la serie de los últimos 7 días) a partir de una copia
// consistente de las colecciones. Todo es de solo lectura y sin errores.
package analytics

import (
	"time"

	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain/entity"
)

// Etiquetas del período visible según el rol.
const (
	LabelAllTime = "All Time"
	LabelToday   = "Today"
)

// Scope subconjunto de ventas visible para un usuario.
type Scope struct {
	Label        string
	Admin        bool
	Transactions []entity.Transaction
}

// ScopeFor es la única política de visibilidad:
//   - admin: todas las ventas, período "All Time";
//   - resto: solo las ventas propias desde la medianoche local de hoy, período "Today".
func ScopeFor(viewer entity.User, txs []entity.Transaction, now time.Time) Scope {
	if viewer.IsAdmin() {
		return Scope{Label: LabelAllTime, Admin: true, Transactions: txs}
	}
	todayStart := startOfDay(now).UnixMilli()
	scoped := make([]entity.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.CreatedBy == viewer.ID && tx.Timestamp >= todayStart {
			scoped = append(scoped, tx)
		}
	}
	return Scope{Label: LabelToday, Transactions: scoped}
}

// startOfDay medianoche local del día de t (00:00:00.000 en t.Location()).
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
