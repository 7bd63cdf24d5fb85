package ports

import (
	"context"

	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain/entity"
)

// AdvisorService puerto de salida hacia el asesor de negocio basado en LLM.
// Cualquier adaptador (Gemini, Anthropic, mock) debe implementar esta interfaz;
// la aplicación solo conoce este contrato.
type AdvisorService interface {
	// GenerateBusinessInsights analiza ventas e inventario y devuelve recomendaciones
	// en HTML simple. El contexto debe llevar un timeout.
	// Sin credenciales devuelve domain.ErrAdvisorNotConfigured.
	GenerateBusinessInsights(
		ctx context.Context,
		txs []entity.Transaction,
		products []entity.Product,
	) (string, error)
}
