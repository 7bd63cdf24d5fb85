package usecase

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/Ashraful7679/Engine-2-Mufller/internal/application/datasync"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/application/ports"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain/entity"
)

// advisorTimeout tope de cada llamada al LLM.
const advisorTimeout = 30 * time.Second

// Snapshotter fuente de la copia consistente de colecciones.
type Snapshotter interface {
	Snapshot() datasync.Snapshot
}

// AdvisorUseCase orquesta las recomendaciones de negocio generadas por IA.
// Solo admin puede pedirlas y el ritmo de llamadas está acotado por un limitador
// compartido por todo el proceso.
type AdvisorUseCase struct {
	source  Snapshotter
	advisor ports.AdvisorService
	limiter *rate.Limiter
}

// NewAdvisorUseCase construye el caso de uso. advisor nil deja el asesor deshabilitado;
// perMinute <= 0 desactiva el límite.
func NewAdvisorUseCase(source Snapshotter, advisor ports.AdvisorService, perMinute int) *AdvisorUseCase {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if perMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
	}
	return &AdvisorUseCase{source: source, advisor: advisor, limiter: limiter}
}

// Insights devuelve el texto del asesor tal cual lo genera el modelo.
func (uc *AdvisorUseCase) Insights(ctx context.Context, viewer entity.User) (string, error) {
	if !viewer.IsAdmin() {
		return "", domain.ErrForbidden
	}
	if uc.advisor == nil {
		return "", domain.ErrAdvisorNotConfigured
	}
	if !uc.limiter.Allow() {
		return "", domain.ErrRateLimited
	}

	// Timeout de 30 s: la generación puede tardar varios segundos.
	ctx, cancel := context.WithTimeout(ctx, advisorTimeout)
	defer cancel()

	snap := uc.source.Snapshot()
	text, err := uc.advisor.GenerateBusinessInsights(ctx, snap.Transactions, snap.Products)
	if err != nil {
		return "", fmt.Errorf("asesor IA: %w", err)
	}
	return text, nil
}
