package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/microcosm-cc/bluemonday"

	appanalytics "github.com/Ashraful7679/Engine-2-Mufller/internal/application/analytics"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/application/dto"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain/entity"
)

// insightsGenerator contrato de *usecase.AdvisorUseCase.
type insightsGenerator interface {
	Insights(ctx context.Context, viewer entity.User) (string, error)
}

// DashboardHandler maneja los endpoints del panel.
type DashboardHandler struct {
	uc       *appanalytics.DashboardUseCase
	advisor  insightsGenerator
	sanitize *bluemonday.Policy
	now      func() time.Time
}

// NewDashboardHandler construye el handler. advisor puede ser nil.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, advisor insightsGenerator) *DashboardHandler {
	return &DashboardHandler{
		uc:       uc,
		advisor:  advisor,
		sanitize: bluemonday.UGCPolicy(),
		now:      time.Now,
	}
}

// GetSummary devuelve el resumen del panel para el usuario en sesión.
// GET /api/dashboard/summary
//
// Admin ve los agregados de toda la historia; el resto solo las ventas de hoy
// y sin cifras de caja ni ganancia.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	viewer, ok, err := viewerOrAbort(c)
	if !ok {
		return err
	}
	return c.JSON(h.uc.GetSummary(viewer))
}

// Insights godoc
// @Summary      Recomendaciones de negocio generadas por IA
// @Description  Solo admin. El HTML devuelto por el modelo se sanea antes de responder.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200   {object}  dto.InsightsResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/dashboard/insights [post]
func (h *DashboardHandler) Insights(c *fiber.Ctx) error {
	viewer, ok, err := viewerOrAbort(c)
	if !ok {
		return err
	}
	if h.advisor == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "AI_UNAVAILABLE", Message: "asesor de IA no configurado"})
	}
	html, err := h.advisor.Insights(c.UserContext(), viewer)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.InsightsResponse{HTML: h.sanitize.Sanitize(html), GeneratedAt: h.now()})
}
