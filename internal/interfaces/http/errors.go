package http

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Ashraful7679/Engine-2-Mufller/internal/application/dto"
	"github.com/Ashraful7679/Engine-2-Mufller/internal/domain"
)

var validate = validator.New()

// bindJSON decodifica el cuerpo en dst y aplica las etiquetas validate.
// Si falla, ya escribió la respuesta 400 y devuelve false.
func bindJSON(c *fiber.Ctx, dst any) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(dst); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
	}
	return true, nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field()+" ("+fe.Tag()+")")
	}
	return "campos inválidos: " + strings.Join(fields, ", ")
}

// writeError traduce errores de dominio a códigos HTTP.
func writeError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		status, code = fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrRateLimited):
		status, code = fiber.StatusTooManyRequests, "RATE_LIMITED"
	case errors.Is(err, domain.ErrAdvisorNotConfigured):
		status, code = fiber.StatusServiceUnavailable, "AI_UNAVAILABLE"
	case errors.Is(err, domain.ErrRemoteNotConfigured):
		status, code = fiber.StatusServiceUnavailable, "REMOTE_UNAVAILABLE"
	case errors.Is(err, context.DeadlineExceeded):
		status, code = fiber.StatusRequestTimeout, "TIMEOUT"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}
