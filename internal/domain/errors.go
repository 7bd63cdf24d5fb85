package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrUserNotFound         = errors.New("usuario no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
	ErrRemoteNotConfigured  = errors.New("almacén remoto no configurado")
	ErrMalformedSession     = errors.New("sesión persistida con formato inválido")
	ErrAdvisorNotConfigured = errors.New("asesor de IA no configurado")
	ErrRateLimited          = errors.New("demasiadas solicitudes, intente más tarde")
)
