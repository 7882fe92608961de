package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrInvalidDateSelection = errors.New("selección de fecha inválida")
	ErrSessionNotFound      = errors.New("sesión no encontrada")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
	ErrBackendUnavailable   = errors.New("backend de métricas no disponible")
)
