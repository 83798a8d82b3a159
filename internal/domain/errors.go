package domain

import "errors"

// Errores de dominio (sin dependencias externas). Cada uno mapea a un código
// estable en la capa HTTP para que el cliente no tenga que parsear texto libre.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInvalidTransition = errors.New("transición de estado inválida")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrNumberExhausted   = errors.New("generación de número agotada tras reintentos")
)
