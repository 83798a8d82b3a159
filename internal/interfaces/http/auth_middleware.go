package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/tra18/systeme-gestion-stock/internal/application/dto"
	"github.com/tra18/systeme-gestion-stock/internal/domain/entity"
	"github.com/tra18/systeme-gestion-stock/pkg/jwt"
)

// Locals keys para los datos del actor en Fiber.
const (
	LocalUserID       = "user_id"
	LocalUserName     = "user_name"
	LocalRole         = "role"
	LocalCapabilities = "capabilities"
)

// AuthMiddleware valida el Bearer Token JWT y extrae el actor a c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUserName, claims.Name)
		c.Locals(LocalRole, claims.Role)
		c.Locals(LocalCapabilities, claims.Capabilities)
		return c.Next()
	}
}

// RequireCapability corta con 403 si el actor no posee la capability.
// Se monta después de AuthMiddleware.
func RequireCapability(cap entity.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !GetActor(c).Can(cap) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "capability requerida: " + string(cap)})
		}
		return c.Next()
	}
}

// GetActor reconstruye el actor desde el contexto (después del middleware de auth).
func GetActor(c *fiber.Ctx) entity.Actor {
	actor := entity.Actor{Capabilities: entity.CapabilitySet{}}
	if v, ok := c.Locals(LocalUserID).(string); ok {
		actor.ID = v
	}
	if v, ok := c.Locals(LocalUserName).(string); ok {
		actor.Name = v
	}
	if v, ok := c.Locals(LocalRole).(string); ok {
		actor.Role = v
	}
	if v, ok := c.Locals(LocalCapabilities).([]string); ok {
		actor.Capabilities = entity.NewCapabilitySet(v)
	}
	return actor
}
