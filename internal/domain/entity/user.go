package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager" // el "DG" del flujo de aprobación
	RoleUser    = "user"
	RoleViewer  = "viewer"
)

// Capability es un permiso puntual que una operación puede exigir.
// Cada operación declara la capability que necesita; el proveedor de identidad
// resuelve el actor a un conjunto, y el motor solo verifica pertenencia
// (sin ramas ad-hoc por rol).
type Capability string

const (
	CapApproveDG       Capability = "approve_dg"        // primer nivel de aprobación (firma DG)
	CapPurchasing      Capability = "purchasing"        // aprobación de compras y commandes
	CapManageStock     Capability = "manage_stock"      // movimientos y ajustes de stock
	CapViewAllRequests Capability = "view_all_requests" // ver demandas de todos los solicitantes
	CapManageUsers     Capability = "manage_users"
)

// CapabilitySet conjunto de capabilities de un actor.
type CapabilitySet map[Capability]struct{}

// NewCapabilitySet construye el conjunto desde strings (claims JWT).
func NewCapabilitySet(caps []string) CapabilitySet {
	set := make(CapabilitySet, len(caps))
	for _, c := range caps {
		set[Capability(c)] = struct{}{}
	}
	return set
}

// Has indica si el conjunto contiene la capability.
func (s CapabilitySet) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}

// Strings devuelve las capabilities como slice (para claims JWT).
func (s CapabilitySet) Strings() []string {
	out := make([]string, 0, len(s))
	for c := range s {
		out = append(out, string(c))
	}
	return out
}

// CapabilitiesForRole traduce el rol y los flags por usuario al conjunto de
// capabilities. admin y manager cubren el gate DG; purchasing depende del flag.
func CapabilitiesForRole(role string, canAccessPurchases, canManageUsers bool) CapabilitySet {
	set := make(CapabilitySet)
	switch role {
	case RoleAdmin:
		set[CapApproveDG] = struct{}{}
		set[CapPurchasing] = struct{}{}
		set[CapManageStock] = struct{}{}
		set[CapViewAllRequests] = struct{}{}
		set[CapManageUsers] = struct{}{}
	case RoleManager:
		set[CapApproveDG] = struct{}{}
		set[CapManageStock] = struct{}{}
		set[CapViewAllRequests] = struct{}{}
	case RoleUser:
		set[CapManageStock] = struct{}{}
	case RoleViewer:
		// solo lectura de sus propias demandas
	}
	if canAccessPurchases && role != RoleViewer {
		set[CapPurchasing] = struct{}{}
	}
	if canManageUsers {
		set[CapManageUsers] = struct{}{}
	}
	return set
}

// Actor identidad resuelta que ejecuta una operación (viene del JWT).
// El núcleo confía en este input: la autenticación es responsabilidad externa.
type Actor struct {
	ID           string
	Name         string
	Role         string
	Capabilities CapabilitySet
}

// Can indica si el actor posee la capability.
func (a Actor) Can(c Capability) bool {
	return a.Capabilities.Has(c)
}

// User representa un usuario del sistema.
type User struct {
	ID                 string
	Username           string
	Email              string
	FullName           string
	PasswordHash       string // bcrypt hash, nunca plano en dominio después de persistir
	Role               string // admin, manager, user, viewer
	IsActive           bool
	CanAccessPurchases bool
	CanManageUsers     bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
