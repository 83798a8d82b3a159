package dto

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse token emitido con los datos del actor resuelto.
type LoginResponse struct {
	Token        string   `json:"token"`
	UserID       string   `json:"user_id"`
	Name         string   `json:"name"`
	Role         string   `json:"role"`
	Capabilities []string `json:"capabilities"`
}

// RegisterUserRequest alta de usuario (requiere capability manage_users).
type RegisterUserRequest struct {
	Username           string `json:"username"`
	Email              string `json:"email"`
	FullName           string `json:"full_name"`
	Password           string `json:"password"`
	Role               string `json:"role"`
	CanAccessPurchases bool   `json:"can_access_purchases"`
	CanManageUsers     bool   `json:"can_manage_users"`
}
