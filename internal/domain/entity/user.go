package entity

import "strings"

// Roles válidos del dashboard (tipo_usuario del backend de autenticación).
const (
	RoleAdmin         = "admin"
	RoleInversionista = "inversionista"
)

// User usuario autenticado contra el backend. La BFF no guarda contraseñas.
type User struct {
	ID       string
	Email    string
	Name     string
	LastName string
	Role     string // admin, inversionista
	Active   bool
}

// NormalizeRole convierte el tipo_usuario del backend ("Admin", "Inversionista")
// al rol interno. Devuelve "" si no es reconocido.
func NormalizeRole(tipoUsuario string) string {
	switch strings.ToLower(strings.TrimSpace(tipoUsuario)) {
	case RoleAdmin, "administrador":
		return RoleAdmin
	case RoleInversionista:
		return RoleInversionista
	default:
		return ""
	}
}

// FullName nombre para mostrar.
func (u User) FullName() string {
	return strings.TrimSpace(u.Name + " " + u.LastName)
}
