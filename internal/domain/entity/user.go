package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin        = "admin"
	RoleOrganization = "organization"
	RoleUser         = "user"
)

// ValidRole verifica que el rol sea uno de los conocidos.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleOrganization || role == RoleUser
}

// User representa una cuenta del sistema. Las cuentas con rol admin u
// organization actúan como emisoras de certificados.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string // admin, organization, user
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanIssue indica si la cuenta puede emitir y despachar certificados.
func (u *User) CanIssue() bool {
	return u.Role == RoleAdmin || u.Role == RoleOrganization
}
