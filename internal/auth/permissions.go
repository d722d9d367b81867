package auth

import "errors"

// RBAC роли и разрешения
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

const (
	PermCapturesRead      = "captures:read"
	PermCapturesWriteSelf = "captures:write:self"
	PermImagesWriteSelf   = "images:write:self"
	PermTokensCleanup     = "tokens:cleanup"
)

// Permissions список разрешений
var Permissions = map[string][]string{
	RoleAdmin: {
		PermCapturesRead,
		PermCapturesWriteSelf,
		PermImagesWriteSelf,
		PermTokensCleanup,
	},
	RoleUser: {
		PermCapturesRead,
		PermCapturesWriteSelf,
		PermImagesWriteSelf,
	},
}

// HasPermission проверяет есть ли у роли указанное разрешение
func HasPermission(role, permission string) bool {
	permissions, exists := Permissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// IsAdmin проверяет является ли пользователь администратором
func IsAdmin(claims *Claims) bool {
	return claims.Role == RoleAdmin
}

// ValidateRole проверяет валидность роли
func ValidateRole(role string) error {
	switch role {
	case RoleAdmin, RoleUser:
		return nil
	default:
		return errors.New("invalid role")
	}
}
