package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

// DBContextKey - ключ, по которому хранится *gorm.DB в context
const DBContextKey = contextKey("db")

// Ключи gin.Context для данных аутентифицированного пользователя
const (
	UserIDKey   = "userID"
	UsernameKey = "username"
	RoleKey     = "role"
)
