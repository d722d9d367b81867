package validator

import (
	"log"
	"regexp"
	"time"

	"fishlog_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// допускаем небольшой рассинхрон часов клиента
const futureSkew = 5 * time.Minute

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// registerCustomRules регистрирует все кастомные функции валидации в
// переданном экземпляре валидатора.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'is-user-role': Проверяет, что роль пользователя валидна
	mustRegister("is-user-role", validateUserRole)

	// 'notfuture': дата улова не может быть в будущем
	mustRegister("notfuture", validateNotFuture)

	// 'username': латиница, цифры и . _ -
	mustRegister("username", validateUsername)
}

// --- Функции валидации ---

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // Не проверяем пустые значения, для этого есть 'required'
	}
	return models.UserRole(value).IsValid()
}

func validateNotFuture(fl validator.FieldLevel) bool {
	switch value := fl.Field().Interface().(type) {
	case time.Time:
		return value.IsZero() || !value.After(time.Now().Add(futureSkew))
	case *time.Time:
		return value == nil || !value.After(time.Now().Add(futureSkew))
	default:
		return false
	}
}

func validateUsername(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return usernamePattern.MatchString(value)
}
