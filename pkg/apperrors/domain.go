package apperrors

import (
	"net/http"
)

/*
Фабрики и предопределенные переменные для ошибок домена:
уловы, изображения, хранилище и учетные записи.
*/

// =========================================================================
// Таксономия пайплайна изображений
// =========================================================================

// NotFound - сущность (улов, изображение, пользователь, токен) не найдена (404)
func NotFound(domain, message string) *AppError {
	return New(CodeNotFound, domain, message, http.StatusNotFound)
}

// Unauthorized - нарушение владения ресурсом (403).
// Отличается от Unauthenticated (401), который выдает auth middleware.
func Unauthorized(message string) *AppError {
	return New(CodeForbidden, "ownership", message, http.StatusForbidden)
}

// InvalidImage - ошибка валидации файла или превышение квоты (400)
func InvalidImage(message string) *AppError {
	return New(CodeInvalidImage, "image", message, http.StatusBadRequest)
}

// InvalidImageCause - то же, что InvalidImage, но с сохранением причины
func InvalidImageCause(err error, message string) *AppError {
	return Wrap(err, CodeInvalidImage, "image", message, http.StatusBadRequest)
}

// Storage - сбой внешнего хранилища объектов (500)
func Storage(err error, message string) *AppError {
	return Wrap(err, CodeStorageError, "storage", message, http.StatusInternalServerError)
}

// =========================================================================
// Предопределенные ПЕРЕМЕННЫЕ
// =========================================================================

var ErrCaptureNotFound = NotFound("capture", "Captura no encontrada")

var ErrImageNotFound = NotFound("image", "Imagen no encontrada")

var ErrUserNotFound = NotFound("user", "Usuario no encontrado")

var ErrNotCaptureOwner = Unauthorized("No tienes permiso para modificar esta captura")

// --- Auth ---

var ErrWeakPassword = New(
	CodeValidationFailed,
	"validation",
	"La contraseña debe tener al menos 8 caracteres",
	http.StatusBadRequest,
)

var ErrUserAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"El nombre de usuario o el email ya están en uso",
	http.StatusConflict,
)

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Usuario o contraseña incorrectos",
	http.StatusUnauthorized,
)

// ErrInvalidToken - неверный, просроченный или отозванный refresh-токен
var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Token inválido o expirado",
	http.StatusUnauthorized,
)

// ErrInvalidVerificationToken - токен подтверждения email неверен или уже использован
var ErrInvalidVerificationToken = New(
	CodeInvalidToken,
	"auth",
	"Token de verificación inválido, expirado o ya utilizado",
	http.StatusBadRequest,
)
