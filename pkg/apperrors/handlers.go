package apperrors

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Timestamp time.Time   `json:"timestamp"`
	Status    int         `json:"status"`
	Error     string      `json:"error"`
	Code      ErrorCode   `json:"code"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}

// GinErrorHandler - обработчик ошибок для Gin
type GinErrorHandler struct {
	Debug bool
}

// HandleGinError - основная логика обработки ошибок для Gin
func (h *GinErrorHandler) HandleGinError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}

	if appErr.HTTPCode >= 500 {
		slog.Default().ErrorContext(c.Request.Context(), "server error", "error", err)
		if !h.Debug && appErr.Code == CodeInternalError {
			// В продакшене скрываем детали
			appErr = InternalError(nil)
		}
	}

	c.AbortWithStatusJSON(appErr.HTTPCode, NewErrorResponse(appErr))
}

// NewErrorResponse собирает тело ответа из AppError
func NewErrorResponse(appErr *AppError) ErrorResponse {
	return ErrorResponse{
		Timestamp: time.Now().UTC(),
		Status:    appErr.HTTPCode,
		Error:     http.StatusText(appErr.HTTPCode),
		Code:      appErr.Code,
		Message:   appErr.Message,
		Details:   appErr.Details,
	}
}

var defaultHandler = &GinErrorHandler{Debug: false}

// SetDebug переключает вывод деталей внутренних ошибок
func SetDebug(debug bool) {
	defaultHandler.Debug = debug
}

// HandleError - быстрая функция-помощник для Gin
func HandleError(c *gin.Context, err error) {
	defaultHandler.HandleGinError(c, err)
}

// AsAppError - пытается преобразовать error в *AppError
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
