package handlers

import (
	"net/http"

	"fishlog_backend/internal/services"
	"fishlog_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type CaptureHandler struct {
	*BaseHandler
	captureService services.CaptureService
}

func NewCaptureHandler(base *BaseHandler, captureService services.CaptureService) *CaptureHandler {
	return &CaptureHandler{
		BaseHandler:    base,
		captureService: captureService,
	}
}

func (h *CaptureHandler) RegisterRoutes(rg *gin.RouterGroup, authRequired gin.HandlerFunc) {
	captures := rg.Group("/captures")
	{
		captures.GET("/:captureId", h.GetCapture)

		protected := captures.Group("")
		protected.Use(authRequired)
		{
			protected.POST("", h.CreateCapture)
			protected.GET("/mine", h.ListMyCaptures)
			protected.PUT("/:captureId", h.UpdateCapture)
			protected.DELETE("/:captureId", h.DeleteCapture)
		}
	}
}

func (h *CaptureHandler) CreateCapture(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateCaptureRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	capture, err := h.captureService.Create(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, capture)
}

func (h *CaptureHandler) GetCapture(c *gin.Context) {
	capture, err := h.captureService.GetByID(c.Request.Context(), h.GetDB(c), c.Param("captureId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, capture)
}

func (h *CaptureHandler) ListMyCaptures(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page, pageSize := ParsePagination(c)
	list, err := h.captureService.ListMine(c.Request.Context(), h.GetDB(c), userID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *CaptureHandler) UpdateCapture(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateCaptureRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	capture, err := h.captureService.Update(c.Request.Context(), h.GetDB(c), c.Param("captureId"), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, capture)
}

// DeleteCapture удаляет улов вместе со всеми изображениями
func (h *CaptureHandler) DeleteCapture(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.captureService.Delete(c.Request.Context(), h.GetDB(c), c.Param("captureId"), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
