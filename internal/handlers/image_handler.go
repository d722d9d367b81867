package handlers

import (
	"io"
	"mime/multipart"
	"net/http"

	"fishlog_backend/internal/services"
	"fishlog_backend/internal/services/dto"
	"fishlog_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

const (
	formFieldFile  = "file"
	formFieldFiles = "files"
)

// ============================================
// IMAGE HANDLER
// ============================================

type ImageHandler struct {
	*BaseHandler
	uploadService services.ImageUploadService
	imageService  services.ImageService
}

func NewImageHandler(base *BaseHandler, uploadService services.ImageUploadService, imageService services.ImageService) *ImageHandler {
	return &ImageHandler{
		BaseHandler:   base,
		uploadService: uploadService,
		imageService:  imageService,
	}
}

// ============================================
// ROUTES
// ============================================

func (h *ImageHandler) RegisterRoutes(rg *gin.RouterGroup, authRequired gin.HandlerFunc) {
	captures := rg.Group("/captures")
	{
		// Публичное чтение
		captures.GET("/:captureId/images", h.ListImages)
		captures.GET("/:captureId/images/count", h.CountImages)
		captures.GET("/images/:imageId", h.GetImage)

		protected := captures.Group("")
		protected.Use(authRequired)
		{
			protected.POST("/:captureId/images", h.UploadImage)
			protected.POST("/:captureId/images/multiple", h.UploadImages)
			protected.DELETE("/images/:imageId", h.DeleteImage)
			protected.DELETE("/:captureId/images", h.DeleteAllImages)
		}
	}
}

// ============================================
// HANDLERS
// ============================================

// UploadImage - загрузка одного файла (поле "file")
func (h *ImageHandler) UploadImage(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile(formFieldFile)
	if err != nil {
		apperrors.HandleError(c, apperrors.InvalidImageCause(err, "No se ha enviado ningún archivo"))
		return
	}

	image, err := h.uploadService.UploadSingle(c.Request.Context(), h.GetDB(c), c.Param("captureId"), userID, toUploadFile(fileHeader))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, image)
}

// UploadImages - пакетная загрузка (повторяющееся поле "files").
// Частичный успех возвращается как 201 с описанием ошибок.
func (h *ImageHandler) UploadImages(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		apperrors.HandleError(c, apperrors.InvalidImageCause(err, "No se pudo leer el formulario"))
		return
	}

	headers := form.File[formFieldFiles]
	files := make([]services.UploadFile, 0, len(headers))
	for _, fh := range headers {
		files = append(files, toUploadFile(fh))
	}

	result, err := h.uploadService.UploadBatch(c.Request.Context(), h.GetDB(c), c.Param("captureId"), userID, files)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *ImageHandler) ListImages(c *gin.Context) {
	images, err := h.imageService.ListByCapture(c.Request.Context(), h.GetDB(c), c.Param("captureId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, images)
}

func (h *ImageHandler) GetImage(c *gin.Context) {
	image, err := h.imageService.GetByID(c.Request.Context(), h.GetDB(c), c.Param("imageId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, image)
}

func (h *ImageHandler) CountImages(c *gin.Context) {
	count, err := h.imageService.Count(c.Request.Context(), h.GetDB(c), c.Param("captureId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ImageCountResponse{Count: count})
}

func (h *ImageHandler) DeleteImage(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	result, err := h.imageService.DeleteOne(c.Request.Context(), h.GetDB(c), c.Param("imageId"), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ImageHandler) DeleteAllImages(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.imageService.DeleteAllForCapture(c.Request.Context(), h.GetDB(c), c.Param("captureId"), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func toUploadFile(fh *multipart.FileHeader) services.UploadFile {
	return services.UploadFile{
		FileName: fh.Filename,
		Size:     fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}
