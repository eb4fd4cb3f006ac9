package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"travelblog/internal/errors"
	"travelblog/internal/service"
)

// UploadHandler handles image uploads.
type UploadHandler struct {
	imageService service.ImageService
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(imageService service.ImageService) *UploadHandler {
	return &UploadHandler{imageService: imageService}
}

// Upload godoc
// @Summary Upload an image
// @Description Images only, 5MB at most.
// @Tags upload
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image file"
// @Success 200 {object} service.UploadResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /upload [post]
func (h *UploadHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "No file received",
			Code:  "NO_FILE",
		}).SetInternal(err)
	}

	meta := service.FileMeta{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
	}

	src, err := fh.Open()
	if err != nil {
		return fail(c, "upload_open_failed", err)
	}
	defer src.Close()

	res, err := h.imageService.Upload(c.Request().Context(), src, meta)
	if err != nil {
		return fail(c, "upload_failed", err)
	}
	return c.JSON(http.StatusOK, res)
}

// DeleteImage godoc
// @Summary Delete an uploaded image
// @Description Deleting an unknown image succeeds.
// @Tags upload
// @Produce json
// @Security BearerAuth
// @Param publicId query string true "Storage public id"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /upload [delete]
func (h *UploadHandler) DeleteImage(c echo.Context) error {
	if err := h.imageService.Delete(c.Request().Context(), c.QueryParam("publicId")); err != nil {
		return fail(c, "image_delete_failed", err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Image deleted successfully"})
}
