package server

import (
	"os"
	"path/filepath"

	"murmur/internal/models"
	"murmur/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UploadMedia handles POST /api/media. Accepts up to three images and one
// video as multipart form fields "images" and "video", and returns the
// stored names to attach to an entry.
func (s *Server) UploadMedia(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Multipart form required"))
	}

	images := form.File["images"]
	videos := form.File["video"]
	if len(images) == 0 && len(videos) == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No files provided"))
	}
	if len(images) > service.MaxImagesPerEntry {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Too many images (max 3)"))
	}
	if len(videos) > 1 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Only one video is allowed"))
	}

	for _, file := range images {
		if err := s.mediaService.ValidateImage(file.Filename, file.Size); err != nil {
			return respondServiceError(c, err)
		}
	}
	for _, file := range videos {
		if err := s.mediaService.ValidateVideo(file.Filename, file.Size); err != nil {
			return respondServiceError(c, err)
		}
	}

	if err := os.MkdirAll(s.mediaService.UploadsDir(), 0o755); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	storedImages := make([]string, 0, len(images))
	for _, file := range images {
		name := s.mediaService.StoredName(file.Filename)
		if err := c.SaveFile(file, filepath.Join(s.mediaService.UploadsDir(), name)); err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		}
		storedImages = append(storedImages, name)
	}

	storedVideo := ""
	for _, file := range videos {
		name := s.mediaService.StoredName(file.Filename)
		if err := c.SaveFile(file, filepath.Join(s.mediaService.UploadsDir(), name)); err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		}
		storedVideo = name
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"images": storedImages,
		"video":  storedVideo,
	})
}

// ServeUpload handles GET /uploads/:filename
func (s *Server) ServeUpload(c *fiber.Ctx) error {
	path, err := s.mediaService.StoredPath(c.Params("filename"))
	if err != nil {
		return respondServiceError(c, err)
	}
	if _, err := os.Stat(path); err != nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("File", c.Params("filename")))
	}
	return c.SendFile(path)
}
