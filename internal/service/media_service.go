package service

import (
	"fmt"
	"path/filepath"
	"strings"

	"murmur/internal/models"

	"github.com/google/uuid"
)

// Media upload limits.
const (
	MaxImagesPerEntry = 3
	MaxImageBytes     = 10 << 20  // 10MB
	MaxVideoBytes     = 100 << 20 // 100MB
)

var (
	imageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}
	videoExtensions = map[string]bool{".mp4": true, ".webm": true}
)

// MediaService validates uploads and assigns unguessable stored names.
// Handlers own the actual file writes.
type MediaService struct {
	uploadsDir string
}

func NewMediaService(uploadsDir string) *MediaService {
	return &MediaService{uploadsDir: uploadsDir}
}

func (s *MediaService) UploadsDir() string {
	return s.uploadsDir
}

// ValidateImage checks one image upload against the extension allowlist and
// size cap.
func (s *MediaService) ValidateImage(filename string, size int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !imageExtensions[ext] {
		return models.NewValidationError(fmt.Sprintf("Unsupported image type %q (jpg, jpeg, png, webp allowed)", ext))
	}
	if size > MaxImageBytes {
		return models.NewValidationError("Image too large (max 10MB)")
	}
	return nil
}

// ValidateVideo checks the single video upload.
func (s *MediaService) ValidateVideo(filename string, size int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !videoExtensions[ext] {
		return models.NewValidationError(fmt.Sprintf("Unsupported video type %q (mp4, webm allowed)", ext))
	}
	if size > MaxVideoBytes {
		return models.NewValidationError("Video too large (max 100MB)")
	}
	return nil
}

// StoredName generates the on-disk name for an upload, keeping only the
// extension from the client-supplied filename.
func (s *MediaService) StoredName(filename string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(filename))
}

// StoredPath resolves a stored name inside the uploads directory, rejecting
// any name that escapes it.
func (s *MediaService) StoredPath(name string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", models.NewValidationError("Invalid file name")
	}
	return filepath.Join(s.uploadsDir, name), nil
}
