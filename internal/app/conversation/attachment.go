package conversation

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dbu-intelligence/navigator/internal/domain"
)

// MaxAttachmentBytes bounds what can be staged; inline image parts above this
// are rejected by the inference backends anyway.
const MaxAttachmentBytes = 20 << 20

// ImageExtensions lists the file types offered when picking an attachment.
var ImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".heic"}

// LoadAttachment reads an image file into an Attachment ready to be staged.
func LoadAttachment(path string) (*domain.Attachment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading attachment: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("reading attachment: %s is a directory", path)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrEmptyAttachment)
	}
	if info.Size() > MaxAttachmentBytes {
		return nil, fmt.Errorf("attachment %s is too large (%d bytes, max %d)", path, info.Size(), MaxAttachmentBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading attachment: %w", err)
	}

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	// drop parameters such as "; charset=utf-8"
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}

	return &domain.Attachment{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Data:        data,
	}, nil
}
