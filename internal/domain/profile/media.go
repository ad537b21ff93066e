package profile

import (
	"strings"

	"github.com/ARUMANDESU/validation"

	"gitlab.com/amize/amize-backend/pkg/i18nx"
)

const (
	MinMediaSize = 100              // 100 bytes
	MaxMediaSize = 10 * 1024 * 1024 // 10 MB

	// MediaFolder is the blob store folder profile and banner images go to.
	MediaFolder = "profiles"
)

var allowedMediaTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

var (
	ErrInvalidMediaType = validation.NewError(i18nx.ValidationMediaType, "must be a jpeg, png, gif or webp image")
	ErrMediaTooLarge    = validation.NewError(i18nx.ValidationMediaTooLarge, "must be no larger than {{.threshold}} MB").
				SetParams(map[string]any{"threshold": MaxMediaSize / (1024 * 1024)})
	ErrMediaTooSmall = validation.NewError(i18nx.ValidationMediaTooSmall, "must be at least {{.threshold}} bytes").
				SetParams(map[string]any{"threshold": MinMediaSize})
)

// ValidateMedia checks an uploaded image before it is sent to the blob store.
func ValidateMedia(contentType string, size int64) error {
	if _, ok := allowedMediaTypes[normalizeContentType(contentType)]; !ok {
		return ErrInvalidMediaType
	}
	if size > MaxMediaSize {
		return ErrMediaTooLarge
	}
	if size < MinMediaSize {
		return ErrMediaTooSmall
	}

	return nil
}

// MediaExtension returns the file extension stored objects get for contentType.
func MediaExtension(contentType string) string {
	return allowedMediaTypes[normalizeContentType(contentType)]
}

func normalizeContentType(contentType string) string {
	ct, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(ct))
}
