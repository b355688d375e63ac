package services

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// Downloadable file kinds attached to a project. They line up with the
// optional components a buyer can select.
const (
	FileKindUI            = "ui"
	FileKindCode          = "code"
	FileKindDocumentation = "documentation"
)

// FileKinds lists the accepted kinds in display order.
var FileKinds = []string{FileKindUI, FileKindCode, FileKindDocumentation}

// IsFileKind reports whether kind is one of FileKinds.
func IsFileKind(kind string) bool {
	for _, k := range FileKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// FileKindLabel is the display name used in toasts and lists.
func FileKindLabel(kind string) string {
	switch kind {
	case FileKindUI:
		return ComponentUI
	case FileKindCode:
		return ComponentCode
	case FileKindDocumentation:
		return ComponentDocumentation
	}
	return kind
}

var imageTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp", "image/svg+xml"}

// UploadCheck is the outcome of sniffing an uploaded file.
type UploadCheck struct {
	MIME       string
	Extension  string
	StoredName string
}

// CheckImageUpload sniffs head (the first bytes of the file) and accepts
// only image content no larger than maxBytes.
func CheckImageUpload(filename string, head []byte, size, maxBytes int64) (UploadCheck, error) {
	if size > maxBytes {
		return UploadCheck{}, fmt.Errorf("image is larger than %s", HumanSize(maxBytes))
	}
	mt := mimetype.Detect(head)
	if !mimetype.EqualsAny(mt.String(), imageTypes...) {
		return UploadCheck{}, fmt.Errorf("%s is not an image (%s)", filename, mt.String())
	}
	return UploadCheck{
		MIME:       mt.String(),
		Extension:  mt.Extension(),
		StoredName: StoredFileName("image", filename, mt.Extension()),
	}, nil
}

// CheckFileUpload accepts any content for a known kind up to maxBytes.
func CheckFileUpload(kind, filename string, head []byte, size, maxBytes int64) (UploadCheck, error) {
	if !IsFileKind(kind) {
		return UploadCheck{}, fmt.Errorf("unknown file type %q", kind)
	}
	if size > maxBytes {
		return UploadCheck{}, fmt.Errorf("file is larger than %s", HumanSize(maxBytes))
	}
	if size == 0 {
		return UploadCheck{}, fmt.Errorf("%s is empty", filename)
	}
	mt := mimetype.Detect(head)
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = mt.Extension()
	}
	return UploadCheck{
		MIME:       mt.String(),
		Extension:  ext,
		StoredName: StoredFileName(kind, filename, ext),
	}, nil
}

// StoredFileName returns a collision-free flat storage name starting with
// prefix that keeps the original extension.
func StoredFileName(prefix, filename, ext string) string {
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(filename))
	}
	return prefix + "_" + uuid.NewString() + ext
}
