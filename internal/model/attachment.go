// File: internal/model/attachment.go
package model

import (
	"path/filepath"
	"strings"
)

// MediaType selects which upload control variant the dispatcher targets.
type MediaType int

const (
	MediaDocument MediaType = iota
	MediaImage
	MediaVideo
)

func (m MediaType) String() string {
	switch m {
	case MediaImage:
		return "image"
	case MediaVideo:
		return "video"
	default:
		return "document"
	}
}

// Extension sets mirror what WhatsApp Web accepts on its two upload inputs.
var (
	imageExtensions    = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}
	videoExtensions    = map[string]bool{".mp4": true, ".avi": true, ".mov": true, ".wmv": true, ".flv": true}
	documentExtensions = map[string]bool{".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true, ".ppt": true, ".pptx": true, ".txt": true}
)

// Attachment is one file queued for upload alongside a message.
type Attachment struct {
	FilePath  string    `json:"file_path"`
	MediaType MediaType `json:"media_type"`
}

// NewAttachment infers the media type from the file extension. Unknown
// extensions fall back to the document upload control, which accepts
// arbitrary files.
func NewAttachment(path string) Attachment {
	return Attachment{FilePath: path, MediaType: DetectMediaType(path)}
}

// DetectMediaType classifies a file path by extension.
func DetectMediaType(path string) MediaType {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case imageExtensions[ext]:
		return MediaImage
	case videoExtensions[ext]:
		return MediaVideo
	case documentExtensions[ext]:
		return MediaDocument
	default:
		return MediaDocument
	}
}
