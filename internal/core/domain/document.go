package domain

import (
	"mime"
	"path/filepath"
	"strings"
	"time"
)

// DocumentStatus is the processing state of a document record.
type DocumentStatus string

// Available document statuses.
const (
	DocumentPending   DocumentStatus = "pending"
	DocumentProcessed DocumentStatus = "processed"
	DocumentError     DocumentStatus = "error"
)

// IsValid returns true if the status is recognised.
func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocumentPending, DocumentProcessed, DocumentError:
		return true
	default:
		return false
	}
}

// Document type buckets used by the type distribution.
const (
	DocumentTypePDF   = "pdf"
	DocumentTypeImage = "image"
	DocumentTypeText  = "text"
	DocumentTypeOther = "other"
)

// DocumentTypes lists the distribution buckets in display order.
var DocumentTypes = []string{DocumentTypePDF, DocumentTypeImage, DocumentTypeText, DocumentTypeOther}

// NormaliseDocumentType maps a file type, extension or MIME type onto a
// distribution bucket. Anything unrecognised is "other".
func NormaliseDocumentType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	t = strings.TrimPrefix(t, ".")
	switch {
	case t == DocumentTypePDF, t == "application/pdf":
		return DocumentTypePDF
	case t == DocumentTypeImage, t == "png", t == "jpg", t == "jpeg", t == "tiff", t == "tif",
		t == "bmp", t == "gif", strings.HasPrefix(t, "image/"):
		return DocumentTypeImage
	case t == DocumentTypeText, t == "txt", t == "md", t == "markdown", strings.HasPrefix(t, "text/"):
		return DocumentTypeText
	default:
		return DocumentTypeOther
	}
}

// DocumentTypeForFile returns the distribution bucket for a file name.
func DocumentTypeForFile(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return DocumentTypeOther
	}
	if bucket := NormaliseDocumentType(ext); bucket != DocumentTypeOther {
		return bucket
	}
	if mt := mime.TypeByExtension(ext); mt != "" {
		return NormaliseDocumentType(strings.SplitN(mt, ";", 2)[0])
	}
	return DocumentTypeOther
}

// DocumentRecord is one entry in the document history.
// Records are never mutated after creation.
type DocumentRecord struct {
	// ID is unique and derived from the creation timestamp in milliseconds.
	ID int64 `json:"id"`

	// FileName is the original file name or input label.
	FileName string `json:"file_name"`

	// BlobName is the stored object name for uploaded files.
	BlobName string `json:"blob_name,omitempty"`

	// Type is the document type (pdf, image, text or a raw file type).
	Type string `json:"type"`

	// SizeBytes is the size of the stored or analysed payload.
	SizeBytes int64 `json:"size"`

	// Status is the processing state.
	Status DocumentStatus `json:"status"`

	// NumChunks is the number of chunks generated for the document.
	NumChunks int `json:"num_chunks"`

	// Categories are the distinct categories detected in the document.
	Categories []string `json:"categories,omitempty"`

	// ElementsCount is the number of extracted elements, for analyses.
	ElementsCount int `json:"elements_count,omitempty"`

	// Timestamp is when the record was created.
	Timestamp time.Time `json:"timestamp"`

	// ProcessingDate is when the document finished processing.
	ProcessingDate time.Time `json:"processing_date"`
}

// Clone returns a copy that shares no slices with the original.
func (d DocumentRecord) Clone() DocumentRecord {
	if d.Categories != nil {
		d.Categories = append([]string{}, d.Categories...)
	}
	return d
}
