package domain

// Upload status reported by a successful upload.
const UploadStatusOK = "ok"

// SupportedUploadExtensions lists the file extensions accepted for upload.
var SupportedUploadExtensions = []string{".pdf", ".png", ".jpg", ".jpeg"}

// UploadResult is returned by a successful upload.
type UploadResult struct {
	Status   string `json:"status"`
	BlobName string `json:"blob_name"`

	// Document is the history record created for the upload.
	Document DocumentRecord `json:"document"`
}

// QueryAnswer is returned by a question over the stored documents.
type QueryAnswer struct {
	Answer string `json:"answer"`
}
