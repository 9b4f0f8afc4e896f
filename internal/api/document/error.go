package document

import "docverify/pkg/response"

var (
	ErrDocumentNotFound = response.NewError(404, "document not found")
	ErrNoFileUploaded   = response.NewError(400, "no document uploaded")
	ErrFileTooLarge     = response.NewError(400, "file too large, maximum size is 10MB")
	ErrInvalidFileType  = response.NewError(400, "invalid file type, only images and PDF documents are allowed")
	ErrFailedToUpload   = response.NewError(500, "failed to store document")
	ErrOCRFailed        = response.NewError(422, "could not read text from document")
	ErrOCRTimeout       = response.NewError(504, "text recognition timed out")
	ErrCreateDocument   = response.NewError(500, "failed to save document")
	ErrDeleteDocument   = response.NewError(500, "failed to delete document")
)
