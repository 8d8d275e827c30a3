package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateFileAccepted(t *testing.T) {
	v := NewUploadValidator(DefaultUploadConfig())

	ok, errs := v.ValidateFile("report.pdf", "application/pdf", 1<<20)

	assert.True(t, ok)
	assert.Empty(t, errs)
}

func TestValidateFileTooLarge(t *testing.T) {
	v := NewUploadValidator(DefaultUploadConfig())

	ok, errs := v.ValidateFile("report.pdf", "application/pdf", 11<<20)

	assert.False(t, ok)
	assert.Len(t, errs, 1)
}

func TestValidateFileDangerousExtension(t *testing.T) {
	v := NewUploadValidator(DefaultUploadConfig())

	ok, errs := v.ValidateFile("invoice.exe", "application/pdf", 1024)

	assert.False(t, ok)
	assert.Contains(t, errs, "file type blocked for security reasons")
}

func TestValidateFileUnsupportedMIME(t *testing.T) {
	v := NewUploadValidator(DefaultUploadConfig())

	ok, errs := v.ValidateFile("photo.png", "application/octet-stream", 1024)

	assert.False(t, ok)
	assert.Contains(t, errs, "file type not supported: application/octet-stream")
}

func TestValidateFilePathTraversal(t *testing.T) {
	v := NewUploadValidator(DefaultUploadConfig())

	ok, errs := v.ValidateFile("../../etc/passwd.txt", "text/plain", 10)

	assert.False(t, ok)
	assert.Contains(t, errs, "file name contains invalid characters")
}
