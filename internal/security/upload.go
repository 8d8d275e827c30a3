package security

import (
	"fmt"
	"regexp"
	"strings"
)

type UploadConfig struct {
	MaxSize           int64 // bytes
	AllowedMIMETypes  []string
	AllowedExtensions []string
}

func DefaultUploadConfig() UploadConfig {
	return UploadConfig{
		MaxSize: 10 << 20, // 10MB
		AllowedMIMETypes: []string{
			"image/jpeg", "image/png", "image/gif", "image/webp",
			"application/pdf", "text/csv", "text/plain",
			"application/vnd.ms-excel",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		},
		AllowedExtensions: []string{
			".jpg", ".jpeg", ".png", ".gif", ".webp",
			".pdf", ".csv", ".xls", ".xlsx", ".txt",
		},
	}
}

var dangerousExtensions = map[string]bool{
	".exe": true, ".bat": true, ".cmd": true, ".com": true, ".pif": true,
	".scr": true, ".vbs": true, ".js": true, ".jar": true, ".app": true,
	".deb": true, ".pkg": true, ".dmg": true, ".rpm": true, ".sh": true,
	".ps1": true, ".php": true, ".asp": true, ".jsp": true, ".py": true,
	".rb": true, ".pl": true, ".cgi": true,
}

var reControlChars = regexp.MustCompile(`[\x00-\x1f\x7f-\x9f]`)

type UploadValidator struct {
	config UploadConfig
}

func NewUploadValidator(config UploadConfig) *UploadValidator {
	return &UploadValidator{config: config}
}

// ValidateFile screens an upload by size, MIME type, extension allowlist and
// filename shape before any byte is stored.
func (v *UploadValidator) ValidateFile(name, mimeType string, size int64) (bool, []string) {
	var errs []string

	if size > v.config.MaxSize {
		errs = append(errs, fmt.Sprintf("file exceeds the %d byte limit", v.config.MaxSize))
	}

	if !contains(v.config.AllowedMIMETypes, mimeType) {
		errs = append(errs, fmt.Sprintf("file type not supported: %s", mimeType))
	}

	ext := fileExtension(name)
	if !contains(v.config.AllowedExtensions, ext) {
		errs = append(errs, fmt.Sprintf("file extension not supported: %s", ext))
	}
	if dangerousExtensions[ext] {
		errs = append(errs, "file type blocked for security reasons")
	}

	if hasSuspiciousFileName(name) {
		errs = append(errs, "file name contains invalid characters")
	}

	return len(errs) == 0, errs
}

func fileExtension(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx == -1 {
		return ""
	}
	return strings.ToLower(name[idx:])
}

func hasSuspiciousFileName(name string) bool {
	if strings.Contains(name, "../") || strings.Contains(name, `..\`) {
		return true
	}
	if strings.ContainsRune(name, 0) {
		return true
	}
	return reControlChars.MatchString(name)
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
