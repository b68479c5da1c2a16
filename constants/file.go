package constants

import "strings"

// PDF is the only document format the extractor reads.
const PDF = "pdf"

// AllowedExtensions holds the file extensions picked up during discovery.
var AllowedExtensions = map[string]struct{}{
	PDF: {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
