// Package mimetype infers the content type of release assets from their
// file name.
package mimetype

import (
	"mime"
	"path/filepath"
	"strings"
)

// Default is returned for unknown or missing extensions
const Default = "application/octet-stream"

// builtin covers artifact types whose system mime.types entries vary
// between hosts. It is consulted before the stdlib table.
var builtin = map[string]string{
	".gz":     "application/gzip",
	".tgz":    "application/gzip",
	".zip":    "application/zip",
	".tar":    "application/x-tar",
	".xz":     "application/x-xz",
	".bz2":    "application/x-bzip2",
	".zst":    "application/zstd",
	".7z":     "application/x-7z-compressed",
	".deb":    "application/vnd.debian.binary-package",
	".rpm":    "application/x-rpm",
	".apk":    "application/vnd.android.package-archive",
	".dmg":    "application/x-apple-diskimage",
	".pkg":    "application/octet-stream",
	".exe":    "application/vnd.microsoft.portable-executable",
	".msi":    "application/x-msi",
	".jar":    "application/java-archive",
	".whl":    "application/zip",
	".txt":    "text/plain",
	".md":     "text/markdown",
	".sha256": "text/plain",
	".sha512": "text/plain",
	".sig":    "application/pgp-signature",
	".asc":    "application/pgp-signature",
	".pem":    "application/x-pem-file",
	".json":   "application/json",
	".yaml":   "application/yaml",
	".yml":    "application/yaml",
	".sbom":   "application/json",
}

// FromPath returns the MIME type for path. It never returns an empty string.
func FromPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return Default
	}

	if t, ok := builtin[ext]; ok {
		return t
	}

	t := mime.TypeByExtension(ext)
	if t == "" {
		return Default
	}

	// drop parameters such as "; charset=utf-8"
	mediaType, _, err := mime.ParseMediaType(t)
	if err != nil || mediaType == "" {
		return Default
	}
	return mediaType
}
