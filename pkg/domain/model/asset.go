package model

import (
	"path/filepath"

	"github.com/m-mizutani/ghrelease/pkg/utils/mimetype"
)

// AssetEntry is an explicitly named asset supplied by configuration
type AssetEntry struct {
	Path  string
	Name  string
	Label string
}

// AssetSpec is one file to upload
type AssetSpec struct {
	Path        string // Local file path
	ContentType string // MIME type declared on upload
	Name        string // Display name on the release
	Label       string // Optional short description
}

// NewAssetSpec builds an AssetSpec for path named after its base name
func NewAssetSpec(path string) *AssetSpec {
	return &AssetSpec{
		Path:        path,
		ContentType: mimetype.FromPath(path),
		Name:        filepath.Base(path),
	}
}

// UploadResult describes an asset accepted by the hosting API
type UploadResult struct {
	ID          int64
	Name        string
	Size        int
	ContentType string
	State       string
	DownloadURL string
}
