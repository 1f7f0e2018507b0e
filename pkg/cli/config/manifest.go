package config

import (
	"os"
	"path/filepath"

	"github.com/m-mizutani/ghrelease/pkg/domain/model"
	"github.com/m-mizutani/ghrelease/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// Manifest is a TOML file naming release assets explicitly:
//
//	[[assets]]
//	path  = "dist/app_linux_amd64.tar.gz"
//	name  = "app-linux-amd64.tar.gz"
//	label = "Linux (amd64)"
//
// Relative paths are resolved from the manifest's directory.
type Manifest struct {
	Assets []ManifestAsset `toml:"assets"`

	dir string
}

// ManifestAsset is one [[assets]] table
type ManifestAsset struct {
	Path  string `toml:"path"`
	Name  string `toml:"name"`
	Label string `toml:"label"`
}

// LoadManifest reads and validates a manifest file
func LoadManifest(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open asset manifest",
			goerr.V("path", path),
			goerr.T(types.ErrTagConfig),
		)
	}
	defer f.Close()

	var m Manifest
	if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(&m); err != nil {
		return nil, goerr.Wrap(err, "failed to parse asset manifest",
			goerr.V("path", path),
			goerr.T(types.ErrTagConfig),
		)
	}

	for i, a := range m.Assets {
		if a.Path == "" {
			return nil, goerr.New("asset manifest entry has no path",
				goerr.V("path", path),
				goerr.V("index", i),
				goerr.T(types.ErrTagConfig),
			)
		}
	}

	m.dir = filepath.Dir(path)
	return &m, nil
}

// Entries converts the manifest into asset entries
func (m *Manifest) Entries() []model.AssetEntry {
	entries := make([]model.AssetEntry, 0, len(m.Assets))
	for _, a := range m.Assets {
		path := a.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(m.dir, path)
		}
		entries = append(entries, model.AssetEntry{
			Path:  path,
			Name:  a.Name,
			Label: a.Label,
		})
	}
	return entries
}
