package usecase

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/ghrelease/pkg/domain/model"
	"github.com/m-mizutani/ghrelease/pkg/domain/types"
	"github.com/m-mizutani/ghrelease/pkg/utils/pattern"
	"github.com/m-mizutani/goerr/v2"
)

// resolveAssets builds the upload list from glob patterns followed by
// explicitly configured entries. A file listed twice is uploaded once; an
// explicit entry overrides the name and label of a pattern match.
func resolveAssets(ctx context.Context, cfg *model.Config) ([]*model.AssetSpec, error) {
	logger := ctxlog.From(ctx)

	resolved, err := pattern.Resolve(cfg.Files)
	if err != nil {
		return nil, err
	}

	if len(resolved.Unmatched) > 0 {
		if cfg.FailOnUnmatchedFiles {
			return nil, unmatchedError(resolved.Unmatched)
		}
		logger.Warn("Some asset patterns matched no files", "patterns", resolved.Unmatched)
	}

	var assets []*model.AssetSpec
	byPath := make(map[string]*model.AssetSpec)

	for _, path := range resolved.Paths {
		spec := model.NewAssetSpec(path)
		byPath[pattern.Key(path)] = spec
		assets = append(assets, spec)
	}

	for _, entry := range cfg.Assets {
		path := filepath.Clean(entry.Path)
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			return nil, goerr.New("asset entry is not a regular file",
				goerr.V("path", entry.Path),
				goerr.T(types.ErrTagConfig),
			)
		}

		spec, ok := byPath[pattern.Key(path)]
		if !ok {
			spec = model.NewAssetSpec(path)
			byPath[pattern.Key(path)] = spec
			assets = append(assets, spec)
		}
		if entry.Name != "" {
			spec.Name = entry.Name
		}
		if entry.Label != "" {
			spec.Label = entry.Label
		}
	}

	names := make(map[string]string)
	for _, spec := range assets {
		if other, ok := names[spec.Name]; ok {
			return nil, goerr.New("two assets share the same name",
				goerr.V("name", spec.Name),
				goerr.V("path", spec.Path),
				goerr.V("other_path", other),
				goerr.T(types.ErrTagConfig),
			)
		}
		names[spec.Name] = spec.Path
	}

	return assets, nil
}

// unmatchedError is returned when FailOnUnmatchedFiles is set
func unmatchedError(patterns []string) error {
	return goerr.New("asset patterns matched no files",
		goerr.V("patterns", patterns),
		goerr.T(types.ErrTagConfig),
	)
}
