package usecase_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/ghrelease/pkg/domain/model"
	"github.com/m-mizutani/ghrelease/pkg/domain/types"
	"github.com/m-mizutani/ghrelease/pkg/usecase"
)

// MockReleaseSyncer is a mock implementation of ReleaseSyncer
type MockReleaseSyncer struct {
	syncReleaseFunc func(ctx context.Context, repo model.Repository, desc model.ReleaseDescriptor) (*model.ReleaseHandle, error)
	calls           []model.ReleaseDescriptor
}

func (m *MockReleaseSyncer) SyncRelease(ctx context.Context, repo model.Repository, desc model.ReleaseDescriptor) (*model.ReleaseHandle, error) {
	m.calls = append(m.calls, desc)
	if m.syncReleaseFunc != nil {
		return m.syncReleaseFunc(ctx, repo, desc)
	}
	return &model.ReleaseHandle{ID: 42, URL: "https://github.com/octocat/hello/releases/tag/" + desc.TagName}, nil
}

// MockAssetUploader is a mock implementation of AssetUploader
type MockAssetUploader struct {
	uploadAssetFunc func(ctx context.Context, repo model.Repository, releaseID int64, asset *model.AssetSpec) (*model.UploadResult, error)
	calls           []*model.AssetSpec
	releaseIDs      []int64
}

func (m *MockAssetUploader) UploadAsset(ctx context.Context, repo model.Repository, releaseID int64, asset *model.AssetSpec) (*model.UploadResult, error) {
	m.calls = append(m.calls, asset)
	m.releaseIDs = append(m.releaseIDs, releaseID)
	if m.uploadAssetFunc != nil {
		return m.uploadAssetFunc(ctx, repo, releaseID, asset)
	}
	return &model.UploadResult{ID: int64(len(m.calls)), Name: asset.Name, State: "uploaded"}, nil
}

func ptr[T any](v T) *T {
	return &v
}

// writeFiles creates files under a temporary directory and returns it
func writeFiles(t *testing.T, names ...string) string {
	dir := t.TempDir()
	for _, name := range names {
		path := filepath.Join(dir, name)
		gt.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		gt.NoError(t, os.WriteFile(path, []byte(name), 0644))
	}
	return dir
}

func TestPublish_SkipsNonTagRefs(t *testing.T) {
	for _, ref := range []string{"refs/heads/main", "refs/heads/refs/tags/x", "refs/pull/3/merge", ""} {
		t.Run(ref, func(t *testing.T) {
			syncer := &MockReleaseSyncer{}
			uploader := &MockAssetUploader{}
			uc := usecase.NewPublish(syncer, uploader)

			result, err := uc.Publish(context.Background(), &model.Config{
				Ref:        ref,
				Repository: "octocat/hello",
				Files:      []string{"["},
			})
			gt.NoError(t, err)
			gt.Value(t, result.State).Equal(model.RunStateSkipped)
			gt.Value(t, result.Release).Nil()
			gt.A(t, syncer.calls).Length(0)
			gt.A(t, uploader.calls).Length(0)
		})
	}
}

func TestPublish_NoAssets(t *testing.T) {
	syncer := &MockReleaseSyncer{}
	uploader := &MockAssetUploader{}
	uc := usecase.NewPublish(syncer, uploader)

	result, err := uc.Publish(context.Background(), &model.Config{
		Ref:        "refs/tags/v1.0.0",
		Repository: "octocat/hello",
	})
	gt.NoError(t, err)
	gt.Value(t, result.State).Equal(model.RunStateDone)
	gt.Value(t, result.Release.URL).Equal("https://github.com/octocat/hello/releases/tag/v1.0.0")
	gt.A(t, result.Uploads).Length(0)
	gt.A(t, syncer.calls).Length(1)
	gt.A(t, uploader.calls).Length(0)
}

func TestPublish_DefaultNamePolicyUsesTag(t *testing.T) {
	syncer := &MockReleaseSyncer{}
	uc := usecase.NewPublish(syncer, &MockAssetUploader{})

	_, err := uc.Publish(context.Background(), &model.Config{
		Ref:        "refs/tags/v1.0.0",
		Repository: "octocat/hello",
	})
	gt.NoError(t, err)
	gt.A(t, syncer.calls).Length(1)
	gt.Value(t, syncer.calls[0].TagName).Equal("v1.0.0")
	gt.Value(t, *syncer.calls[0].Name).Equal("v1.0.0")
	gt.Value(t, syncer.calls[0].Draft).Nil()
	gt.Value(t, syncer.calls[0].Body).Nil()
}

func TestPublish_NameUnsetPolicyLeavesNameAbsent(t *testing.T) {
	syncer := &MockReleaseSyncer{}
	uc := usecase.NewPublish(syncer, &MockAssetUploader{}, usecase.WithNamePolicy(model.NameUnset))

	_, err := uc.Publish(context.Background(), &model.Config{
		Ref:        "refs/tags/v1.0.0",
		Repository: "octocat/hello",
	})
	gt.NoError(t, err)
	gt.A(t, syncer.calls).Length(1)
	gt.Value(t, syncer.calls[0].Name).Nil()
}

func TestPublish_UploadsInResolverOrder(t *testing.T) {
	dir := writeFiles(t, "dist/app_darwin.tar.gz", "dist/app_linux.tar.gz", "dist/checksums.txt", "dist/sub/skip.me")
	syncer := &MockReleaseSyncer{}
	uploader := &MockAssetUploader{}
	uc := usecase.NewPublish(syncer, uploader)

	result, err := uc.Publish(context.Background(), &model.Config{
		Ref:        "refs/tags/v1.2.3",
		Repository: "octocat/hello",
		Name:       ptr("Release 1.2.3"),
		Draft:      ptr(true),
		Files: []string{
			filepath.Join(dir, "dist", "*.tar.gz"),
			filepath.Join(dir, "dist", "*"),
		},
	})
	gt.NoError(t, err)
	gt.Value(t, result.State).Equal(model.RunStateDone)
	gt.A(t, result.Uploads).Length(3)

	gt.A(t, uploader.calls).Length(3)
	gt.Value(t, uploader.calls[0].Name).Equal("app_darwin.tar.gz")
	gt.Value(t, uploader.calls[0].ContentType).Equal("application/gzip")
	gt.Value(t, uploader.calls[1].Name).Equal("app_linux.tar.gz")
	gt.Value(t, uploader.calls[2].Name).Equal("checksums.txt")
	gt.Value(t, uploader.calls[2].ContentType).Equal("text/plain")
	for _, id := range uploader.releaseIDs {
		gt.Value(t, id).Equal(int64(42))
	}

	gt.Value(t, *syncer.calls[0].Name).Equal("Release 1.2.3")
	gt.Value(t, *syncer.calls[0].Draft).Equal(true)
}

func TestPublish_FailFastOnUploadError(t *testing.T) {
	dir := writeFiles(t, "a.bin", "b.bin", "c.bin")
	uploader := &MockAssetUploader{
		uploadAssetFunc: func(ctx context.Context, repo model.Repository, releaseID int64, asset *model.AssetSpec) (*model.UploadResult, error) {
			if asset.Name == "b.bin" {
				return nil, goerr.New("connection reset", goerr.T(types.ErrTagTransport))
			}
			return &model.UploadResult{Name: asset.Name}, nil
		},
	}
	uc := usecase.NewPublish(&MockReleaseSyncer{}, uploader)

	result, err := uc.Publish(context.Background(), &model.Config{
		Ref:        "refs/tags/v1.0.0",
		Repository: "octocat/hello",
		Files:      []string{filepath.Join(dir, "*.bin")},
	})
	gt.Error(t, err)
	gt.Value(t, goerr.HasTag(err, types.ErrTagTransport)).Equal(true)

	// c.bin is never attempted
	gt.A(t, uploader.calls).Length(2)
	gt.Value(t, uploader.calls[1].Name).Equal("b.bin")

	gt.Value(t, result).NotNil()
	gt.Value(t, result.State).Equal(model.RunStateReleased)
	gt.A(t, result.Uploads).Length(1)
	gt.Value(t, result.Uploads[0].Name).Equal("a.bin")
}

func TestPublish_ConflictIsFatal(t *testing.T) {
	dir := writeFiles(t, "a.bin", "b.bin")
	uploader := &MockAssetUploader{
		uploadAssetFunc: func(ctx context.Context, repo model.Repository, releaseID int64, asset *model.AssetSpec) (*model.UploadResult, error) {
			return nil, goerr.New("already exists", goerr.T(types.ErrTagConflict))
		},
	}
	uc := usecase.NewPublish(&MockReleaseSyncer{}, uploader)

	_, err := uc.Publish(context.Background(), &model.Config{
		Ref:        "refs/tags/v1.0.0",
		Repository: "octocat/hello",
		Files:      []string{filepath.Join(dir, "*")},
	})
	gt.Error(t, err)
	gt.Value(t, goerr.HasTag(err, types.ErrTagConflict)).Equal(true)
	gt.A(t, uploader.calls).Length(1)
}

func TestPublish_SyncErrorAborts(t *testing.T) {
	dir := writeFiles(t, "a.bin")
	syncer := &MockReleaseSyncer{
		syncReleaseFunc: func(ctx context.Context, repo model.Repository, desc model.ReleaseDescriptor) (*model.ReleaseHandle, error) {
			return nil, goerr.New("bad credentials", goerr.T(types.ErrTagAuth))
		},
	}
	uploader := &MockAssetUploader{}
	uc := usecase.NewPublish(syncer, uploader)

	result, err := uc.Publish(context.Background(), &model.Config{
		Ref:        "refs/tags/v1.0.0",
		Repository: "octocat/hello",
		Files:      []string{filepath.Join(dir, "*")},
	})
	gt.Error(t, err)
	gt.Value(t, result).Nil()
	gt.Value(t, goerr.HasTag(err, types.ErrTagAuth)).Equal(true)
	gt.A(t, uploader.calls).Length(0)
}

func TestPublish_ConfigErrorsBeforeNetwork(t *testing.T) {
	dir := writeFiles(t, "a.bin", "nested/a.bin")

	tests := []struct {
		name string
		cfg  *model.Config
	}{
		{
			name: "invalid pattern",
			cfg: &model.Config{
				Ref:        "refs/tags/v1.0.0",
				Repository: "octocat/hello",
				Files:      []string{filepath.Join(dir, "*"), "dist/[a-"},
			},
		},
		{
			name: "malformed repository",
			cfg: &model.Config{
				Ref:        "refs/tags/v1.0.0",
				Repository: "octocat",
			},
		},
		{
			name: "empty tag",
			cfg: &model.Config{
				Ref:        "refs/tags/",
				Repository: "octocat/hello",
			},
		},
		{
			name: "unmatched pattern with fail on unmatched",
			cfg: &model.Config{
				Ref:                  "refs/tags/v1.0.0",
				Repository:           "octocat/hello",
				Files:                []string{filepath.Join(dir, "*.none")},
				FailOnUnmatchedFiles: true,
			},
		},
		{
			name: "missing manifest entry",
			cfg: &model.Config{
				Ref:        "refs/tags/v1.0.0",
				Repository: "octocat/hello",
				Assets:     []model.AssetEntry{{Path: filepath.Join(dir, "missing.bin")}},
			},
		},
		{
			name: "duplicate asset names",
			cfg: &model.Config{
				Ref:        "refs/tags/v1.0.0",
				Repository: "octocat/hello",
				Files:      []string{filepath.Join(dir, "**", "a.bin")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			syncer := &MockReleaseSyncer{}
			uploader := &MockAssetUploader{}
			uc := usecase.NewPublish(syncer, uploader)

			result, err := uc.Publish(context.Background(), tt.cfg)
			gt.Error(t, err)
			gt.Value(t, result).Nil()
			gt.Value(t, goerr.HasTag(err, types.ErrTagConfig)).Equal(true)
			gt.A(t, syncer.calls).Length(0)
			gt.A(t, uploader.calls).Length(0)
		})
	}
}

func TestPublish_UnmatchedPatternIsNotFatalByDefault(t *testing.T) {
	dir := writeFiles(t, "a.bin")
	uploader := &MockAssetUploader{}
	uc := usecase.NewPublish(&MockReleaseSyncer{}, uploader)

	result, err := uc.Publish(context.Background(), &model.Config{
		Ref:        "refs/tags/v1.0.0",
		Repository: "octocat/hello",
		Files:      []string{filepath.Join(dir, "*.bin"), filepath.Join(dir, "*.none")},
	})
	gt.NoError(t, err)
	gt.Value(t, result.State).Equal(model.RunStateDone)
	gt.A(t, uploader.calls).Length(1)
}

func TestPublish_AssetEntriesOverrideNames(t *testing.T) {
	dir := writeFiles(t, "a.bin", "b.bin", "extra/notes.md")
	uploader := &MockAssetUploader{}
	uc := usecase.NewPublish(&MockReleaseSyncer{}, uploader)

	_, err := uc.Publish(context.Background(), &model.Config{
		Ref:        "refs/tags/v1.0.0",
		Repository: "octocat/hello",
		Files:      []string{filepath.Join(dir, "*.bin")},
		Assets: []model.AssetEntry{
			{Path: filepath.Join(dir, "b.bin"), Name: "tool-linux-amd64", Label: "Linux (amd64)"},
			{Path: filepath.Join(dir, "extra", "notes.md")},
		},
	})
	gt.NoError(t, err)
	gt.A(t, uploader.calls).Length(3)
	gt.Value(t, uploader.calls[0].Name).Equal("a.bin")
	gt.Value(t, uploader.calls[1].Name).Equal("tool-linux-amd64")
	gt.Value(t, uploader.calls[1].Label).Equal("Linux (amd64)")
	gt.Value(t, uploader.calls[1].ContentType).Equal("application/octet-stream")
	gt.Value(t, uploader.calls[2].Name).Equal("notes.md")
	gt.Value(t, uploader.calls[2].ContentType).Equal("text/markdown")
}

func TestPublish_AbsoluteEntryMergesWithRelativeMatch(t *testing.T) {
	dir := writeFiles(t, "a.bin")
	t.Chdir(dir)

	uploader := &MockAssetUploader{}
	uc := usecase.NewPublish(&MockReleaseSyncer{}, uploader)

	_, err := uc.Publish(context.Background(), &model.Config{
		Ref:        "refs/tags/v1.0.0",
		Repository: "octocat/hello",
		Files:      []string{"*.bin"},
		Assets: []model.AssetEntry{
			{Path: filepath.Join(dir, "a.bin"), Name: "tool", Label: "Tool"},
		},
	})
	gt.NoError(t, err)
	gt.A(t, uploader.calls).Length(1)
	gt.Value(t, uploader.calls[0].Name).Equal("tool")
	gt.Value(t, uploader.calls[0].Label).Equal("Tool")
}
