package interfaces

import (
	"context"

	"github.com/m-mizutani/ghrelease/pkg/domain/model"
)

// ReleaseSyncer ensures a remote release matches a descriptor
type ReleaseSyncer interface {
	// SyncRelease creates the release for desc.TagName, or updates it in
	// place when one already exists, and returns its identifier and URL.
	SyncRelease(ctx context.Context, repo model.Repository, desc model.ReleaseDescriptor) (*model.ReleaseHandle, error)
}

// AssetUploader attaches files to an existing release
type AssetUploader interface {
	// UploadAsset streams the file referenced by asset to release releaseID
	UploadAsset(ctx context.Context, repo model.Repository, releaseID int64, asset *model.AssetSpec) (*model.UploadResult, error)
}
