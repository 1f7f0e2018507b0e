package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/ghrelease/pkg/domain/interfaces"
	"github.com/m-mizutani/ghrelease/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type publishUseCase struct {
	syncer     interfaces.ReleaseSyncer
	uploader   interfaces.AssetUploader
	namePolicy model.NamePolicy
}

// Option is a functional option for the publish use case
type Option func(*publishUseCase)

// WithNamePolicy sets how an unset release name is filled in
func WithNamePolicy(policy model.NamePolicy) Option {
	return func(uc *publishUseCase) {
		uc.namePolicy = policy
	}
}

// NewPublish creates a new instance of PublishUseCase
func NewPublish(syncer interfaces.ReleaseSyncer, uploader interfaces.AssetUploader, opts ...Option) interfaces.PublishUseCase {
	uc := &publishUseCase{
		syncer:     syncer,
		uploader:   uploader,
		namePolicy: model.NameFromTag,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Publish synchronizes the release for cfg.Ref and uploads its assets one
// by one. Configuration problems, including bad asset patterns, are
// reported before any remote call. The first failed upload aborts the run
// and the partial result is returned along with the error.
func (uc *publishUseCase) Publish(ctx context.Context, cfg *model.Config) (*model.PublishResult, error) {
	logger := ctxlog.From(ctx)

	if !model.IsTag(cfg.Ref) {
		logger.Info("Trigger reference is not a tag, skipping release", "ref", cfg.Ref)
		return &model.PublishResult{State: model.RunStateSkipped}, nil
	}

	repo, err := model.ParseRepository(cfg.Repository)
	if err != nil {
		return nil, err
	}

	desc, err := model.NewReleaseDescriptor(cfg, uc.namePolicy)
	if err != nil {
		return nil, err
	}

	assets, err := resolveAssets(ctx, cfg)
	if err != nil {
		return nil, err
	}

	logger.Info("Synchronizing release",
		"repository", repo.String(),
		"tag", desc.TagName,
		"asset_count", len(assets),
	)

	handle, err := uc.syncer.SyncRelease(ctx, repo, desc)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to synchronize release",
			goerr.V("repository", repo.String()),
			goerr.V("tag", desc.TagName),
		)
	}

	result := &model.PublishResult{
		State:   model.RunStateReleased,
		Release: handle,
	}

	logger.Info("Release synchronized",
		"release_id", handle.ID,
		"url", handle.URL,
		"created", handle.Created,
	)

	for i, asset := range assets {
		logger.Info("Uploading asset",
			"name", asset.Name,
			"path", asset.Path,
			"content_type", asset.ContentType,
			"index", i+1,
			"total", len(assets),
		)

		uploaded, err := uc.uploader.UploadAsset(ctx, repo, handle.ID, asset)
		if err != nil {
			logger.Error("Failed to upload asset, aborting remaining uploads",
				"error", err,
				"name", asset.Name,
				"remaining", len(assets)-i-1,
			)
			return result, goerr.Wrap(err, "failed to upload asset",
				goerr.V("name", asset.Name),
				goerr.V("path", asset.Path),
				goerr.V("release_id", handle.ID),
			)
		}

		logger.Debug("Uploaded asset",
			"name", uploaded.Name,
			"id", uploaded.ID,
			"size", uploaded.Size,
			"state", uploaded.State,
		)
		result.Uploads = append(result.Uploads, uploaded)
	}

	result.State = model.RunStateDone
	logger.Info("Release ready", "url", handle.URL, "uploaded", len(result.Uploads))

	return result, nil
}
