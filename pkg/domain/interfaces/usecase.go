package interfaces

import (
	"context"

	"github.com/m-mizutani/ghrelease/pkg/domain/model"
)

// PublishUseCase publishes a release and its assets for a tag push
type PublishUseCase interface {
	// Publish runs one create-or-update cycle followed by asset uploads.
	// A non-tag trigger reference yields RunStateSkipped and no error.
	Publish(ctx context.Context, cfg *model.Config) (*model.PublishResult, error)
}
