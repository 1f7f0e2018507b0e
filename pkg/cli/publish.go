package cli

import (
	"context"
	"os"
	"sync"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/ghrelease/pkg/cli/config"
	"github.com/m-mizutani/ghrelease/pkg/domain/model"
	githubinfra "github.com/m-mizutani/ghrelease/pkg/infra/github"
	"github.com/m-mizutani/ghrelease/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdPublish() *cli.Command {
	var (
		githubCfg  config.GitHub
		releaseCfg config.Release
	)

	flags := append(githubCfg.Flags(), releaseCfg.Flags()...)

	return &cli.Command{
		Name:    "publish",
		Aliases: []string{"p"},
		Usage:   "Create or update the release of the triggering tag and upload assets",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			cfg, err := releaseCfg.Build(c)
			if err != nil {
				return goerr.Wrap(err, "failed to build release configuration")
			}

			policy, err := model.ParseNamePolicy(releaseCfg.NamePolicy)
			if err != nil {
				return err
			}

			logger.Debug("Starting publish",
				"ref", cfg.Ref,
				"repository", cfg.Repository,
				"files", cfg.Files,
				"name_policy", policy,
			)

			client := &lazyClient{build: githubCfg.NewClient}
			publishUC := usecase.NewPublish(client, client, usecase.WithNamePolicy(policy))

			result, err := publishUC.Publish(ctx, cfg)
			if result != nil {
				printResult(os.Stdout, result)
			}
			if err != nil {
				return goerr.Wrap(err, "failed to publish release")
			}

			return nil
		},
	}
}

// lazyClient builds the GitHub client on first use, so a skipped run
// does not require credentials
type lazyClient struct {
	build func() (*githubinfra.Client, error)

	once   sync.Once
	client *githubinfra.Client
	err    error
}

func (x *lazyClient) get() (*githubinfra.Client, error) {
	x.once.Do(func() {
		x.client, x.err = x.build()
	})
	return x.client, x.err
}

func (x *lazyClient) SyncRelease(ctx context.Context, repo model.Repository, desc model.ReleaseDescriptor) (*model.ReleaseHandle, error) {
	client, err := x.get()
	if err != nil {
		return nil, err
	}
	return client.SyncRelease(ctx, repo, desc)
}

func (x *lazyClient) UploadAsset(ctx context.Context, repo model.Repository, releaseID int64, asset *model.AssetSpec) (*model.UploadResult, error) {
	client, err := x.get()
	if err != nil {
		return nil, err
	}
	return client.UploadAsset(ctx, repo, releaseID, asset)
}
