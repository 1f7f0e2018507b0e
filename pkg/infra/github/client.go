package github

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/ghrelease/pkg/domain/model"
	"github.com/m-mizutani/ghrelease/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

const (
	DefaultBaseURL   = "https://api.github.com/"
	DefaultUploadURL = "https://uploads.github.com/"

	listPageSize = 100
)

// config holds internal client configuration
type config struct {
	baseURL   string
	uploadURL string
	timeout   time.Duration
	transport http.RoundTripper
}

// Option is a functional option for Client configuration
type Option func(*config)

// WithBaseURL sets the REST API base URL, e.g. for GitHub Enterprise Server
func WithBaseURL(u string) Option {
	return func(c *config) {
		c.baseURL = u
	}
}

// WithUploadURL sets the base URL of the asset upload API
func WithUploadURL(u string) Option {
	return func(c *config) {
		c.uploadURL = u
	}
}

// WithTimeout bounds a release synchronization: the lookup, draft listing
// and create or update together. Asset uploads are not bounded as their
// duration grows with the file size. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithTransport replaces the underlying HTTP transport
func WithTransport(rt http.RoundTripper) Option {
	return func(c *config) {
		c.transport = rt
	}
}

// Client talks to the GitHub releases API. It implements both
// interfaces.ReleaseSyncer and interfaces.AssetUploader.
type Client struct {
	githubClient *github.Client
	timeout      time.Duration
}

// NewClient creates a GitHub client authenticated with a token
func NewClient(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, goerr.New("GitHub token is empty", goerr.T(types.ErrTagConfig))
	}

	cfg := newConfig(opts)
	return newClient(cfg, cfg.transport, token)
}

// NewAppClient creates a GitHub client authenticated as a GitHub App installation
func NewAppClient(appID, installationID int64, privateKey []byte, opts ...Option) (*Client, error) {
	cfg := newConfig(opts)

	itr, err := ghinstallation.New(cfg.transport, appID, installationID, privateKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub App transport",
			goerr.V("app_id", appID),
			goerr.V("installation_id", installationID),
			goerr.T(types.ErrTagConfig),
		)
	}
	// installation tokens are minted by the same API host
	itr.BaseURL = strings.TrimSuffix(cfg.baseURL, "/")

	return newClient(cfg, itr, "")
}

func newConfig(opts []Option) *config {
	cfg := &config{
		baseURL:   DefaultBaseURL,
		uploadURL: DefaultUploadURL,
		transport: http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func newClient(cfg *config, transport http.RoundTripper, token string) (*Client, error) {
	githubClient := github.NewClient(&http.Client{Transport: transport})
	if token != "" {
		githubClient = githubClient.WithAuthToken(token)
	}

	baseURL, err := parseBaseURL(cfg.baseURL)
	if err != nil {
		return nil, err
	}
	uploadURL, err := parseBaseURL(cfg.uploadURL)
	if err != nil {
		return nil, err
	}
	githubClient.BaseURL = baseURL
	githubClient.UploadURL = uploadURL

	return &Client{githubClient: githubClient, timeout: cfg.timeout}, nil
}

// parseBaseURL requires a trailing slash as go-github resolves paths relative to it
func parseBaseURL(s string) (*url.URL, error) {
	if !strings.HasSuffix(s, "/") {
		s += "/"
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid GitHub API URL",
			goerr.V("url", s),
			goerr.T(types.ErrTagConfig),
		)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, goerr.New("GitHub API URL must be absolute",
			goerr.V("url", s),
			goerr.T(types.ErrTagConfig),
		)
	}
	return u, nil
}

// SyncRelease looks up the release for desc.TagName and updates it, or
// creates it when the lookup reports not found. The lookup and the write
// are separate requests, so two concurrent runs for one tag may race.
func (c *Client) SyncRelease(ctx context.Context, repo model.Repository, desc model.ReleaseDescriptor) (*model.ReleaseHandle, error) {
	logger := ctxlog.From(ctx)

	ctx, cancel := c.apiContext(ctx)
	defer cancel()

	existing, resp, err := c.githubClient.Repositories.GetReleaseByTag(ctx, repo.Owner, repo.Name, desc.TagName)
	if err != nil && !isNotFound(resp) {
		return nil, classify(err, "failed to get release by tag",
			goerr.V("repository", repo.String()),
			goerr.V("tag", desc.TagName),
		)
	}

	// drafts are hidden from the lookup by tag
	if existing == nil && desc.Draft != nil && *desc.Draft {
		existing, err = c.findDraftByTag(ctx, repo, desc.TagName)
		if err != nil {
			return nil, err
		}
	}

	payload := toRepositoryRelease(desc)

	if existing == nil {
		logger.Info("Creating new release",
			"repository", repo.String(),
			"tag", desc.TagName,
		)

		created, _, err := c.githubClient.Repositories.CreateRelease(ctx, repo.Owner, repo.Name, payload)
		if err != nil {
			return nil, classify(err, "failed to create release",
				goerr.V("repository", repo.String()),
				goerr.V("tag", desc.TagName),
			)
		}
		return toReleaseHandle(created, true)
	}

	logger.Info("Updating existing release",
		"repository", repo.String(),
		"tag", desc.TagName,
		"release_id", existing.GetID(),
	)

	updated, _, err := c.githubClient.Repositories.EditRelease(ctx, repo.Owner, repo.Name, existing.GetID(), payload)
	if err != nil {
		return nil, classify(err, "failed to update release",
			goerr.V("repository", repo.String()),
			goerr.V("tag", desc.TagName),
			goerr.V("release_id", existing.GetID()),
		)
	}
	return toReleaseHandle(updated, false)
}

// apiContext applies the configured timeout to a release synchronization
func (c *Client) apiContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// findDraftByTag pages through all releases of repo looking for a draft
// carrying tag. It returns nil when none matches.
func (c *Client) findDraftByTag(ctx context.Context, repo model.Repository, tag string) (*github.RepositoryRelease, error) {
	logger := ctxlog.From(ctx)
	opts := &github.ListOptions{PerPage: listPageSize}

	for {
		releases, resp, err := c.githubClient.Repositories.ListReleases(ctx, repo.Owner, repo.Name, opts)
		if err != nil {
			return nil, classify(err, "failed to list releases",
				goerr.V("repository", repo.String()),
				goerr.V("tag", tag),
				goerr.V("page", opts.Page),
			)
		}

		for _, release := range releases {
			if release.GetDraft() && release.GetTagName() == tag {
				logger.Debug("Found draft release by listing",
					"release_id", release.GetID(),
					"tag", tag,
				)
				return release, nil
			}
		}

		if resp == nil || resp.NextPage == 0 {
			return nil, nil
		}
		opts.Page = resp.NextPage
	}
}

// UploadAsset streams the asset file as the request body. The file is
// closed when the request completes, whatever the outcome.
func (c *Client) UploadAsset(ctx context.Context, repo model.Repository, releaseID int64, asset *model.AssetSpec) (*model.UploadResult, error) {
	file, err := os.Open(asset.Path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open asset file",
			goerr.V("path", asset.Path),
			goerr.T(types.ErrTagConfig),
		)
	}
	defer file.Close()

	opts := &github.UploadOptions{
		Name:      asset.Name,
		Label:     asset.Label,
		MediaType: asset.ContentType,
	}

	uploaded, _, err := c.githubClient.Repositories.UploadReleaseAsset(ctx, repo.Owner, repo.Name, releaseID, opts, file)
	if err != nil {
		return nil, classify(err, "failed to upload release asset",
			goerr.V("repository", repo.String()),
			goerr.V("release_id", releaseID),
			goerr.V("name", asset.Name),
			goerr.V("path", asset.Path),
		)
	}

	return &model.UploadResult{
		ID:          uploaded.GetID(),
		Name:        uploaded.GetName(),
		Size:        uploaded.GetSize(),
		ContentType: uploaded.GetContentType(),
		State:       uploaded.GetState(),
		DownloadURL: uploaded.GetBrowserDownloadURL(),
	}, nil
}

func toRepositoryRelease(desc model.ReleaseDescriptor) *github.RepositoryRelease {
	return &github.RepositoryRelease{
		TagName:         github.Ptr(desc.TagName),
		Name:            desc.Name,
		Body:            desc.Body,
		Draft:           desc.Draft,
		Prerelease:      desc.Prerelease,
		TargetCommitish: desc.TargetCommitish,
	}
}

func toReleaseHandle(release *github.RepositoryRelease, created bool) (*model.ReleaseHandle, error) {
	if release == nil || release.ID == nil {
		return nil, goerr.New("release response has no id", goerr.T(types.ErrTagTransport))
	}

	return &model.ReleaseHandle{
		ID:        release.GetID(),
		URL:       release.GetHTMLURL(),
		UploadURL: release.GetUploadURL(),
		Created:   created,
	}, nil
}
