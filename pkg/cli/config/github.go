package config

import (
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/ghrelease/pkg/domain/types"
	githubinfra "github.com/m-mizutani/ghrelease/pkg/infra/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// GitHub holds GitHub API configuration
type GitHub struct {
	Token             string
	AppID             int64
	AppInstallationID int64
	AppPrivateKey     string
	APIURL            string
	UploadURL         string
	Timeout           time.Duration
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub token used to publish the release",
			Destination: &c.Token,
			Sources:     cli.EnvVars("GITHUB_TOKEN", "INPUT_TOKEN"),
		},
		&cli.Int64Flag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID, used instead of a token",
			Destination: &c.AppID,
			Sources:     cli.EnvVars("GHRELEASE_GITHUB_APP_ID"),
		},
		&cli.Int64Flag{
			Name:        "github-app-installation-id",
			Usage:       "GitHub App installation ID",
			Destination: &c.AppInstallationID,
			Sources:     cli.EnvVars("GHRELEASE_GITHUB_APP_INSTALLATION_ID"),
		},
		&cli.StringFlag{
			Name:        "github-app-private-key",
			Usage:       "GitHub App private key (PEM)",
			Destination: &c.AppPrivateKey,
			Sources:     cli.EnvVars("GHRELEASE_GITHUB_APP_PRIVATE_KEY"),
		},
		&cli.StringFlag{
			Name:        "github-api-url",
			Usage:       "GitHub REST API base URL",
			Value:       githubinfra.DefaultBaseURL,
			Destination: &c.APIURL,
			Sources:     cli.EnvVars("GITHUB_API_URL"),
		},
		&cli.StringFlag{
			Name:        "github-upload-url",
			Usage:       "GitHub asset upload base URL (derived from the API URL when empty)",
			Destination: &c.UploadURL,
			Sources:     cli.EnvVars("GHRELEASE_GITHUB_UPLOAD_URL"),
		},
		&cli.DurationFlag{
			Name:        "http-timeout",
			Usage:       "Timeout of the release create or update step, asset uploads are not bounded, 0 for none",
			Value:       time.Minute,
			Destination: &c.Timeout,
			Sources:     cli.EnvVars("GHRELEASE_HTTP_TIMEOUT"),
		},
	}
}

// NewClient builds the GitHub client. App credentials take precedence over
// a token when both are configured.
func (c *GitHub) NewClient() (*githubinfra.Client, error) {
	uploadURL, err := c.uploadURL()
	if err != nil {
		return nil, err
	}

	opts := []githubinfra.Option{
		githubinfra.WithBaseURL(c.APIURL),
		githubinfra.WithUploadURL(uploadURL),
		githubinfra.WithTimeout(c.Timeout),
	}

	switch {
	case c.AppID != 0:
		if c.AppInstallationID == 0 || c.AppPrivateKey == "" {
			return nil, goerr.New("GitHub App authentication requires installation ID and private key",
				goerr.V("app_id", c.AppID),
				goerr.T(types.ErrTagConfig),
			)
		}
		return githubinfra.NewAppClient(c.AppID, c.AppInstallationID, []byte(c.AppPrivateKey), opts...)

	case c.Token != "":
		return githubinfra.NewClient(c.Token, opts...)

	default:
		return nil, goerr.New("GitHub credential is not configured, set GITHUB_TOKEN or GitHub App flags",
			goerr.T(types.ErrTagConfig),
		)
	}
}

// uploadURL returns the configured upload URL, or derives the GitHub
// Enterprise Server form https://<host>/api/uploads/ from a custom API URL.
func (c *GitHub) uploadURL() (string, error) {
	if c.UploadURL != "" {
		return c.UploadURL, nil
	}

	apiURL := c.APIURL
	if apiURL == "" || strings.TrimSuffix(apiURL, "/") == strings.TrimSuffix(githubinfra.DefaultBaseURL, "/") {
		return githubinfra.DefaultUploadURL, nil
	}

	u, err := url.Parse(apiURL)
	if err != nil || u.Host == "" {
		return "", goerr.New("invalid GitHub API URL",
			goerr.V("url", apiURL),
			goerr.T(types.ErrTagConfig),
		)
	}
	return u.Scheme + "://" + u.Host + "/api/uploads/", nil
}
