package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/m-mizutani/ghrelease/pkg/domain/model"
	"github.com/m-mizutani/ghrelease/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Release holds the release and asset inputs of a publish run. Input
// environment variables follow the GitHub Actions INPUT_* convention.
type Release struct {
	Ref                  string
	Repository           string
	Name                 string
	Body                 string
	BodyPath             string
	Draft                bool
	Prerelease           bool
	TargetCommitish      string
	Files                []string
	FailOnUnmatchedFiles bool
	Manifest             string
	NamePolicy           string
}

// Flags returns CLI flags for release configuration
func (c *Release) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "ref",
			Usage:       "Git reference that triggered the run, e.g. refs/tags/v1.0.0",
			Required:    true,
			Destination: &c.Ref,
			Sources:     cli.EnvVars("GITHUB_REF"),
		},
		&cli.StringFlag{
			Name:        "repository",
			Usage:       "Target repository in owner/name form",
			Required:    true,
			Destination: &c.Repository,
			Sources:     cli.EnvVars("GITHUB_REPOSITORY", "INPUT_REPOSITORY"),
		},
		&cli.StringFlag{
			Name:        "name",
			Usage:       "Release display name",
			Destination: &c.Name,
			Sources:     cli.EnvVars("INPUT_NAME"),
		},
		&cli.StringFlag{
			Name:        "body",
			Usage:       "Release description text",
			Destination: &c.Body,
			Sources:     cli.EnvVars("INPUT_BODY"),
		},
		&cli.StringFlag{
			Name:        "body-path",
			Usage:       "File holding the release description, takes precedence over --body",
			Destination: &c.BodyPath,
			Sources:     cli.EnvVars("INPUT_BODY_PATH"),
		},
		&cli.BoolFlag{
			Name:        "draft",
			Usage:       "Mark the release as draft, left unchanged when not set [$INPUT_DRAFT]",
			Destination: &c.Draft,
		},
		&cli.BoolFlag{
			Name:        "prerelease",
			Usage:       "Mark the release as prerelease, left unchanged when not set [$INPUT_PRERELEASE]",
			Destination: &c.Prerelease,
		},
		&cli.StringFlag{
			Name:        "target-commitish",
			Usage:       "Commit or branch the tag is created from when it does not exist",
			Destination: &c.TargetCommitish,
			Sources:     cli.EnvVars("INPUT_TARGET_COMMITISH"),
		},
		&cli.StringSliceFlag{
			Name:        "files",
			Aliases:     []string{"f"},
			Usage:       "Glob patterns of assets to upload, comma or newline separated",
			Destination: &c.Files,
			Sources:     cli.EnvVars("INPUT_FILES"),
		},
		&cli.BoolFlag{
			Name:        "fail-on-unmatched-files",
			Usage:       "Fail when an asset pattern matches no file",
			Destination: &c.FailOnUnmatchedFiles,
			Sources:     cli.EnvVars("INPUT_FAIL_ON_UNMATCHED_FILES"),
		},
		&cli.StringFlag{
			Name:        "manifest",
			Usage:       "TOML file listing assets with explicit names and labels",
			Destination: &c.Manifest,
			Sources:     cli.EnvVars("GHRELEASE_MANIFEST"),
		},
		&cli.StringFlag{
			Name:        "name-policy",
			Usage:       "Release name when --name is empty: tag (use the tag name) or unset",
			Value:       string(model.NameFromTag),
			Destination: &c.NamePolicy,
			Sources:     cli.EnvVars("GHRELEASE_NAME_POLICY"),
		},
	}
}

// Build resolves the configuration record of a run. Draft and prerelease
// are only included when explicitly set on cmd, and empty strings are
// treated as unset.
func (c *Release) Build(cmd *cli.Command) (*model.Config, error) {
	cfg := &model.Config{
		Ref:                  c.Ref,
		Repository:           c.Repository,
		Name:                 optional(c.Name),
		Body:                 optional(c.Body),
		TargetCommitish:      optional(c.TargetCommitish),
		Files:                ParseFiles(c.Files),
		FailOnUnmatchedFiles: c.FailOnUnmatchedFiles,
	}

	if c.BodyPath != "" {
		body, err := os.ReadFile(c.BodyPath)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read release body file",
				goerr.V("path", c.BodyPath),
				goerr.T(types.ErrTagConfig),
			)
		}
		cfg.Body = optional(string(body))
	}

	draft, err := optionalBool(cmd, "draft", c.Draft, "INPUT_DRAFT")
	if err != nil {
		return nil, err
	}
	cfg.Draft = draft

	prerelease, err := optionalBool(cmd, "prerelease", c.Prerelease, "INPUT_PRERELEASE")
	if err != nil {
		return nil, err
	}
	cfg.Prerelease = prerelease

	if c.Manifest != "" {
		manifest, err := LoadManifest(c.Manifest)
		if err != nil {
			return nil, err
		}
		cfg.Assets = manifest.Entries()
	}

	return cfg, nil
}

// ParseFiles splits asset inputs on commas and newlines, dropping blanks
func ParseFiles(inputs []string) []string {
	var files []string
	for _, input := range inputs {
		for _, line := range strings.Split(input, "\n") {
			for _, f := range strings.Split(line, ",") {
				if f = strings.TrimSpace(f); f != "" {
					files = append(files, f)
				}
			}
		}
	}
	return files
}

// optionalBool returns the flag value when given on the command line, else
// the parsed env value. An absent or empty env value yields nil, as Actions
// passes undeclared inputs as empty strings.
func optionalBool(cmd *cli.Command, name string, value bool, env string) (*bool, error) {
	if cmd != nil && cmd.IsSet(name) {
		return &value, nil
	}

	raw := strings.TrimSpace(os.Getenv(env))
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid boolean input",
			goerr.V("env", env),
			goerr.V("value", raw),
			goerr.T(types.ErrTagConfig),
		)
	}
	return &v, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
