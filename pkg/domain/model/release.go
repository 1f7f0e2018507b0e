package model

import (
	"github.com/m-mizutani/ghrelease/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// NamePolicy decides the display name of a release when none is configured
type NamePolicy string

const (
	// NameFromTag uses the tag name as display name. This is the default.
	NameFromTag NamePolicy = "tag"
	// NameUnset leaves the display name absent, so an existing release
	// keeps its name and a new one gets the hosting API's default.
	NameUnset NamePolicy = "unset"
)

// ParseNamePolicy converts a configuration value into a NamePolicy.
// An empty value selects NameFromTag.
func ParseNamePolicy(s string) (NamePolicy, error) {
	switch NamePolicy(s) {
	case "", NameFromTag:
		return NameFromTag, nil
	case NameUnset:
		return NameUnset, nil
	default:
		return "", goerr.New("unknown release name policy",
			goerr.V("policy", s),
			goerr.T(types.ErrTagConfig),
		)
	}
}

// ReleaseDescriptor is the desired state of a release. Nil fields mean
// "leave unchanged" on update and are not sent to the hosting API.
type ReleaseDescriptor struct {
	TagName         string
	Name            *string
	Body            *string
	Draft           *bool
	Prerelease      *bool
	TargetCommitish *string
}

// NewReleaseDescriptor builds the descriptor for cfg. The tag name is taken
// from the trigger reference with the tag namespace removed.
func NewReleaseDescriptor(cfg *Config, policy NamePolicy) (ReleaseDescriptor, error) {
	tag, err := TagName(cfg.Ref)
	if err != nil {
		return ReleaseDescriptor{}, err
	}

	name := cfg.Name
	if name == nil && policy == NameFromTag {
		name = &tag
	}

	return ReleaseDescriptor{
		TagName:         tag,
		Name:            name,
		Body:            cfg.Body,
		Draft:           cfg.Draft,
		Prerelease:      cfg.Prerelease,
		TargetCommitish: cfg.TargetCommitish,
	}, nil
}

// ReleaseHandle is the synchronized remote release
type ReleaseHandle struct {
	ID        int64  // Remote release ID, scopes asset uploads
	URL       string // Public release page
	UploadURL string // Upload endpoint template returned by the API
	Created   bool   // True when the release was created in this run
}
