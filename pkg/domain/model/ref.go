package model

import (
	"strings"

	"github.com/m-mizutani/ghrelease/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// TagRefPrefix is the namespace of tag references in a git trigger ref.
const TagRefPrefix = "refs/tags/"

// IsTag reports whether ref points at a tag rather than a branch.
func IsTag(ref string) bool {
	return strings.HasPrefix(ref, TagRefPrefix)
}

// TagName strips the tag namespace from ref exactly once.
func TagName(ref string) (string, error) {
	if !IsTag(ref) {
		return "", goerr.New("trigger reference is not a tag",
			goerr.V("ref", ref),
			goerr.T(types.ErrTagConfig),
		)
	}

	tag := strings.TrimPrefix(ref, TagRefPrefix)
	if tag == "" {
		return "", goerr.New("tag name is empty",
			goerr.V("ref", ref),
			goerr.T(types.ErrTagConfig),
		)
	}

	return tag, nil
}
