package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/ghrelease/pkg/domain/model"
)

func TestNewAssetSpec(t *testing.T) {
	spec := model.NewAssetSpec("dist/foo/bar.txt")
	gt.Value(t, spec.Path).Equal("dist/foo/bar.txt")
	gt.Value(t, spec.Name).Equal("bar.txt")
	gt.Value(t, spec.ContentType).Equal("text/plain")
	gt.Value(t, spec.Label).Equal("")
}

func TestNewAssetSpec_UnknownExtension(t *testing.T) {
	spec := model.NewAssetSpec("dist/ghrelease_linux_amd64")
	gt.Value(t, spec.Name).Equal("ghrelease_linux_amd64")
	gt.Value(t, spec.ContentType).Equal("application/octet-stream")
}
