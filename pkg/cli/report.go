package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/m-mizutani/ghrelease/pkg/domain/model"
)

var (
	warnColor    = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen, color.Bold)
	assetColor   = color.New(color.FgCyan)
)

// printResult writes the human readable summary of a run
func printResult(w io.Writer, result *model.PublishResult) {
	if result.State == model.RunStateSkipped {
		_, _ = warnColor.Fprintln(w, "⚠️  GitHub Releases requires a tag, nothing to publish")
		return
	}

	for _, u := range result.Uploads {
		_, _ = fmt.Fprintf(w, "⬆️  Uploaded %s (%d bytes)\n", assetColor.Sprint(u.Name), u.Size)
	}

	if result.Release == nil {
		return
	}

	switch result.State {
	case model.RunStateDone:
		_, _ = successColor.Fprintf(w, "🎉 Release ready at %s\n", result.Release.URL)
	default:
		_, _ = warnColor.Fprintf(w, "⚠️  Release %s is incomplete\n", result.Release.URL)
	}
}
