package model

// Config is the resolved configuration of a single publish run. It is
// produced by the CLI layer; the use case never reads environment
// variables or files for configuration itself.
type Config struct {
	Ref        string // Trigger reference, e.g. refs/tags/v1.0.0
	Repository string // owner/name

	Name            *string
	Body            *string
	Draft           *bool
	Prerelease      *bool
	TargetCommitish *string

	Files                []string     // Glob patterns of assets
	Assets               []AssetEntry // Explicitly named assets
	FailOnUnmatchedFiles bool
}

// RunState is the state of the publish state machine
type RunState string

const (
	RunStateSkipped  RunState = "skipped"
	RunStateReleased RunState = "released"
	RunStateDone     RunState = "done"
)

// PublishResult is the outcome of a publish run
type PublishResult struct {
	State   RunState
	Release *ReleaseHandle
	Uploads []*UploadResult
}
