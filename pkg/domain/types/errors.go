package types

import (
	"github.com/m-mizutani/goerr/v2"
)

// Error tags classify failures so callers can tell a rejected credential
// from a network problem without parsing messages. goerr.HasTag finds a
// tag anywhere in a chain of wrapped goerr errors.
var (
	// ErrTagConfig marks malformed configuration: trigger reference,
	// repository identifier, glob pattern, manifest. Raised before any
	// network call.
	ErrTagConfig = goerr.NewTag("config")

	// ErrTagAuth marks a credential rejected by the hosting API.
	ErrTagAuth = goerr.NewTag("auth")

	// ErrTagNotFound marks an unknown or inaccessible repository.
	ErrTagNotFound = goerr.NewTag("not_found")

	// ErrTagTransport marks network failures, timeouts, rate limiting,
	// server errors and unparseable responses.
	ErrTagTransport = goerr.NewTag("transport")

	// ErrTagConflict marks an asset name that already exists on the release.
	ErrTagConflict = goerr.NewTag("conflict")
)
