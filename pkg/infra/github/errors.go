package github

import (
	"errors"
	"net/http"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ghrelease/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

func isNotFound(resp *github.Response) bool {
	return resp != nil && resp.StatusCode == http.StatusNotFound
}

// classify wraps err with the error tag matching the API failure
func classify(err error, msg string, opts ...goerr.Option) error {
	opts = append(opts, tagOf(err))

	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		opts = append(opts, goerr.V("status", errResp.Response.StatusCode))
	}

	return goerr.Wrap(err, msg, opts...)
}

// tagOf returns the tag option matching the API failure
func tagOf(err error) goerr.Option {
	var (
		rateErr  *github.RateLimitError
		abuseErr *github.AbuseRateLimitError
		errResp  *github.ErrorResponse
	)

	switch {
	case errors.As(err, &rateErr), errors.As(err, &abuseErr):
		return goerr.T(types.ErrTagTransport)

	case errors.As(err, &errResp) && errResp.Response != nil:
		switch errResp.Response.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return goerr.T(types.ErrTagAuth)
		case http.StatusNotFound:
			return goerr.T(types.ErrTagNotFound)
		case http.StatusUnprocessableEntity, http.StatusConflict:
			if isAlreadyExists(errResp) {
				return goerr.T(types.ErrTagConflict)
			}
			return goerr.T(types.ErrTagTransport)
		default:
			return goerr.T(types.ErrTagTransport)
		}

	default:
		return goerr.T(types.ErrTagTransport)
	}
}

func isAlreadyExists(errResp *github.ErrorResponse) bool {
	if errResp.Response.StatusCode == http.StatusConflict {
		return true
	}
	for _, e := range errResp.Errors {
		if e.Code == "already_exists" {
			return true
		}
	}
	return false
}
