package model

import (
	"strings"

	"github.com/m-mizutani/ghrelease/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Repository identifies a hosted repository as owner/name
type Repository struct {
	Owner string
	Name  string
}

// ParseRepository parses the "owner/name" form
func ParseRepository(s string) (Repository, error) {
	owner, name, ok := strings.Cut(s, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return Repository{}, goerr.New("repository must be in owner/name form",
			goerr.V("repository", s),
			goerr.T(types.ErrTagConfig),
		)
	}

	return Repository{Owner: owner, Name: name}, nil
}

func (r Repository) String() string {
	return r.Owner + "/" + r.Name
}
