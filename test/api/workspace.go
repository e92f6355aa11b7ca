package api

import (
	"errors"
	"regexp"
)

var ErrInvalidWorkspaceID = errors.New("invalid workspace id: must consist of lower case alphanumeric characters, '-' or '_', and must start and end with an alphanumeric character")

var workspaceIDValidationRegex = regexp.MustCompile("^[a-z0-9]([-_a-z0-9]{0,48}[a-z0-9])?$")

type WorkspaceID struct {
	Value string
}

func (n *WorkspaceID) UnmarshalText(text []byte) error {
	if !workspaceIDValidationRegex.Match(text) {
		return ErrInvalidWorkspaceID
	}

	*n = WorkspaceID{
		Value: string(text),
	}

	return nil
}

func (n WorkspaceID) String() string {
	return n.Value
}
