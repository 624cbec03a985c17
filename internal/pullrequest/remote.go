package pullrequest

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var ErrUnsupportedRemote = errors.New("could not parse remote URL")

var scpRemoteRe = regexp.MustCompile(`^git@github\.com[:/]([^/]+)/([^/]+?)(?:\.git)?/?$`)

// Repository identifies a GitHub repository.
type Repository struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

func (r Repository) String() string {
	return r.Owner + "/" + r.Name
}

// ParseRemoteURL accepts git@github.com:owner/repo and
// https://github.com/owner/repo remotes, with or without the .git suffix.
func ParseRemoteURL(remote string) (Repository, error) {
	remote = strings.TrimSpace(remote)

	if m := scpRemoteRe.FindStringSubmatch(remote); m != nil {
		return Repository{Owner: m[1], Name: m[2]}, nil
	}

	u, err := url.Parse(remote)
	if err != nil || (u.Scheme != "https" && u.Scheme != "ssh") || u.Hostname() != "github.com" {
		return Repository{}, fmt.Errorf("%w: %s", ErrUnsupportedRemote, remote)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 2 || segments[0] == "" || segments[1] == "" {
		return Repository{}, fmt.Errorf("%w: %s", ErrUnsupportedRemote, remote)
	}
	return Repository{
		Owner: segments[0],
		Name:  strings.TrimSuffix(segments[1], ".git"),
	}, nil
}
