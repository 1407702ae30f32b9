/*
Copyright 2020 The Kubermatic Kubernetes Platform contributors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package git

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Repository holds information about the local repository.
type Repository struct {
	repo *git.Repository
	root string
}

// Open opens the repository containing path, walking up the directory tree
// until a .git directory is found.
func Open(path string) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to open git repository %s: %w", path, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("unable to determine worktree of %s: %w", path, err)
	}

	return &Repository{
		repo: repo,
		root: worktree.Filesystem.Root(),
	}, nil
}

// Root returns the top-level directory of the worktree.
func (r *Repository) Root() string {
	return r.root
}

// TagNames returns the short names of all tags, sorted alphabetically.
func (r *Repository) TagNames() ([]string, error) {
	tags, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("unable to list tags: %w", err)
	}

	var names []string
	err = tags.ForEach(func(reference *plumbing.Reference) error {
		names = append(names, reference.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to iterate tags: %w", err)
	}

	sort.Strings(names)

	return names, nil
}

// RemoteURL returns the first URL of the "origin" remote, or of the first
// remote if there is no origin.
func (r *Repository) RemoteURL() (string, error) {
	remote, err := r.repo.Remote(git.DefaultRemoteName)
	if err == nil && len(remote.Config().URLs) > 0 {
		return remote.Config().URLs[0], nil
	}

	if err != nil && !errors.Is(err, git.ErrRemoteNotFound) {
		return "", fmt.Errorf("unable to read remote %q: %w", git.DefaultRemoteName, err)
	}

	remotes, err := r.repo.Remotes()
	if err != nil {
		return "", fmt.Errorf("unable to list remotes: %w", err)
	}

	for _, remote := range remotes {
		if urls := remote.Config().URLs; len(urls) > 0 {
			return urls[0], nil
		}
	}

	return "", errors.New("repository does not have any remote")
}
