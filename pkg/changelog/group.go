/*
Copyright 2026 The Kubermatic Kubernetes Platform contributors.

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

package changelog

import (
	"k8c.io/mchl/pkg/types"
)

// releaseAccumulator is the state carried through GroupReleases.
type releaseAccumulator struct {
	// currentTags are the releases the next untagged commit belongs to.
	currentTags []string
	index       map[string]int
	releases    []*types.Release
}

func newReleaseAccumulator() releaseAccumulator {
	return releaseAccumulator{
		currentTags: []string{types.UnreleasedTag},
		index:       map[string]int{},
		releases:    []*types.Release{},
	}
}

func (acc releaseAccumulator) add(commit *types.CommitInfo, today string) releaseAccumulator {
	if len(commit.Tags) > 0 {
		acc.currentTags = commit.Tags
	}

	for _, tag := range acc.currentTags {
		idx, exists := acc.index[tag]
		if !exists {
			date := commit.Date
			if tag == types.UnreleasedTag {
				date = today
			}

			idx = len(acc.releases)
			acc.index[tag] = idx
			acc.releases = append(acc.releases, &types.Release{
				Name:    tag,
				Date:    date,
				Commits: []*types.CommitInfo{},
			})
		}

		release := acc.releases[idx]
		release.Commits = append(release.Commits, commit)
	}

	return acc
}

// GroupReleases groups commits (newest first, as git log lists them) into
// releases. An untagged commit belongs to the releases of the closest newer
// tagged commit, or to the unreleased release if there is none. A commit
// with several tags is part of all their releases. Releases are returned in
// the order they were first seen.
func GroupReleases(commits []*types.CommitInfo, today string) []*types.Release {
	acc := newReleaseAccumulator()
	for _, commit := range commits {
		acc = acc.add(commit, today)
	}

	return acc.releases
}
