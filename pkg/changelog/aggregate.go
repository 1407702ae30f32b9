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
	"fmt"
	"slices"
	"strings"

	"k8c.io/mchl/pkg/types"
)

// OtherPackages is the heading for commits that touch no package.
const OtherPackages = "Other"

type CategoryGroup struct {
	Heading string
	Commits []*types.CommitInfo
}

type PackageGroup struct {
	// Heading is either OtherPackages or a list of backtick-quoted package
	// names, e.g. "`foo`, `@scope/bar`".
	Heading string
	Commits []*types.CommitInfo
}

func (g PackageGroup) IsOther() bool {
	return g.Heading == OtherPackages
}

// GroupByCategory returns one group per heading, in heading order, even if
// a group ends up empty.
func GroupByCategory(commits []*types.CommitInfo, headings []string) []CategoryGroup {
	groups := make([]CategoryGroup, 0, len(headings))

	for _, heading := range headings {
		group := CategoryGroup{
			Heading: heading,
			Commits: []*types.CommitInfo{},
		}

		for _, commit := range commits {
			if slices.Contains(commit.Categories, heading) {
				group.Commits = append(group.Commits, commit)
			}
		}

		groups = append(groups, group)
	}

	return groups
}

// HasCategorizedCommits reports whether any commit of the release would be
// listed in the changelog.
func HasCategorizedCommits(groups []CategoryGroup) bool {
	for _, group := range groups {
		if len(group.Commits) > 0 {
			return true
		}
	}

	return false
}

// PackageHeading renders the bucket name for a package combination.
func PackageHeading(packages []string) string {
	if len(packages) == 0 {
		return OtherPackages
	}

	quoted := make([]string, 0, len(packages))
	for _, pkg := range packages {
		quoted = append(quoted, fmt.Sprintf("`%s`", pkg))
	}

	return strings.Join(quoted, ", ")
}

// GroupByPackage buckets commits by the packages they touch, in first-seen
// order.
func GroupByPackage(commits []*types.CommitInfo) []PackageGroup {
	index := map[string]int{}
	groups := []PackageGroup{}

	for _, commit := range commits {
		heading := PackageHeading(commit.Packages)

		idx, exists := index[heading]
		if !exists {
			idx = len(groups)
			index[heading] = idx
			groups = append(groups, PackageGroup{Heading: heading})
		}

		groups[idx].Commits = append(groups[idx].Commits, commit)
	}

	return groups
}
