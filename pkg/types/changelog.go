/*
Copyright 2022 The Kubermatic Kubernetes Platform contributors.

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

package types

import "k8s.io/apimachinery/pkg/util/sets"

// UnreleasedTag is the release name used for commits that are not covered
// by any tag yet.
const UnreleasedTag = "___unreleased___"

// CommitListItem is a single line of `git log` output.
type CommitListItem struct {
	SHA string `yaml:"sha"`
	// RefName is the raw decoration string, e.g. "HEAD -> master, tag: v1.0.0, origin/master".
	RefName string `yaml:"refName,omitempty"`
	Summary string `yaml:"summary"`
	Date    string `yaml:"date"`
}

type User struct {
	Login string `yaml:"login" json:"login"`
	Name  string `yaml:"name,omitempty" json:"name,omitempty"`
	URL   string `yaml:"url" json:"url"`
}

// Issue is an issue, pull request or merge request on the hosting provider.
type Issue struct {
	ID    int    `yaml:"id" json:"id"`
	Title string `yaml:"title" json:"title"`
	// PullRequest is the HTML URL of the pull/merge request, empty for plain issues.
	PullRequest string   `yaml:"pullRequest,omitempty" json:"pullRequest,omitempty"`
	Labels      []string `yaml:"labels" json:"labels"`
	Author      User     `yaml:"author" json:"author"`
}

type CommitInfo struct {
	CommitListItem `yaml:",inline"`

	// Tags is nil when the commit carries no tag decoration at all.
	Tags        []string `yaml:"tags,omitempty"`
	IssueNumber string   `yaml:"issueNumber,omitempty"`
	Issue       *Issue   `yaml:"issue,omitempty"`
	Categories  []string `yaml:"categories,omitempty"`
	Packages    []string `yaml:"packages"`
}

type Release struct {
	Name         string        `yaml:"name"`
	Date         string        `yaml:"date"`
	Commits      []*CommitInfo `yaml:"commits"`
	Contributors []User        `yaml:"contributors,omitempty"`
}

func (r *Release) IsUnreleased() bool {
	return r.Name == UnreleasedTag
}

// Label maps a raw provider label onto a changelog heading.
type Label struct {
	Name    string `yaml:"name"`
	Heading string `yaml:"heading"`
}

// Labels is an ordered label mapping; its order is the order of the
// categories in the changelog.
type Labels []Label

// Headings returns the distinct headings in label order. Several labels
// may share one heading.
func (l Labels) Headings() []string {
	seen := sets.New[string]()
	headings := make([]string, 0, len(l))
	for _, label := range l {
		if seen.Has(label.Heading) {
			continue
		}
		seen.Insert(label.Heading)
		headings = append(headings, label.Heading)
	}

	return headings
}
