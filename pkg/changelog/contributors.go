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
	"strings"

	"k8c.io/mchl/pkg/types"

	"k8s.io/apimachinery/pkg/util/sets"
)

// IsIgnored reports whether login matches an entry of the ignore list. An
// entry matches if it equals the login or is contained in it, so "dependabot"
// also ignores "dependabot[bot]" (and, less obviously, "not-a-dependabot").
func IsIgnored(login string, ignore []string) bool {
	for _, entry := range ignore {
		if entry == "" {
			continue
		}

		if entry == login || strings.Contains(login, entry) {
			return true
		}
	}

	return false
}

// UniqueAuthors returns the authors of the issues linked to the given
// commits, minus ignored logins. The first record seen for a login wins.
func UniqueAuthors(commits []*types.CommitInfo, ignore []string) []types.User {
	seen := sets.New[string]()
	authors := []types.User{}

	for _, commit := range commits {
		if commit.Issue == nil {
			continue
		}

		author := commit.Issue.Author
		if author.Login == "" || seen.Has(author.Login) || IsIgnored(author.Login, ignore) {
			continue
		}

		seen.Insert(author.Login)
		authors = append(authors, author)
	}

	return authors
}
