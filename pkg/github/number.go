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

package github

import (
	"regexp"
	"strings"
)

var pullRequestPatterns = []*regexp.Regexp{
	// regular merge commits
	regexp.MustCompile(`^Merge pull request #(\d+)`),
	// squash merges
	regexp.MustCompile(`\(#(\d+)\)$`),
	// homu/bors
	regexp.MustCompile(`^Auto merge of #(\d+) - `),
}

// FindPullRequestID returns the pull request number referenced in the first
// line of a commit message, or "" if there is none.
func FindPullRequestID(message string) string {
	firstLine, _, _ := strings.Cut(message, "\n")

	for _, pattern := range pullRequestPatterns {
		if match := pattern.FindStringSubmatch(firstLine); match != nil {
			return match[1]
		}
	}

	return ""
}
