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

import "testing"

func TestFindPullRequestID(t *testing.T) {
	testcases := []struct {
		message  string
		expected string
	}{
		{
			message:  "Merge pull request #42 from Turbo87/pkg-config\n\nRead \"changelog\" config key from \"package.json\" too",
			expected: "42",
		},
		{
			message:  "Update README.md (#13)",
			expected: "13",
		},
		{
			message:  "Auto merge of #7056 - fixTypos:fix_typos, r=Turbo87\n\nfix_typos",
			expected: "7056",
		},
		{
			message:  "Adjust lint script (#48)\n\n* body",
			expected: "48",
		},
		{
			message:  "This is not a merge commit 42",
			expected: "",
		},
		{
			message:  "Fix (#13) in the middle",
			expected: "",
		},
		{
			message:  "Update README.md\n\nsee (#13)",
			expected: "",
		},
		{
			message:  "Merge branch 'master' into feature",
			expected: "",
		},
		{
			message:  "",
			expected: "",
		},
	}

	for _, testcase := range testcases {
		if id := FindPullRequestID(testcase.message); id != testcase.expected {
			t.Errorf("Expected %q for %q, got %q.", testcase.expected, testcase.message, id)
		}
	}
}
