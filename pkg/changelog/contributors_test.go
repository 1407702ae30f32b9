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
	"testing"

	"k8c.io/mchl/pkg/types"

	"github.com/google/go-cmp/cmp"
)

func TestIsIgnored(t *testing.T) {
	testcases := []struct {
		login    string
		ignore   []string
		expected bool
	}{
		{login: "dependabot[bot]", ignore: []string{"dependabot"}, expected: true},
		{login: "dependabot[bot]", ignore: []string{"dependabot[bot]"}, expected: true},
		{login: "robot-lover", ignore: []string{"bot"}, expected: true},
		{login: "jane", ignore: []string{"dependabot", "renovate"}, expected: false},
		{login: "jane", ignore: nil, expected: false},
		{login: "jane", ignore: []string{""}, expected: false},
	}

	for _, testcase := range testcases {
		if IsIgnored(testcase.login, testcase.ignore) != testcase.expected {
			t.Errorf("Expected IsIgnored(%q, %v) to be %v.", testcase.login, testcase.ignore, testcase.expected)
		}
	}
}

func TestUniqueAuthors(t *testing.T) {
	withAuthor := func(user types.User) *types.CommitInfo {
		return &types.CommitInfo{Issue: &types.Issue{Author: user}}
	}

	commits := []*types.CommitInfo{
		withAuthor(types.User{Login: "jane", URL: "first"}),
		{},
		withAuthor(types.User{Login: "greenkeeper[bot]"}),
		withAuthor(types.User{Login: "john"}),
		withAuthor(types.User{Login: "jane", URL: "second"}),
		withAuthor(types.User{}),
	}

	expected := []types.User{
		{Login: "jane", URL: "first"},
		{Login: "john"},
	}

	if diff := cmp.Diff(expected, UniqueAuthors(commits, []string{"greenkeeper"})); diff != "" {
		t.Fatalf("Unexpected authors (-want +got):\n%s", diff)
	}
}
