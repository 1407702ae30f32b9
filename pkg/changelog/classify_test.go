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
	"k8s.io/apimachinery/pkg/util/sets"
)

func TestExtractTags(t *testing.T) {
	testcases := []struct {
		refName   string
		knownTags sets.Set[string]
		expected  []string
	}{
		{
			refName:  "",
			expected: nil,
		},
		{
			refName:  "HEAD -> master, origin/master, origin/HEAD",
			expected: nil,
		},
		{
			refName:  "tag: v1.0.0",
			expected: []string{"v1.0.0"},
		},
		{
			refName:  "HEAD -> master, tag: v2.0.0, tag: @scope/pkg@1.0.0, origin/master",
			expected: []string{"v2.0.0", "@scope/pkg@1.0.0"},
		},
		{
			refName:   "tag: v1.0.0, tag: deleted",
			knownTags: sets.New("v1.0.0"),
			expected:  []string{"v1.0.0"},
		},
		{
			refName:   "HEAD -> refs/heads/master, tag: refs/tags/v1.0.0, refs/remotes/origin/master",
			knownTags: sets.New("v1.0.0"),
			expected:  []string{"v1.0.0"},
		},
		{
			refName:  "garbage;;;tag:no-space",
			expected: nil,
		},
	}

	for _, testcase := range testcases {
		t.Run(testcase.refName, func(t *testing.T) {
			tags := ExtractTags(testcase.refName, testcase.knownTags)

			if diff := cmp.Diff(testcase.expected, tags); diff != "" {
				t.Fatalf("Unexpected tags (-want +got):\n%s", diff)
			}

			// absent and empty are not the same thing
			if testcase.expected == nil && tags != nil {
				t.Fatalf("Expected nil tags, got %#v.", tags)
			}
		})
	}
}

func TestPackageFromPath(t *testing.T) {
	testcases := map[string]string{
		"packages/foo/bar.js":               "foo",
		"packages/foo/lib/deep/bar.js":      "foo",
		"packages/@foo/bar/baz.js":          "@foo/bar",
		"packages/@foo/bar.js":              "@foo",
		"packages/foo.js":                   "",
		"foo.js":                            "",
		"src/packages/foo/bar.js":           "",
		"packages//bar.js":                  "",
		"packages/lerna-changelog/pkg.json": "lerna-changelog",
	}

	for path, expected := range testcases {
		if pkg := PackageFromPath(path); pkg != expected {
			t.Errorf("Expected %q for %q, got %q.", expected, path, pkg)
		}
	}
}

func TestPackagesFromPaths(t *testing.T) {
	paths := []string{
		"README.md",
		"packages/foo/index.js",
		"packages/@scope/bar/index.js",
		"packages/foo/test.js",
		"packages/baz.js",
	}

	if diff := cmp.Diff([]string{"foo", "@scope/bar"}, PackagesFromPaths(paths)); diff != "" {
		t.Errorf("Unexpected packages (-want +got):\n%s", diff)
	}

	if packages := PackagesFromPaths(nil); packages == nil || len(packages) != 0 {
		t.Errorf("Expected an empty, non-nil list, got %#v.", packages)
	}
}

func TestCategories(t *testing.T) {
	mapping := types.Labels{
		{Name: "Type: Breaking Change", Heading: ":boom: Breaking Change"},
		{Name: "Type: Bug", Heading: ":bug: Bug Fix"},
		{Name: "bug", Heading: ":bug: Bug Fix"},
		{Name: "Type: Enhancement", Heading: ":rocket: Enhancement"},
	}

	testcases := []struct {
		name     string
		labels   []string
		expected []string
	}{
		{
			name:     "no labels",
			labels:   nil,
			expected: []string{},
		},
		{
			name:     "case-insensitive",
			labels:   []string{"type: bug"},
			expected: []string{":bug: Bug Fix"},
		},
		{
			name:     "mapping order wins",
			labels:   []string{"Type: Enhancement", "Type: Breaking Change"},
			expected: []string{":boom: Breaking Change", ":rocket: Enhancement"},
		},
		{
			name:     "shared heading is listed once",
			labels:   []string{"bug", "Type: Bug"},
			expected: []string{":bug: Bug Fix"},
		},
		{
			name:     "unknown labels",
			labels:   []string{"Status: In Progress"},
			expected: []string{},
		},
	}

	for _, testcase := range testcases {
		t.Run(testcase.name, func(t *testing.T) {
			if diff := cmp.Diff(testcase.expected, Categories(mapping, testcase.labels)); diff != "" {
				t.Fatalf("Unexpected categories (-want +got):\n%s", diff)
			}
		})
	}
}
