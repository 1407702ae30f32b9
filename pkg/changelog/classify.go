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

const (
	tagPrefix     = "tag: "
	tagRefPrefix  = "refs/tags/"
	packagesDir   = "packages"
	scopedPackage = "@"
)

// ExtractTags returns the tag names found in a git decoration string like
// "HEAD -> master, tag: v1.0.0, origin/master". It returns nil (not an empty
// slice) if the decoration names no tag. If knownTags is not nil, tags that
// are not part of it are ignored.
func ExtractTags(refName string, knownTags sets.Set[string]) []string {
	var tags []string

	for _, segment := range strings.Split(refName, ", ") {
		segment = strings.TrimSpace(segment)

		name, found := strings.CutPrefix(segment, tagPrefix)
		// full decorations (log.decorate=full) name the whole ref
		name = strings.TrimPrefix(name, tagRefPrefix)
		if !found || name == "" {
			continue
		}

		if knownTags != nil && !knownTags.Has(name) {
			continue
		}

		tags = append(tags, name)
	}

	return tags
}

// PackageFromPath returns the monorepo package a file belongs to, or "".
//
//	packages/foo/index.js         => foo
//	packages/@scope/foo/index.js  => @scope/foo
//	packages/foo.js               => ""
func PackageFromPath(path string) string {
	parts := strings.Split(path, "/")
	if len(parts) < 3 || parts[0] != packagesDir || parts[1] == "" {
		return ""
	}

	if strings.HasPrefix(parts[1], scopedPackage) && len(parts) >= 4 {
		return parts[1] + "/" + parts[2]
	}

	return parts[1]
}

// PackagesFromPaths returns the distinct packages touched by a set of paths
// in first-seen order. The result is never nil.
func PackagesFromPaths(paths []string) []string {
	seen := sets.New[string]()
	packages := []string{}

	for _, path := range paths {
		pkg := PackageFromPath(path)
		if pkg == "" || seen.Has(pkg) {
			continue
		}

		seen.Insert(pkg)
		packages = append(packages, pkg)
	}

	return packages
}

// Categories maps the labels of an issue onto changelog headings. Labels are
// compared case-insensitively; the result follows the order of the mapping.
func Categories(mapping types.Labels, issueLabels []string) []string {
	lowered := sets.New[string]()
	for _, label := range issueLabels {
		lowered.Insert(strings.ToLower(label))
	}

	seen := sets.New[string]()
	categories := []string{}

	for _, label := range mapping {
		if !lowered.Has(strings.ToLower(label.Name)) || seen.Has(label.Heading) {
			continue
		}

		seen.Insert(label.Heading)
		categories = append(categories, label.Heading)
	}

	return categories
}

// Classify turns a git log entry into a CommitInfo with its tags set.
func Classify(item types.CommitListItem, knownTags sets.Set[string]) *types.CommitInfo {
	return &types.CommitInfo{
		CommitListItem: item,
		Tags:           ExtractTags(item.RefName, knownTags),
		Packages:       []string{},
	}
}
