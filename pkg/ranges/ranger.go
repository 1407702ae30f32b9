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

package ranges

import (
	"context"
	"fmt"

	"k8c.io/mchl/pkg/types"

	"github.com/Masterminds/semver/v3"
	"github.com/sirupsen/logrus"
)

const defaultTo = "HEAD"

type TagSource interface {
	// LastTag returns the most recent tag reachable from HEAD.
	LastTag(ctx context.Context) (string, error)
	TagNames() ([]string, error)
}

// Range is a git revision range; an empty From means "since the beginning".
type Range struct {
	From string
	To   string
}

func (r Range) String() string {
	if r.From == "" {
		return r.To
	}

	return fmt.Sprintf("%s..%s", r.From, r.To)
}

// DetermineRange resolves the commit range from the --tag-from/--tag-to
// flags. Without --tag-from, the changelog starts at the most recent tag
// reachable from HEAD. If git cannot describe HEAD (e.g. because tags only
// exist on other branches), the highest stable semver tag is used instead.
// A repository without any tags is processed as a whole.
func DetermineRange(ctx context.Context, tags TagSource, log logrus.FieldLogger, opts *types.Options) (Range, error) {
	r := Range{
		From: opts.TagFrom,
		To:   opts.TagTo,
	}

	if r.To == "" {
		r.To = defaultTo
	}

	if r.From != "" {
		return r, nil
	}

	lastTag, err := tags.LastTag(ctx)
	if err == nil && lastTag != "" {
		log.WithField("tag", lastTag).Debug("Resolved start of range to the last tag.")
		r.From = lastTag
		return r, nil
	}

	log.WithError(err).Debug("Could not describe HEAD, looking for the latest stable tag.")

	allTags, err := tags.TagNames()
	if err != nil {
		return r, fmt.Errorf("failed to list tags: %w", err)
	}

	if latest := latestStableTag(allTags, r.To); latest != "" {
		log.WithField("tag", latest).Info("Resolved start of range to the latest stable tag.")
		r.From = latest
		return r, nil
	}

	log.Warn("Repository has no usable tags, using the entire history.")

	return r, nil
}

// latestStableTag returns the highest tag that is a semver without
// prerelease suffix, skipping the end of the range itself.
func latestStableTag(tags []string, exclude string) string {
	var (
		best    *semver.Version
		bestTag string
	)

	for _, tag := range tags {
		if tag == exclude {
			continue
		}

		sv, err := semver.NewVersion(tag)
		if err != nil || sv.Prerelease() != "" {
			continue
		}

		if best == nil || sv.GreaterThan(best) {
			best = sv
			bestTag = tag
		}
	}

	return bestTag
}
