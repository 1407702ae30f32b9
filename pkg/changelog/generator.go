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

// Package changelog turns a range of commits into releases: commits are
// classified, enriched with issue metadata, grouped by release tag and
// finally annotated with their contributors.
package changelog

import (
	"context"
	"fmt"
	"time"

	"k8c.io/mchl/pkg/provider"
	"k8c.io/mchl/pkg/types"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"k8s.io/apimachinery/pkg/util/sets"
)

const dateFormat = "2006-01-02"

// CommitSource is the local git repository.
type CommitSource interface {
	ListCommits(ctx context.Context, from string, to string) ([]types.CommitListItem, error)
	ChangedPaths(ctx context.Context, sha string) ([]string, error)
}

// Progress is informed about long-running phases.
type Progress interface {
	Start(phase string, total int)
	Tick(item string)
	Stop()
}

type noProgress struct{}

func (noProgress) Start(string, int) {}
func (noProgress) Tick(string)       {}
func (noProgress) Stop()             {}

type Options struct {
	From string
	To   string

	Labels           types.Labels
	IgnoreCommitters []string
	// KnownTags, if set, restricts which tag decorations start a release.
	KnownTags   []string
	Concurrency int

	// Now defaults to time.Now and dates the unreleased release.
	Now func() time.Time
}

type Generator struct {
	source   CommitSource
	provider provider.Provider
	log      logrus.FieldLogger
	progress Progress
	opts     Options
}

func NewGenerator(source CommitSource, prov provider.Provider, log logrus.FieldLogger, progress Progress, opts Options) *Generator {
	if progress == nil {
		progress = noProgress{}
	}

	if opts.Concurrency < 1 {
		opts.Concurrency = types.DefaultConcurrency
	}

	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Generator{
		source:   source,
		provider: prov,
		log:      log,
		progress: progress,
		opts:     opts,
	}
}

// Generate returns all releases in the configured range, newest first.
// Releases without any categorized commit are included but get no
// contributors, as they will not be rendered.
func (g *Generator) Generate(ctx context.Context) ([]*types.Release, error) {
	items, err := g.source.ListCommits(ctx, g.opts.From, g.opts.To)
	if err != nil {
		return nil, fmt.Errorf("failed to list commits: %w", err)
	}

	g.log.WithField("commits", len(items)).Debug("Listed commits")

	var knownTags sets.Set[string]
	if g.opts.KnownTags != nil {
		knownTags = sets.New(g.opts.KnownTags...)
	}

	commits := make([]*types.CommitInfo, 0, len(items))
	for _, item := range items {
		commits = append(commits, Classify(item, knownTags))
	}

	if err := g.enrich(ctx, commits); err != nil {
		return nil, err
	}

	releases := GroupReleases(commits, g.opts.Now().Format(dateFormat))

	headings := g.opts.Labels.Headings()
	for _, release := range releases {
		if !HasCategorizedCommits(GroupByCategory(release.Commits, headings)) {
			continue
		}

		contributors, err := g.contributors(ctx, release)
		if err != nil {
			return nil, err
		}

		release.Contributors = contributors
	}

	return releases, nil
}

// enrich fetches issue data and changed packages for all commits. Each
// goroutine only writes to its own commit; grouping starts after all of
// them are done.
func (g *Generator) enrich(ctx context.Context, commits []*types.CommitInfo) error {
	g.progress.Start("Fetching issue data", len(commits))
	defer g.progress.Stop()

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.opts.Concurrency)

	for _, commit := range commits {
		commit := commit

		eg.Go(func() error {
			defer g.progress.Tick(commit.SHA)
			return g.enrichCommit(ctx, commit)
		})
	}

	return eg.Wait()
}

func (g *Generator) enrichCommit(ctx context.Context, commit *types.CommitInfo) error {
	log := g.log.WithField("commit", commit.SHA)

	number, err := g.provider.IssueNumber(ctx, commit.CommitListItem)
	switch {
	case provider.IsFatal(err):
		return err
	case err != nil:
		log.WithError(err).Warn("Failed to determine issue number")
	case number != "":
		commit.IssueNumber = number

		issue, err := g.provider.Issue(ctx, number)
		switch {
		case provider.IsFatal(err):
			return err
		case err != nil:
			log.WithError(err).WithField("issue", number).Warn("Failed to fetch issue")
		default:
			commit.Issue = issue
			commit.Categories = Categories(g.opts.Labels, issue.Labels)
		}
	}

	paths, err := g.source.ChangedPaths(ctx, commit.SHA)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		log.WithError(err).Warn("Failed to list changed files")
		return nil
	}

	commit.Packages = PackagesFromPaths(paths)

	return nil
}

// contributors resolves the display data of the release's unique authors,
// keeping their first-seen order. If a user cannot be fetched, the author
// record of the issue is used instead.
func (g *Generator) contributors(ctx context.Context, release *types.Release) ([]types.User, error) {
	authors := UniqueAuthors(release.Commits, g.opts.IgnoreCommitters)
	users := make([]types.User, len(authors))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.opts.Concurrency)

	for i, author := range authors {
		i, author := i, author

		eg.Go(func() error {
			user, err := g.provider.User(ctx, author.Login)
			switch {
			case provider.IsFatal(err):
				return err
			case err != nil:
				g.log.WithError(err).WithField("login", author.Login).Warn("Failed to fetch user")
				users[i] = author
			default:
				users[i] = *user
				if users[i].Login == "" {
					users[i].Login = author.Login
				}
			}

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return users, nil
}
