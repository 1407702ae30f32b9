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

package action

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"k8c.io/mchl/pkg/cache"
	"k8c.io/mchl/pkg/changelog"
	"k8c.io/mchl/pkg/config"
	"k8c.io/mchl/pkg/git"
	"k8c.io/mchl/pkg/provider"
	"k8c.io/mchl/pkg/ranges"
	"k8c.io/mchl/pkg/render"
	"k8c.io/mchl/pkg/types"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// Action knows everything to run one mchl invocation.
type Action struct {
	Name string

	opts   *types.Options
	log    logrus.FieldLogger
	stdout io.Writer
	stderr *os.File
}

// New returns a new Action wrapper
func New(name string, opts *types.Options, log logrus.FieldLogger) *Action {
	if name == "" {
		name = "mchl"
		if len(os.Args) > 0 {
			name = filepath.Base(os.Args[0])
		}
	}

	return &Action{
		Name:   name,
		opts:   opts,
		log:    log,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// repository combines the git CLI (for history) with go-git (for tags).
type repository struct {
	*git.CLI
	*git.Repository
}

// GenerateChangelog writes the changelog for the configured range to stdout.
func (a *Action) GenerateChangelog(ctx context.Context) error {
	local, err := git.Open(a.opts.RepositoryPath)
	if err != nil {
		return err
	}

	repo := repository{
		CLI:        git.NewCLI(local.Root(), a.log),
		Repository: local,
	}

	remoteURL, err := local.RemoteURL()
	if err != nil {
		a.log.WithError(err).Debug("Cannot use git remote to infer the repository slug.")
	}

	cfg, err := config.Load(config.LoadOptions{
		RootPath:  local.Root(),
		RemoteURL: remoteURL,
		Overrides: config.Overrides{
			Repo:                    a.opts.Repo,
			NextVersion:             a.opts.NextVersion,
			NextVersionFromMetadata: a.opts.NextVersionFromMetadata,
			GitProvider:             a.opts.GitProvider,
			GithubAPI:               a.opts.GithubAPI,
			CacheDir:                a.opts.CacheDir,
		},
	})
	if err != nil {
		return err
	}

	a.log.WithFields(logrus.Fields{
		"repo":     cfg.Repo,
		"provider": cfg.GitProvider,
	}).Debug("Loaded configuration.")

	prov, err := NewProvider(ctx, cfg, a.log)
	if err != nil {
		return err
	}

	cacheDir := ""
	if cfg.CacheDir != "" {
		cacheDir = filepath.Join(cfg.RootPath, cfg.CacheDir)
	}

	store, err := cache.New(cacheDir, a.log)
	if err != nil {
		return err
	}

	r, err := ranges.DetermineRange(ctx, repo, a.log, a.opts)
	if err != nil {
		return err
	}

	a.log.WithField("range", r.String()).Info("Generating changelog.")

	knownTags, err := local.TagNames()
	if err != nil {
		return err
	}

	generator := changelog.NewGenerator(repo, provider.NewCached(prov, store, a.log), a.log, a.progress(), changelog.Options{
		From:             r.From,
		To:               r.To,
		Labels:           cfg.Labels,
		IgnoreCommitters: cfg.IgnoreCommitters,
		KnownTags:        knownTags,
		Concurrency:      a.opts.Concurrency,
	})

	releases, err := generator.Generate(ctx)
	if err != nil {
		return err
	}

	renderer, err := render.New(a.opts.Output, render.Options{
		Labels:       cfg.Labels,
		BaseIssueURL: cfg.BaseIssueURL(),
		DisplayName:  cfg.DisplayName,
		Highlight:    a.isTerminal(a.stdout),
	})
	if err != nil {
		return err
	}

	output, err := renderer.Render(releases)
	if err != nil {
		return fmt.Errorf("failed to render changelog: %w", err)
	}

	if output == "" {
		a.log.Info("No changes found.")
		return nil
	}

	if !strings.HasSuffix(output, "\n") {
		output += "\n"
	}

	if _, err := io.WriteString(a.stdout, output); err != nil {
		return fmt.Errorf("failed to write changelog: %w", err)
	}

	return nil
}

func (a *Action) progress() changelog.Progress {
	if !a.isTerminal(a.stderr) {
		return nil
	}

	return newSpinnerProgress(a.stderr)
}

func (a *Action) isTerminal(w interface{}) bool {
	f, ok := w.(*os.File)
	return ok && f != nil && term.IsTerminal(int(f.Fd()))
}
